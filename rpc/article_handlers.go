package rpc

import (
	"context"

	"moviewrite/native/articles"
)

type articleOpenParams struct {
	Caller                string `json:"caller"`
	Title                 string `json:"title"`
	MovieTitle            string `json:"movieTitle"`
	Genre                 string `json:"genre"`
	MinContributionLength uint64 `json:"minContributionLength"`
	MaxContributors       uint64 `json:"maxContributors"`
}

type idParams struct {
	Caller string `json:"caller,omitempty"`
	ID     uint64 `json:"id"`
}

type idAccountParams struct {
	ID      uint64 `json:"id"`
	Account string `json:"account"`
}

type contributionAddParams struct {
	Caller    string `json:"caller"`
	ArticleID uint64 `json:"articleId"`
	Content   string `json:"content"`
}

type contributionApproveParams struct {
	Caller string `json:"caller"`
	ID     uint64 `json:"id"`
	Reward string `json:"reward"`
}

type ArticleTotalsResult struct {
	Articles      uint64 `json:"articles"`
	Contributions uint64 `json:"contributions"`
}

func (s *Server) handleArticleOpen(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params articleOpenParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	article, err := s.node.OpenArticle(ctx, caller, articles.OpenParams{
		Title:                 params.Title,
		MovieTitle:            params.MovieTitle,
		Genre:                 params.Genre,
		MinContributionLength: params.MinContributionLength,
		MaxContributors:       params.MaxContributors,
	})
	if err != nil {
		return nil, err
	}
	return articleResult(article), nil
}

func (s *Server) handleArticleComplete(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	article, err := s.node.CompleteArticle(ctx, caller, params.ID)
	if err != nil {
		return nil, err
	}
	return articleResult(article), nil
}

func (s *Server) handleArticleGet(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	article, err := s.node.Article(params.ID)
	if err != nil {
		return nil, err
	}
	return articleResult(article), nil
}

func (s *Server) handleArticleTotals(_ context.Context, _ *RPCRequest) (interface{}, error) {
	totalArticles, totalContributions, err := s.node.ArticleTotals()
	if err != nil {
		return nil, err
	}
	return ArticleTotalsResult{Articles: totalArticles, Contributions: totalContributions}, nil
}

func (s *Server) handleArticleContributions(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	ids, err := s.node.ArticleContributions(params.ID)
	if err != nil {
		return nil, err
	}
	return idList(ids), nil
}

func (s *Server) handleArticleHasContributed(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params idAccountParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	addr, err := parseAccountParam("account", params.Account)
	if err != nil {
		return nil, err
	}
	return s.node.HasContributed(params.ID, addr)
}

func (s *Server) handleContributionAdd(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params contributionAddParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	contribution, err := s.node.AddContribution(ctx, caller, params.ArticleID, params.Content)
	if err != nil {
		return nil, err
	}
	return contributionResult(contribution), nil
}

func (s *Server) handleContributionLike(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	contribution, err := s.node.LikeContribution(ctx, caller, params.ID)
	if err != nil {
		return nil, err
	}
	return contributionResult(contribution), nil
}

func (s *Server) handleContributionApprove(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params contributionApproveParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	reward, err := parseAmountParam("reward", params.Reward)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	contribution, err := s.node.ApproveContribution(ctx, caller, params.ID, reward)
	if err != nil {
		return nil, err
	}
	return contributionResult(contribution), nil
}

func (s *Server) handleContributionGet(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	contribution, err := s.node.Contribution(params.ID)
	if err != nil {
		return nil, err
	}
	return contributionResult(contribution), nil
}

func (s *Server) handleContributionByUser(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params tokenAccountParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	addr, err := parseAccountParam("account", params.Account)
	if err != nil {
		return nil, err
	}
	ids, err := s.node.UserContributions(addr)
	if err != nil {
		return nil, err
	}
	return idList(ids), nil
}

func (s *Server) handleContributionHasLiked(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params idAccountParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	addr, err := parseAccountParam("account", params.Account)
	if err != nil {
		return nil, err
	}
	return s.node.HasLiked(params.ID, addr)
}

// idList keeps empty lists encoded as [] rather than null.
func idList(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}

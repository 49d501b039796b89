package core

import (
	"context"
	"math/big"

	"moviewrite/native/articles"
	"moviewrite/observability/metrics"
)

// OpenArticle creates a new article owned by creator.
func (n *Node) OpenArticle(ctx context.Context, creator [20]byte, params articles.OpenParams) (*articles.Article, error) {
	var out *articles.Article
	err := n.apply(ctx, articles.ModuleName, "openArticle", func(eng *engines) error {
		article, err := eng.articles.OpenArticle(creator, params)
		out = article
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddContribution submits content to an article.
func (n *Node) AddContribution(ctx context.Context, contributor [20]byte, articleID uint64, content string) (*articles.Contribution, error) {
	var out *articles.Contribution
	err := n.apply(ctx, articles.ModuleName, "addContribution", func(eng *engines) error {
		contribution, err := eng.articles.AddContribution(contributor, articleID, content)
		out = contribution
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LikeContribution records a like from liker.
func (n *Node) LikeContribution(ctx context.Context, liker [20]byte, contributionID uint64) (*articles.Contribution, error) {
	var out *articles.Contribution
	err := n.apply(ctx, articles.ModuleName, "likeContribution", func(eng *engines) error {
		contribution, err := eng.articles.LikeContribution(liker, contributionID)
		out = contribution
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveContribution approves a contribution and mints its reward.
func (n *Node) ApproveContribution(ctx context.Context, curator [20]byte, contributionID uint64, reward *big.Int) (*articles.Contribution, error) {
	var out *articles.Contribution
	err := n.apply(ctx, articles.ModuleName, "approveContribution", func(eng *engines) error {
		contribution, err := eng.articles.ApproveContribution(curator, contributionID, reward)
		out = contribution
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Marketplace().ObserveReward(out.Rewards)
	return out, nil
}

// CompleteArticle completes an article and issues its certificate.
func (n *Node) CompleteArticle(ctx context.Context, curator [20]byte, articleID uint64) (*articles.Article, error) {
	var out *articles.Article
	err := n.apply(ctx, articles.ModuleName, "completeArticle", func(eng *engines) error {
		article, err := eng.articles.CompleteArticle(curator, articleID)
		out = article
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Marketplace().ObserveCompletion()
	metrics.Marketplace().ObserveMint("completion", 1)
	return out, nil
}

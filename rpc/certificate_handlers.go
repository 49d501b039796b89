package rpc

import (
	"context"

	"moviewrite/native/certificate"
)

type mintItem struct {
	To          string   `json:"to"`
	Title       string   `json:"title"`
	ContentHash string   `json:"contentHash"`
	Categories  []string `json:"categories"`
}

type certificateMintParams struct {
	Caller  string `json:"caller"`
	Payment string `json:"payment"`
	mintItem
}

type certificateMintBatchParams struct {
	Caller string     `json:"caller"`
	Items  []mintItem `json:"items"`
}

type certificateTransferParams struct {
	Caller string `json:"caller"`
	From   string `json:"from"`
	To     string `json:"to"`
	ID     uint64 `json:"id"`
}

type certificateLockParams struct {
	Caller string `json:"caller"`
	ID     uint64 `json:"id"`
	Locked bool   `json:"locked"`
}

type certificateUpdateParams struct {
	Caller string `json:"caller"`
	ID     uint64 `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type certificateStatsParams struct {
	Caller string `json:"caller"`
	ID     uint64 `json:"id"`
	Views  uint64 `json:"views"`
	Likes  uint64 `json:"likes"`
}

type certificateAuthorParams struct {
	Author string `json:"author"`
}

type certificateVerifyParams struct {
	ID          uint64 `json:"id"`
	ContentHash string `json:"contentHash"`
}

type CertificateMetadataResult struct {
	URI      string                 `json:"uri"`
	Document map[string]interface{} `json:"document"`
}

func (item mintItem) request() (certificate.MintRequest, error) {
	to, err := parseAccountParam("to", item.To)
	if err != nil {
		return certificate.MintRequest{}, err
	}
	return certificate.MintRequest{
		To:          to,
		Title:       item.Title,
		ContentHash: item.ContentHash,
		Categories:  item.Categories,
	}, nil
}

func (s *Server) handleCertificateMint(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params certificateMintParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	payment, err := parseAmountParam("payment", params.Payment)
	if err != nil {
		return nil, err
	}
	mintReq, err := params.mintItem.request()
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	cert, err := s.node.MintCertificate(ctx, caller, mintReq, payment)
	if err != nil {
		return nil, err
	}
	return certificateResult(cert), nil
}

func (s *Server) handleCertificateMintBatch(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params certificateMintBatchParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	reqs := make([]certificate.MintRequest, 0, len(params.Items))
	for i, item := range params.Items {
		mintReq, err := item.request()
		if err != nil {
			return nil, invalidParams("items[%d]: %v", i, err)
		}
		reqs = append(reqs, mintReq)
	}
	s.logCaller(ctx, req.Method, caller)
	certs, err := s.node.MintCertificateBatch(ctx, caller, reqs)
	if err != nil {
		return nil, err
	}
	out := make([]CertificateResult, 0, len(certs))
	for _, cert := range certs {
		out = append(out, certificateResult(cert))
	}
	return out, nil
}

func (s *Server) handleCertificateTransfer(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params certificateTransferParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	from := caller
	if params.From != "" {
		if from, err = parseAccountParam("from", params.From); err != nil {
			return nil, err
		}
	}
	to, err := parseAccountParam("to", params.To)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	cert, err := s.node.TransferCertificate(ctx, caller, from, to, params.ID)
	if err != nil {
		return nil, err
	}
	return certificateResult(cert), nil
}

func (s *Server) handleCertificateSetTransferLock(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params certificateLockParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	if err := s.node.SetTransferLock(ctx, caller, params.ID, params.Locked); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleCertificateUpdate(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params certificateUpdateParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	status, err := certificate.ParseStatus(params.Status)
	if err != nil {
		return nil, invalidParams("%v", err)
	}
	s.logCaller(ctx, req.Method, caller)
	cert, err := s.node.UpdateCertificate(ctx, caller, params.ID, params.Title, status)
	if err != nil {
		return nil, err
	}
	return certificateResult(cert), nil
}

func (s *Server) handleCertificateUpdateStats(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params certificateStatsParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	cert, err := s.node.UpdateCertificateStats(ctx, caller, params.ID, params.Views, params.Likes)
	if err != nil {
		return nil, err
	}
	return certificateResult(cert), nil
}

func (s *Server) handleCertificateGet(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	cert, err := s.node.Certificate(params.ID)
	if err != nil {
		return nil, err
	}
	return certificateResult(cert), nil
}

func (s *Server) handleCertificateTotalSupply(_ context.Context, _ *RPCRequest) (interface{}, error) {
	return s.node.CertificateSupply()
}

func (s *Server) handleCertificateByAuthor(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params certificateAuthorParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	author, err := parseAccountParam("author", params.Author)
	if err != nil {
		return nil, err
	}
	ids, err := s.node.AuthorCertificates(author)
	if err != nil {
		return nil, err
	}
	return idList(ids), nil
}

func (s *Server) handleCertificateVerifyContent(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params certificateVerifyParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	return s.node.VerifyContent(params.ID, params.ContentHash)
}

func (s *Server) handleCertificateMetadata(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	uri, err := s.node.CertificateMetadata(params.ID)
	if err != nil {
		return nil, err
	}
	doc, err := certificate.DecodeMetadata(uri)
	if err != nil {
		return nil, err
	}
	return CertificateMetadataResult{URI: uri, Document: doc}, nil
}

package rpc

import (
	"context"
)

type marketListParams struct {
	Caller   string `json:"caller"`
	ID       uint64 `json:"id"`
	Price    string `json:"price"`
	Deadline int64  `json:"deadline"`
}

type marketBuyParams struct {
	Caller  string `json:"caller"`
	ID      uint64 `json:"id"`
	Payment string `json:"payment"`
}

type marketRoyaltyParams struct {
	ID    uint64 `json:"id"`
	Price string `json:"price"`
}

type adminBpsParams struct {
	Caller string `json:"caller"`
	Bps    uint32 `json:"bps"`
}

type adminAmountParams struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

type adminToggleParams struct {
	Caller  string `json:"caller"`
	Enabled bool   `json:"enabled"`
}

type adminRecipientParams struct {
	Caller    string `json:"caller"`
	Recipient string `json:"recipient"`
}

type adminLockParams struct {
	Caller string   `json:"caller"`
	IDs    []uint64 `json:"ids"`
}

func (s *Server) handleMarketList(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params marketListParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	price, err := parseAmountParam("price", params.Price)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	listing, err := s.node.ListForSale(ctx, caller, params.ID, price, params.Deadline)
	if err != nil {
		return nil, err
	}
	return listingResult(listing), nil
}

func (s *Server) handleMarketCancel(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	if err := s.node.CancelSale(ctx, caller, params.ID); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleMarketBuy(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params marketBuyParams
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
	s.logCaller(ctx, req.Method, caller)
	sale, err := s.node.BuyCertificate(ctx, caller, params.ID, payment)
	if err != nil {
		return nil, err
	}
	return saleResult(sale), nil
}

func (s *Server) handleMarketRoyaltyInfo(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params marketRoyaltyParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	price, err := parseAmountParam("price", params.Price)
	if err != nil {
		return nil, err
	}
	receiver, amount, err := s.node.RoyaltyInfo(params.ID, price)
	if err != nil {
		return nil, err
	}
	return RoyaltyResult{Receiver: formatAccount(receiver), Amount: amountString(amount)}, nil
}

func (s *Server) handleMarketSaleInfo(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params idParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	listing, err := s.node.SaleInfo(params.ID)
	if err != nil {
		return nil, err
	}
	return listingResult(listing), nil
}

func (s *Server) handleMarketConfig(_ context.Context, _ *RPCRequest) (interface{}, error) {
	cfg, err := s.node.PlatformConfig()
	if err != nil {
		return nil, err
	}
	return platformConfigResult(cfg), nil
}

func (s *Server) handleAdminSetPlatformFee(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params adminBpsParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	if err := s.node.SetPlatformFeeBps(ctx, caller, params.Bps); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleAdminSetDefaultRoyalty(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params adminBpsParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	if err := s.node.SetDefaultRoyaltyBps(ctx, caller, params.Bps); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleAdminSetMintFee(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params adminAmountParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmountParam("amount", params.Amount)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	if err := s.node.SetMintFee(ctx, caller, amount); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleAdminSetPublicMint(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params adminToggleParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	if err := s.node.SetPublicMintEnabled(ctx, caller, params.Enabled); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleAdminSetFeeRecipient(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params adminRecipientParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	recipient, err := parseAccountParam("recipient", params.Recipient)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	if err := s.node.SetFeeRecipient(ctx, caller, recipient); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleAdminEmergencyLock(ctx context.Context, req *RPCRequest) (interface{}, error) {
	var params adminLockParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	if err := s.node.EmergencyLockTransfers(ctx, caller, params.IDs); err != nil {
		return nil, err
	}
	return true, nil
}

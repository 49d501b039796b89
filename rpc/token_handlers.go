package rpc

import (
	"context"
	"math/big"
)

type tokenAccountParams struct {
	Account string `json:"account"`
}

type tokenAllowanceParams struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
}

type tokenWriteParams struct {
	Caller  string `json:"caller"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Spender string `json:"spender,omitempty"`
	Amount  string `json:"amount"`
}

type TokenMetadataResult struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"totalSupply"`
}

type BalanceResult struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
}

type AllowanceResult struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance string `json:"allowance"`
}

func (s *Server) handleTokenMetadata(_ context.Context, _ *RPCRequest) (interface{}, error) {
	meta, err := s.node.TokenMetadata()
	if err != nil {
		return nil, err
	}
	supply, err := s.node.TokenSupply()
	if err != nil {
		return nil, err
	}
	return TokenMetadataResult{
		Name:        meta.Name,
		Symbol:      meta.Symbol,
		Decimals:    meta.Decimals,
		TotalSupply: amountString(supply),
	}, nil
}

func (s *Server) handleTokenBalanceOf(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params tokenAccountParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	addr, err := parseAccountParam("account", params.Account)
	if err != nil {
		return nil, err
	}
	balance, err := s.node.TokenBalance(addr)
	if err != nil {
		return nil, err
	}
	return BalanceResult{Account: params.Account, Balance: amountString(balance)}, nil
}

func (s *Server) handleTokenAllowance(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params tokenAllowanceParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	owner, err := parseAccountParam("owner", params.Owner)
	if err != nil {
		return nil, err
	}
	spender, err := parseAccountParam("spender", params.Spender)
	if err != nil {
		return nil, err
	}
	allowance, err := s.node.TokenAllowance(owner, spender)
	if err != nil {
		return nil, err
	}
	return AllowanceResult{Owner: params.Owner, Spender: params.Spender, Allowance: amountString(allowance)}, nil
}

func (s *Server) handleTokenTotalSupply(_ context.Context, _ *RPCRequest) (interface{}, error) {
	supply, err := s.node.TokenSupply()
	if err != nil {
		return nil, err
	}
	return amountString(supply), nil
}

// decodeTokenWrite resolves the caller and amount shared by every token write.
func (s *Server) decodeTokenWrite(ctx context.Context, req *RPCRequest) (tokenWriteParams, [20]byte, *big.Int, error) {
	var params tokenWriteParams
	if err := decodeParams(req, &params); err != nil {
		return params, [20]byte{}, nil, err
	}
	caller, err := resolveCaller(ctx, params.Caller)
	if err != nil {
		return params, [20]byte{}, nil, err
	}
	amount, err := parseAmountParam("amount", params.Amount)
	if err != nil {
		return params, [20]byte{}, nil, err
	}
	s.logCaller(ctx, req.Method, caller)
	return params, caller, amount, nil
}

func (s *Server) handleTokenMint(ctx context.Context, req *RPCRequest) (interface{}, error) {
	params, caller, amount, err := s.decodeTokenWrite(ctx, req)
	if err != nil {
		return nil, err
	}
	to, err := parseAccountParam("to", params.To)
	if err != nil {
		return nil, err
	}
	if err := s.node.TokenMint(ctx, caller, to, amount); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleTokenBurn(ctx context.Context, req *RPCRequest) (interface{}, error) {
	_, caller, amount, err := s.decodeTokenWrite(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.node.TokenBurn(ctx, caller, amount); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleTokenTransfer(ctx context.Context, req *RPCRequest) (interface{}, error) {
	params, caller, amount, err := s.decodeTokenWrite(ctx, req)
	if err != nil {
		return nil, err
	}
	to, err := parseAccountParam("to", params.To)
	if err != nil {
		return nil, err
	}
	if err := s.node.TokenTransfer(ctx, caller, to, amount); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleTokenApprove(ctx context.Context, req *RPCRequest) (interface{}, error) {
	params, caller, amount, err := s.decodeTokenWrite(ctx, req)
	if err != nil {
		return nil, err
	}
	spender, err := parseAccountParam("spender", params.Spender)
	if err != nil {
		return nil, err
	}
	if err := s.node.TokenApprove(ctx, caller, spender, amount); err != nil {
		return nil, err
	}
	return true, nil
}

func (s *Server) handleTokenTransferFrom(ctx context.Context, req *RPCRequest) (interface{}, error) {
	params, caller, amount, err := s.decodeTokenWrite(ctx, req)
	if err != nil {
		return nil, err
	}
	from, err := parseAccountParam("from", params.From)
	if err != nil {
		return nil, err
	}
	to, err := parseAccountParam("to", params.To)
	if err != nil {
		return nil, err
	}
	if err := s.node.TokenTransferFrom(ctx, caller, from, to, amount); err != nil {
		return nil, err
	}
	return true, nil
}

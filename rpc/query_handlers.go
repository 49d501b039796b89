package rpc

import (
	"context"

	"moviewrite/crypto"
)

type eventsListParams struct {
	From  uint64 `json:"from"`
	Limit int    `json:"limit"`
}

func formatAccount(addr [20]byte) string { return crypto.FormatAccount(addr) }

func (s *Server) handleBankBalance(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params tokenAccountParams
	if err := decodeParams(req, &params); err != nil {
		return nil, err
	}
	addr, err := parseAccountParam("account", params.Account)
	if err != nil {
		return nil, err
	}
	balance, err := s.node.BankBalance(addr)
	if err != nil {
		return nil, err
	}
	return BalanceResult{Account: params.Account, Balance: amountString(balance)}, nil
}

func (s *Server) handleEventsList(_ context.Context, req *RPCRequest) (interface{}, error) {
	var params eventsListParams
	if len(req.Params) > 0 {
		if err := decodeParams(req, &params); err != nil {
			return nil, err
		}
	}
	if params.Limit < 0 {
		return nil, invalidParams("limit must not be negative")
	}
	entries, err := s.node.EventsList(params.From, params.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]EventResult, 0, len(entries))
	for _, entry := range entries {
		out = append(out, eventResult(entry))
	}
	return out, nil
}

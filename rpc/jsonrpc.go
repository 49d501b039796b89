package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ledgererr "moviewrite/core/errors"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError        = -32700
	codeInvalidRequest    = -32600
	codeMethodNotFound    = -32601
	codeInvalidParams     = -32602
	codeServerError       = -32000
	codeUnauthorized      = -32001
	codeNotFound          = -32004
	codeAlreadyExists     = -32009
	codeInsufficientFunds = -32011
	codeInsufficientInput = -32012
	codeExpired           = -32013
	codeLocked            = -32014
	codeAlreadySettled    = -32015
	codeRateLimited       = -32020
)

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// ledgerErrorData is attached to errors raised by the ledger engines.
type ledgerErrorData struct {
	Kind   string `json:"kind"`
	Module string `json:"module,omitempty"`
}

func invalidParams(format string, args ...interface{}) *RPCError {
	return &RPCError{Code: codeInvalidParams, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(message string) *RPCError {
	return &RPCError{Code: codeUnauthorized, Message: message}
}

var kindCodes = map[ledgererr.Kind]int{
	ledgererr.KindUnauthorized:      codeUnauthorized,
	ledgererr.KindNotFound:          codeNotFound,
	ledgererr.KindAlreadyExists:     codeAlreadyExists,
	ledgererr.KindInvalidParameter:  codeInvalidParams,
	ledgererr.KindInsufficientFunds: codeInsufficientFunds,
	ledgererr.KindInsufficientInput: codeInsufficientInput,
	ledgererr.KindExpired:           codeExpired,
	ledgererr.KindLocked:            codeLocked,
	ledgererr.KindAlreadySettled:    codeAlreadySettled,
}

// toRPCError converts a handler failure into its wire form. Untyped errors
// are internal and their text is not echoed to the client.
func toRPCError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var typed *ledgererr.Error
	if !errors.As(err, &typed) || typed == nil {
		return &RPCError{Code: codeServerError, Message: "internal error"}
	}
	code, ok := kindCodes[typed.Kind]
	if !ok {
		return &RPCError{Code: codeServerError, Message: "internal error"}
	}
	return &RPCError{
		Code:    code,
		Message: typed.Error(),
		Data:    ledgerErrorData{Kind: typed.Kind.String(), Module: typed.Module},
	}
}

func writeError(w http.ResponseWriter, status int, id interface{}, rpcErr *RPCError) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: rpcErr}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// decodeParams unmarshals the single object parameter of a request.
func decodeParams(req *RPCRequest, dst interface{}) error {
	if len(req.Params) != 1 {
		return invalidParams("expected a single parameter object")
	}
	if err := json.Unmarshal(req.Params[0], dst); err != nil {
		return invalidParams("invalid parameter object: %v", err)
	}
	return nil
}

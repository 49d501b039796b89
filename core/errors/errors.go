package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a ledger failure so callers can react without string
// matching.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindNotFound
	KindAlreadyExists
	KindInvalidParameter
	KindInsufficientFunds
	KindInsufficientInput
	KindExpired
	KindLocked
	KindAlreadySettled
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindUnauthorized:      "unauthorized",
	KindNotFound:          "not_found",
	KindAlreadyExists:     "already_exists",
	KindInvalidParameter:  "invalid_parameter",
	KindInsufficientFunds: "insufficient_funds",
	KindInsufficientInput: "insufficient_input",
	KindExpired:           "expired",
	KindLocked:            "locked",
	KindAlreadySettled:    "already_settled",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a rejected ledger operation. Module names the component that
// refused the call.
type Error struct {
	Kind   Kind
	Module string
	Msg    string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Module != "" && e.Msg != "":
		return e.Module + ": " + e.Msg
	case e.Msg != "":
		return e.Msg
	case e.Module != "":
		return e.Module + ": " + e.Kind.String()
	default:
		return e.Kind.String()
	}
}

// Is matches another *Error of the same kind. A target without a message acts
// as a wildcard for its kind, which is how the Err* sentinels below work.
func (e *Error) Is(target error) bool {
	var other *Error
	if !stderrors.As(target, &other) || other == nil || e == nil {
		return false
	}
	if other.Kind != e.Kind {
		return false
	}
	if other.Msg == "" && other.Module == "" {
		return true
	}
	return other.Module == e.Module && other.Msg == e.Msg
}

// New builds a typed error for the supplied module.
func New(kind Kind, module, msg string) *Error {
	return &Error{Kind: kind, Module: module, Msg: msg}
}

// KindOf returns the kind carried by err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var typed *Error
	if stderrors.As(err, &typed) && typed != nil {
		return typed.Kind
	}
	return KindUnknown
}

var (
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrAlreadyExists     = &Error{Kind: KindAlreadyExists}
	ErrInvalidParameter  = &Error{Kind: KindInvalidParameter}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrInsufficientInput = &Error{Kind: KindInsufficientInput}
	ErrExpired           = &Error{Kind: KindExpired}
	ErrLocked            = &Error{Kind: KindLocked}
	ErrAlreadySettled    = &Error{Kind: KindAlreadySettled}
)

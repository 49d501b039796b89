package events

import (
	"math/big"

	"moviewrite/core/types"
	"moviewrite/crypto"
)

const (
	// TypeTokenTransfer is emitted for reward token movements, including
	// mints (from the zero account) and burns (to the zero account).
	TypeTokenTransfer = "token.transfer"
	// TypeTokenApproval is emitted when an owner sets a spender allowance.
	TypeTokenApproval = "token.approval"
)

type TokenTransfer struct {
	From   [20]byte
	To     [20]byte
	Amount *big.Int
}

func (TokenTransfer) EventType() string { return TypeTokenTransfer }

func (e TokenTransfer) Event() *types.Event {
	return &types.Event{Type: TypeTokenTransfer, Attributes: map[string]string{
		"from":   formatAccount(e.From),
		"to":     formatAccount(e.To),
		"amount": formatAmount(e.Amount),
	}}
}

type TokenApproval struct {
	Owner   [20]byte
	Spender [20]byte
	Amount  *big.Int
}

func (TokenApproval) EventType() string { return TypeTokenApproval }

func (e TokenApproval) Event() *types.Event {
	return &types.Event{Type: TypeTokenApproval, Attributes: map[string]string{
		"owner":   formatAccount(e.Owner),
		"spender": formatAccount(e.Spender),
		"amount":  formatAmount(e.Amount),
	}}
}

func formatAccount(addr [20]byte) string {
	return crypto.FormatAccount(addr)
}

func formatAmount(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}

package bank

import (
	"math/big"
	"sort"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/types"
)

const moduleName = "bank"

var (
	errNilState     = ledgererr.New(ledgererr.KindUnknown, moduleName, "state not configured")
	errInsufficient = ledgererr.New(ledgererr.KindInsufficientFunds, moduleName, "insufficient native balance")
	errNegative     = ledgererr.New(ledgererr.KindInvalidParameter, moduleName, "amount must not be negative")
)

// AccountState is the subset of ledger state needed to move native value.
type AccountState interface {
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

// Delta is a signed change to an account's native balance.
type Delta struct {
	Account [20]byte
	Amount  *big.Int
}

// Debit builds a negative delta.
func Debit(addr [20]byte, amount *big.Int) Delta {
	return Delta{Account: addr, Amount: new(big.Int).Neg(amountOrZero(amount))}
}

// Credit builds a positive delta.
func Credit(addr [20]byte, amount *big.Int) Delta {
	return Delta{Account: addr, Amount: new(big.Int).Set(amountOrZero(amount))}
}

// Apply settles every delta or none of them. Deltas touching the same account
// are netted first, every resulting balance is validated and only then are
// accounts written back.
func Apply(state AccountState, deltas ...Delta) error {
	if state == nil {
		return errNilState
	}
	net := make(map[[20]byte]*big.Int)
	order := make([][20]byte, 0, len(deltas))
	for _, delta := range deltas {
		if delta.Amount == nil || delta.Amount.Sign() == 0 {
			continue
		}
		current, ok := net[delta.Account]
		if !ok {
			current = big.NewInt(0)
			net[delta.Account] = current
			order = append(order, delta.Account)
		}
		current.Add(current, delta.Amount)
	}
	sort.Slice(order, func(i, j int) bool {
		return string(order[i][:]) < string(order[j][:])
	})

	updated := make(map[[20]byte]*types.Account, len(order))
	for _, addr := range order {
		account, err := state.GetAccount(addr[:])
		if err != nil {
			return err
		}
		account = account.EnsureDefaults()
		next := new(big.Int).Add(account.Balance, net[addr])
		if next.Sign() < 0 {
			return errInsufficient
		}
		account.Balance = next
		updated[addr] = account
	}
	for _, addr := range order {
		if err := state.PutAccount(addr[:], updated[addr]); err != nil {
			return err
		}
	}
	return nil
}

// Transfer moves amount of native value between two accounts.
func Transfer(state AccountState, from, to [20]byte, amount *big.Int) error {
	if amount != nil && amount.Sign() < 0 {
		return errNegative
	}
	return Apply(state, Debit(from, amount), Credit(to, amount))
}

// Balance returns the native balance held by addr.
func Balance(state AccountState, addr [20]byte) (*big.Int, error) {
	if state == nil {
		return nil, errNilState
	}
	account, err := state.GetAccount(addr[:])
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(account.EnsureDefaults().Balance), nil
}

func amountOrZero(amount *big.Int) *big.Int {
	if amount == nil {
		return big.NewInt(0)
	}
	return amount
}

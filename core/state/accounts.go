package state

import (
	"fmt"
	"math/big"

	"moviewrite/core/types"
)

// GetAccount returns the native account stored for addr. Unknown accounts
// are returned with a zero balance.
func (m *Manager) GetAccount(addr []byte) (*types.Account, error) {
	if len(addr) == 0 {
		return nil, fmt.Errorf("account: address must not be empty")
	}
	account := new(types.Account)
	ok, err := m.KVGet(prefixed(accountPrefix, addr), account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return (&types.Account{}).EnsureDefaults(), nil
	}
	return account.EnsureDefaults(), nil
}

// PutAccount persists account under addr.
func (m *Manager) PutAccount(addr []byte, account *types.Account) error {
	if len(addr) == 0 {
		return fmt.Errorf("account: address must not be empty")
	}
	if account == nil {
		return fmt.Errorf("account: nil account")
	}
	stored := &types.Account{Nonce: account.Nonce, Balance: big.NewInt(0)}
	if account.Balance != nil {
		if account.Balance.Sign() < 0 {
			return fmt.Errorf("account: negative balance")
		}
		stored.Balance.Set(account.Balance)
	}
	return m.KVPut(prefixed(accountPrefix, addr), stored)
}

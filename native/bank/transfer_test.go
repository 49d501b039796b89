package bank

import (
	"errors"
	"math/big"
	"testing"

	ledgererr "moviewrite/core/errors"
	"moviewrite/core/types"
)

type mockAccounts struct {
	accounts map[string]*types.Account
	writes   int
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{accounts: make(map[string]*types.Account)}
}

func (m *mockAccounts) GetAccount(addr []byte) (*types.Account, error) {
	if acc, ok := m.accounts[string(addr)]; ok {
		return &types.Account{Nonce: acc.Nonce, Balance: new(big.Int).Set(acc.Balance)}, nil
	}
	return &types.Account{Balance: big.NewInt(0)}, nil
}

func (m *mockAccounts) PutAccount(addr []byte, account *types.Account) error {
	m.writes++
	m.accounts[string(addr)] = &types.Account{Nonce: account.Nonce, Balance: new(big.Int).Set(account.Balance)}
	return nil
}

func (m *mockAccounts) balance(addr [20]byte) *big.Int {
	bal, _ := Balance(m, addr)
	return bal
}

func TestApplyNetsAndSettles(t *testing.T) {
	state := newMockAccounts()
	buyer := [20]byte{1}
	seller := [20]byte{2}
	platform := [20]byte{3}
	state.accounts[string(buyer[:])] = &types.Account{Balance: big.NewInt(100)}

	err := Apply(state,
		Debit(buyer, big.NewInt(100)),
		Credit(platform, big.NewInt(3)),
		Credit(seller, big.NewInt(97)),
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if state.balance(buyer).Sign() != 0 {
		t.Fatalf("buyer should be drained, got %s", state.balance(buyer))
	}
	if state.balance(seller).Cmp(big.NewInt(97)) != 0 || state.balance(platform).Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("unexpected credits: seller=%s platform=%s", state.balance(seller), state.balance(platform))
	}
}

func TestApplyIsAllOrNothing(t *testing.T) {
	state := newMockAccounts()
	payer := [20]byte{1}
	payee := [20]byte{2}
	state.accounts[string(payer[:])] = &types.Account{Balance: big.NewInt(10)}

	err := Apply(state, Credit(payee, big.NewInt(11)), Debit(payer, big.NewInt(11)))
	if !errors.Is(err, ledgererr.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if state.writes != 0 {
		t.Fatalf("expected no writes on failure, got %d", state.writes)
	}
}

func TestTransferSelfIsNoop(t *testing.T) {
	state := newMockAccounts()
	addr := [20]byte{9}
	state.accounts[string(addr[:])] = &types.Account{Balance: big.NewInt(5)}
	if err := Transfer(state, addr, addr, big.NewInt(5)); err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	if state.balance(addr).Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("balance changed on self transfer")
	}
	if err := Transfer(state, addr, [20]byte{8}, big.NewInt(-1)); !errors.Is(err, ledgererr.ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
}

package state

import (
	"fmt"
	"math/big"

	"moviewrite/native/token"
)

func (m *Manager) readBig(key []byte) (*big.Int, error) {
	value := new(big.Int)
	ok, err := m.KVGet(key, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return value, nil
}

func (m *Manager) writeBig(key []byte, amount *big.Int) error {
	if amount == nil {
		amount = big.NewInt(0)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("state: negative amount for %s", key)
	}
	if amount.Sign() == 0 {
		return m.KVDelete(key)
	}
	return m.KVPut(key, amount)
}

// TokenBalance returns the reward token balance of addr.
func (m *Manager) TokenBalance(addr [20]byte) (*big.Int, error) {
	return m.readBig(prefixed(tokenBalancePrefix, addr[:]))
}

// SetTokenBalance overwrites the reward token balance of addr.
func (m *Manager) SetTokenBalance(addr [20]byte, amount *big.Int) error {
	return m.writeBig(prefixed(tokenBalancePrefix, addr[:]), amount)
}

// TokenAllowance returns how much spender may move on behalf of owner.
func (m *Manager) TokenAllowance(owner, spender [20]byte) (*big.Int, error) {
	return m.readBig(prefixed(tokenAllowancePrefix, owner[:], spender[:]))
}

// SetTokenAllowance overwrites the allowance granted by owner to spender.
func (m *Manager) SetTokenAllowance(owner, spender [20]byte, amount *big.Int) error {
	return m.writeBig(prefixed(tokenAllowancePrefix, owner[:], spender[:]), amount)
}

// TokenSupply returns the total reward token supply.
func (m *Manager) TokenSupply() (*big.Int, error) {
	return m.readBig(tokenSupplyKey)
}

// SetTokenSupply overwrites the total reward token supply.
func (m *Manager) SetTokenSupply(amount *big.Int) error {
	return m.writeBig(tokenSupplyKey, amount)
}

// TokenMetadata returns the configured token metadata, if any.
func (m *Manager) TokenMetadata() (*token.Metadata, bool, error) {
	meta := new(token.Metadata)
	ok, err := m.KVGet(tokenMetadataKey, meta)
	if err != nil || !ok {
		return nil, ok, err
	}
	return meta, true, nil
}

// PutTokenMetadata stores the token metadata.
func (m *Manager) PutTokenMetadata(meta *token.Metadata) error {
	if meta == nil {
		return fmt.Errorf("token: nil metadata")
	}
	return m.KVPut(tokenMetadataKey, meta)
}

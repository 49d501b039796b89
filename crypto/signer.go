package crypto

import (
	"crypto/ecdsa"
	"errors"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// PrivateKey is a secp256k1 key controlling a ledger account.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

// PublicKey is the public half of a PrivateKey.
type PublicKey struct {
	key *ecdsa.PublicKey
}

// GeneratePrivateKey creates a fresh secp256k1 key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes parses a raw 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: key}, nil
}

func (k *PrivateKey) Bytes() []byte {
	return ethcrypto.FromECDSA(k.key)
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{key: &k.key.PublicKey}
}

// Address derives the ledger account from the keccak hash of the public key.
func (k *PublicKey) Address() Account {
	return Account(ethcrypto.PubkeyToAddress(*k.key))
}

var errNilKey = errors.New("crypto: nil private key")

func (k *PrivateKey) ecdsa() (*ecdsa.PrivateKey, error) {
	if k == nil || k.key == nil {
		return nil, errNilKey
	}
	return k.key, nil
}

package articles

import ethcrypto "github.com/ethereum/go-ethereum/crypto"

// ModuleAccount returns the keyless account the ledger mints rewards from.
// Genesis grants it the minter role.
func ModuleAccount() [20]byte {
	var out [20]byte
	digest := ethcrypto.Keccak256([]byte("moviewrite/module/" + ModuleName))
	copy(out[:], digest[12:])
	return out
}

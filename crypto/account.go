package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
)

// AccountPrefix is the bech32 human-readable part of every ledger account.
const AccountPrefix = "mw"

// ErrAccountPrefix is returned when a bech32 string decodes under another
// human-readable part.
var ErrAccountPrefix = errors.New("crypto: account prefix mismatch")

// Account is the 20-byte identity used as a ledger key.
type Account [20]byte

// String renders the account in bech32 form.
func (a Account) String() string {
	return FormatAccount(a)
}

// IsZero reports whether the account is the null account.
func (a Account) IsZero() bool {
	return a == Account{}
}

// FormatAccount renders a ledger account as a bech32 string.
func FormatAccount(account [20]byte) string {
	encoded, err := encodeBech32(AccountPrefix, account[:])
	if err != nil {
		// 20 bytes always regroup into 5-bit words.
		panic(err)
	}
	return encoded
}

// ParseAccount decodes a bech32 account and checks its prefix.
func ParseAccount(s string) ([20]byte, error) {
	var out [20]byte
	hrp, payload, err := decodeBech32(strings.TrimSpace(s))
	if err != nil {
		return out, err
	}
	if hrp != AccountPrefix {
		return out, fmt.Errorf("%w: got %q", ErrAccountPrefix, hrp)
	}
	if len(payload) != len(out) {
		return out, fmt.Errorf("crypto: account must be %d bytes, got %d", len(out), len(payload))
	}
	copy(out[:], payload)
	return out, nil
}

func encodeBech32(hrp string, payload []byte) (string, error) {
	words, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, words)
}

func decodeBech32(s string) (string, []byte, error) {
	hrp, words, err := bech32.Decode(s)
	if err != nil {
		return "", nil, fmt.Errorf("crypto: invalid bech32 string: %w", err)
	}
	payload, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("crypto: invalid bech32 payload: %w", err)
	}
	return hrp, payload, nil
}

package crypto

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAccountRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()
	if addr.IsZero() {
		t.Fatalf("derived zero account")
	}
	account, err := ParseAccount(addr.String())
	if err != nil {
		t.Fatalf("parse account: %v", err)
	}
	if Account(account) != addr {
		t.Fatalf("round trip mismatch: %x vs %x", account, addr)
	}
	if got := addr.String()[:3]; got != AccountPrefix+"1" {
		t.Fatalf("unexpected prefix %q", got)
	}
}

func TestParseAccountRejectsForeignPrefix(t *testing.T) {
	other, err := encodeBech32("other", make([]byte, 20))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := ParseAccount(other); !errors.Is(err, ErrAccountPrefix) {
		t.Fatalf("expected prefix mismatch, got %v", err)
	}
	if _, err := ParseAccount("not-an-address"); err == nil {
		t.Fatalf("expected decode error")
	}
	short, err := encodeBech32(AccountPrefix, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := ParseAccount(short); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestPrivateKeyBytesRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	restored, err := PrivateKeyFromBytes(key.Bytes())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.PubKey().Address() != key.PubKey().Address() {
		t.Fatalf("restored key derives a different account")
	}
}

func TestKeystoreRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "keys", "curator.json")
	if err := SaveToKeystore(path, key, "secret"); err != nil {
		t.Fatalf("save keystore: %v", err)
	}
	loaded, err := LoadFromKeystore(path, "secret")
	if err != nil {
		t.Fatalf("load keystore: %v", err)
	}
	if loaded.PubKey().Address() != key.PubKey().Address() {
		t.Fatalf("loaded key does not match")
	}
	if _, err := LoadFromKeystore(path, "wrong"); err == nil {
		t.Fatalf("expected wrong passphrase to fail")
	}
	if err := SaveToKeystore(path, nil, "secret"); !errors.Is(err, errNilKey) {
		t.Fatalf("expected nil key error, got %v", err)
	}
}

package common

import (
	"errors"
	"testing"

	ledgererr "moviewrite/core/errors"
)

type roleSet map[string]map[[20]byte]bool

func (r roleSet) HasRole(role string, addr [20]byte) bool {
	return r[role][addr]
}

func TestRequireRole(t *testing.T) {
	curator := [20]byte{1}
	view := roleSet{RoleCurator: {curator: true}}
	if err := RequireRole(view, "articles", RoleCurator, curator); err != nil {
		t.Fatalf("expected curator to pass: %v", err)
	}
	err := RequireRole(view, "articles", RoleAdministrator, curator)
	if !errors.Is(err, ledgererr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := RequireRole(nil, "articles", RoleCurator, curator); !errors.Is(err, ledgererr.ErrUnauthorized) {
		t.Fatalf("nil view should deny, got %v", err)
	}
	if !IsZeroAccount([20]byte{}) || IsZeroAccount(curator) {
		t.Fatalf("zero account detection broken")
	}
}

package common

import ledgererr "moviewrite/core/errors"

// Roles recognised by the ledger engines.
const (
	RoleAdministrator = "administrator"
	RoleCurator       = "curator"
	RoleMinter        = "minter"
)

// RoleView answers role membership questions against ledger state.
type RoleView interface {
	HasRole(role string, addr [20]byte) bool
}

// RequireRole fails with an Unauthorized error unless addr holds role.
func RequireRole(view RoleView, module, role string, addr [20]byte) error {
	if view == nil || !view.HasRole(role, addr) {
		return ledgererr.New(ledgererr.KindUnauthorized, module, "caller lacks "+role+" role")
	}
	return nil
}

// HasRole is the non-failing form of RequireRole.
func HasRole(view RoleView, role string, addr [20]byte) bool {
	return view != nil && view.HasRole(role, addr)
}

// IsZeroAccount reports whether addr is the all-zero account.
func IsZeroAccount(addr [20]byte) bool {
	var zero [20]byte
	return addr == zero
}

package genesis

import (
	"errors"
	"fmt"
	"sort"

	"moviewrite/core/events"
	"moviewrite/core/state"
	"moviewrite/native/articles"
	"moviewrite/native/bank"
	"moviewrite/native/certificate"
	"moviewrite/native/common"
	"moviewrite/native/token"
)

// ErrAlreadyApplied is returned when the state already carries a genesis.
var ErrAlreadyApplied = errors.New("genesis already applied")

// Apply writes the genesis state into manager. Nothing is committed; the
// caller commits or discards the manager as a whole.
func Apply(manager *state.Manager, spec *Spec, emitter events.Emitter) error {
	if manager == nil {
		return fmt.Errorf("state manager must not be nil")
	}
	if spec == nil {
		return fmt.Errorf("genesis spec must not be nil")
	}
	applied, err := manager.GenesisApplied()
	if err != nil {
		return err
	}
	if applied {
		return ErrAlreadyApplied
	}

	// 1) Roles (sorted by role name)
	roles := make([]string, 0, len(spec.roleMembers))
	for role := range spec.roleMembers {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		for _, member := range spec.roleMembers[role] {
			if err := manager.SetRole(role, member); err != nil {
				return fmt.Errorf("assign %s: %w", role, err)
			}
		}
	}
	moduleAccount := articles.ModuleAccount()
	if err := manager.SetRole(common.RoleMinter, moduleAccount); err != nil {
		return fmt.Errorf("assign module minter: %w", err)
	}

	// 2) Native allocations
	credits := make([]bank.Delta, 0, len(spec.allocations))
	for _, alloc := range spec.allocations {
		credits = append(credits, bank.Credit(alloc.Account, alloc.Amount))
	}
	if err := bank.Apply(manager, credits...); err != nil {
		return fmt.Errorf("native allocations: %w", err)
	}

	// 3) Reward token
	tokens := token.NewEngine()
	tokens.SetState(manager)
	tokens.SetEmitter(emitter)
	if err := tokens.Configure(spec.TokenMetadata()); err != nil {
		return fmt.Errorf("token metadata: %w", err)
	}
	if holder, supply := spec.InitialSupply(); supply.Sign() > 0 {
		if err := tokens.MintGenesis(holder, supply); err != nil {
			return fmt.Errorf("token initial supply: %w", err)
		}
	}

	// 4) Marketplace
	market := certificate.NewEngine()
	market.SetState(manager)
	market.SetEmitter(emitter)
	if err := market.Configure(spec.PlatformConfig()); err != nil {
		return fmt.Errorf("marketplace config: %w", err)
	}

	return manager.MarkGenesisApplied()
}

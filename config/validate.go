package config

import (
	"fmt"
	"strings"

	"moviewrite/core/genesis"
	"moviewrite/native/common"
)

// Validate checks every section. Marketplace caps and addresses are checked
// by building the genesis spec the node would apply.
func (c *Config) Validate() error {
	if c.RPC.RateLimitPerSecond < 0 || c.RPC.RateLimitBurst < 0 {
		return fmt.Errorf("rpc: rate limit must not be negative")
	}
	if c.Telemetry.Traces || c.Telemetry.Metrics {
		if strings.TrimSpace(c.Telemetry.Endpoint) == "" {
			return fmt.Errorf("telemetry: endpoint required when export is enabled")
		}
	}
	if _, err := c.GenesisSpec(); err != nil {
		return err
	}
	return nil
}

// GenesisSpec returns the validated genesis derived from the configuration.
// When GenesisFile is set it takes precedence over the inline sections.
func (c *Config) GenesisSpec() (*genesis.Spec, error) {
	if path := strings.TrimSpace(c.GenesisFile); path != "" {
		return genesis.LoadSpec(path)
	}
	publicMint := c.Marketplace.PublicMintEnabled
	spec := &genesis.Spec{
		GenesisTime: c.GenesisTime,
		Token: genesis.TokenSpec{
			Name:          c.Token.Name,
			Symbol:        c.Token.Symbol,
			Decimals:      c.Token.Decimals,
			InitialSupply: c.Token.InitialSupply,
			InitialHolder: c.Token.InitialHolder,
		},
		Marketplace: genesis.MarketplaceSpec{
			FeeRecipient:      c.Marketplace.FeeRecipient,
			FeeBps:            c.Marketplace.PlatformFeeBps,
			DefaultRoyaltyBps: c.Marketplace.DefaultRoyaltyBps,
			MintFee:           c.Marketplace.MintFee,
			PublicMintEnabled: &publicMint,
			Name:              c.Marketplace.CollectionName,
			Symbol:            c.Marketplace.CollectionSymbol,
		},
		Alloc: make(map[string]string, len(c.Alloc)),
		Roles: map[string][]string{
			common.RoleAdministrator: append([]string(nil), c.Roles.Administrators...),
			common.RoleCurator:       append([]string(nil), c.Roles.Curators...),
			common.RoleMinter:        append([]string(nil), c.Roles.Minters...),
		},
	}
	for _, alloc := range c.Alloc {
		addr := strings.TrimSpace(alloc.Address)
		if _, dup := spec.Alloc[addr]; dup {
			return nil, fmt.Errorf("alloc: duplicate address %s", addr)
		}
		spec.Alloc[addr] = alloc.Amount
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	return spec, nil
}

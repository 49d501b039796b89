package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"moviewrite/core/events"
	"moviewrite/core/state"
	"moviewrite/crypto"
	"moviewrite/native/articles"
	"moviewrite/native/common"
	"moviewrite/storage"
)

var (
	adminAccount   = [20]byte{0xad}
	curatorAccount = [20]byte{0xc0}
	treasury       = [20]byte{0xfe}
)

func testSpec() *Spec {
	return &Spec{
		GenesisTime: "2025-01-01T00:00:00Z",
		Token: TokenSpec{
			Name:          "MovieReward",
			Symbol:        "MRT",
			Decimals:      18,
			InitialSupply: "1000",
			InitialHolder: crypto.FormatAccount(adminAccount),
		},
		Marketplace: MarketplaceSpec{
			FeeRecipient:      crypto.FormatAccount(treasury),
			FeeBps:            250,
			DefaultRoyaltyBps: 750,
			MintFee:           "10000000000000000",
		},
		Alloc: map[string]string{
			crypto.FormatAccount(curatorAccount): "5000",
		},
		Roles: map[string][]string{
			common.RoleAdministrator: {crypto.FormatAccount(adminAccount)},
			common.RoleCurator:       {crypto.FormatAccount(curatorAccount)},
		},
	}
}

func TestValidateResolvesSpec(t *testing.T) {
	spec := testSpec()
	require.NoError(t, spec.Validate())

	allocs := spec.Allocations()
	require.Len(t, allocs, 1)
	require.Equal(t, curatorAccount, allocs[0].Account)
	require.Zero(t, allocs[0].Amount.Cmp(big.NewInt(5000)))

	cfg := spec.PlatformConfig()
	require.Equal(t, treasury, cfg.FeeRecipient)
	require.True(t, cfg.PublicMintEnabled)
	require.Equal(t, "MovieWrite Article NFT", cfg.Name)
	require.Equal(t, "MWART", cfg.Symbol)

	holder, supply := spec.InitialSupply()
	require.Equal(t, adminAccount, holder)
	require.Equal(t, "1000", supply.String())
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Spec){
		"missing time":       func(s *Spec) { s.GenesisTime = "" },
		"fee too high":       func(s *Spec) { s.Marketplace.FeeBps = 1_001 },
		"royalty too high":   func(s *Spec) { s.Marketplace.DefaultRoyaltyBps = 9_001 },
		"bad alloc address":  func(s *Spec) { s.Alloc = map[string]string{"nope": "1"} },
		"negative alloc":     func(s *Spec) { s.Alloc = map[string]string{crypto.FormatAccount(treasury): "-1"} },
		"unknown role":       func(s *Spec) { s.Roles["janitor"] = []string{crypto.FormatAccount(treasury)} },
		"no administrator":   func(s *Spec) { delete(s.Roles, common.RoleAdministrator) },
		"empty symbol":       func(s *Spec) { s.Token.Symbol = " " },
		"supply w/o holder":  func(s *Spec) { s.Token.InitialHolder = "" },
		"bad fee recipient":  func(s *Spec) { s.Marketplace.FeeRecipient = "" },
		"malformed mint fee": func(s *Spec) { s.Marketplace.MintFee = "0.01" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			spec := testSpec()
			mutate(spec)
			require.Error(t, spec.Validate())
		})
	}
}

func TestLoadSpecFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.json")
	contents := `{
  "genesisTime": "2025-01-01T00:00:00Z",
  "token": {"name": "MovieReward", "symbol": "MRT", "decimals": 18},
  "marketplace": {"feeRecipient": "` + crypto.FormatAccount(treasury) + `", "feeBps": 250, "defaultRoyaltyBps": 750, "mintFee": "0", "publicMintEnabled": false, "name": "Film Notes", "symbol": "FN"},
  "roles": {"administrator": ["` + crypto.FormatAccount(adminAccount) + `"]}
}`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	spec, err := LoadSpec(path)
	require.NoError(t, err)
	require.False(t, spec.PlatformConfig().PublicMintEnabled)
	require.Equal(t, "Film Notes", spec.PlatformConfig().Name)
	require.Equal(t, "FN", spec.PlatformConfig().Symbol)

	require.NoError(t, os.WriteFile(path, []byte(`{"unknown": true}`), 0o600))
	_, err = LoadSpec(path)
	require.Error(t, err)
}

func TestApplyWritesStateOnce(t *testing.T) {
	spec := testSpec()
	require.NoError(t, spec.Validate())

	db := storage.NewMemDB()
	manager := state.NewManager(db)
	buffer := &events.Buffer{}
	require.NoError(t, Apply(manager, spec, buffer))
	require.NoError(t, manager.Commit())

	fresh := state.NewManager(db)
	require.True(t, fresh.HasRole(common.RoleAdministrator, adminAccount))
	require.True(t, fresh.HasRole(common.RoleCurator, curatorAccount))
	module := articles.ModuleAccount()
	require.True(t, fresh.HasRole(common.RoleMinter, module))

	account, err := fresh.GetAccount(curatorAccount[:])
	require.NoError(t, err)
	require.Equal(t, "5000", account.Balance.String())

	balance, err := fresh.TokenBalance(adminAccount)
	require.NoError(t, err)
	require.Equal(t, "1000", balance.String())
	supply, err := fresh.TokenSupply()
	require.NoError(t, err)
	require.Equal(t, "1000", supply.String())

	cfg, ok, err := fresh.MarketplaceConfig()
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 750, cfg.DefaultRoyaltyBps)

	require.Equal(t, 1, buffer.Len(), "initial supply mint should emit one transfer")

	require.ErrorIs(t, Apply(fresh, spec, buffer), ErrAlreadyApplied)
}

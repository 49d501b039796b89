package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"moviewrite/crypto"
	"moviewrite/native/certificate"
	"moviewrite/native/common"
	"moviewrite/native/token"
)

// Spec describes the initial ledger state: role assignments, native value
// allocations, the reward token and the marketplace parameters.
type Spec struct {
	GenesisTime string              `json:"genesisTime"`
	Token       TokenSpec           `json:"token"`
	Marketplace MarketplaceSpec     `json:"marketplace"`
	Alloc       map[string]string   `json:"alloc"` // addr -> native amount
	Roles       map[string][]string `json:"roles"` // role -> []addr

	genesisTimestamp time.Time
	allocations      []Allocation
	roleMembers      map[string][][20]byte
}

// TokenSpec configures the reward token.
type TokenSpec struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Decimals      uint8  `json:"decimals"`
	InitialSupply string `json:"initialSupply,omitempty"`
	InitialHolder string `json:"initialHolder,omitempty"`

	supply *big.Int
	holder [20]byte
}

// MarketplaceSpec configures the certificate marketplace.
type MarketplaceSpec struct {
	FeeRecipient      string `json:"feeRecipient"`
	FeeBps            uint32 `json:"feeBps"`
	DefaultRoyaltyBps uint32 `json:"defaultRoyaltyBps"`
	MintFee           string `json:"mintFee"`
	PublicMintEnabled *bool  `json:"publicMintEnabled,omitempty"`
	Name              string `json:"name,omitempty"`
	Symbol            string `json:"symbol,omitempty"`

	config certificate.PlatformConfig
}

// Allocation is a resolved native value balance.
type Allocation struct {
	Account [20]byte
	Amount  *big.Int
}

var knownRoles = map[string]struct{}{
	common.RoleAdministrator: {},
	common.RoleCurator:       {},
	common.RoleMinter:        {},
}

// LoadSpec reads and validates a JSON genesis file.
func LoadSpec(path string) (*Spec, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("genesis spec path must be provided")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis spec %q: %w", path, err)
	}
	var spec Spec
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode genesis spec %q: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis spec %q: %w", path, err)
	}
	return &spec, nil
}

// Validate checks the spec and resolves addresses and amounts. It must be
// called before the spec is applied.
func (s *Spec) Validate() error {
	if s == nil {
		return fmt.Errorf("genesis spec must not be nil")
	}
	ts, err := parseGenesisTime(s.GenesisTime)
	if err != nil {
		return err
	}
	s.genesisTimestamp = ts

	if err := s.Token.validate(); err != nil {
		return fmt.Errorf("token: %w", err)
	}
	if err := s.Marketplace.validate(); err != nil {
		return fmt.Errorf("marketplace: %w", err)
	}

	addrs := make([]string, 0, len(s.Alloc))
	for addr := range s.Alloc {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	s.allocations = make([]Allocation, 0, len(addrs))
	seen := make(map[[20]byte]struct{}, len(addrs))
	for _, addr := range addrs {
		account, err := crypto.ParseAccount(addr)
		if err != nil {
			return fmt.Errorf("alloc %q: %w", addr, err)
		}
		if _, dup := seen[account]; dup {
			return fmt.Errorf("alloc %q: duplicate account", addr)
		}
		seen[account] = struct{}{}
		amount, err := parseAmountString(s.Alloc[addr])
		if err != nil {
			return fmt.Errorf("alloc %q: %w", addr, err)
		}
		s.allocations = append(s.allocations, Allocation{Account: account, Amount: amount})
	}

	s.roleMembers = make(map[string][][20]byte, len(s.Roles))
	for role, members := range s.Roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if _, ok := knownRoles[normalized]; !ok {
			return fmt.Errorf("roles: unknown role %q", role)
		}
		for _, member := range members {
			account, err := crypto.ParseAccount(member)
			if err != nil {
				return fmt.Errorf("roles %q: %w", role, err)
			}
			s.roleMembers[normalized] = append(s.roleMembers[normalized], account)
		}
	}
	if len(s.roleMembers[common.RoleAdministrator]) == 0 {
		return fmt.Errorf("roles: at least one %s is required", common.RoleAdministrator)
	}
	return nil
}

// GenesisTimestamp returns the parsed genesis time.
func (s *Spec) GenesisTimestamp() time.Time { return s.genesisTimestamp }

// Allocations returns the resolved native allocations sorted by address.
func (s *Spec) Allocations() []Allocation {
	out := make([]Allocation, len(s.allocations))
	for i, alloc := range s.allocations {
		out[i] = Allocation{Account: alloc.Account, Amount: new(big.Int).Set(alloc.Amount)}
	}
	return out
}

// RoleMembers returns the resolved members of role in declaration order.
func (s *Spec) RoleMembers(role string) [][20]byte {
	return append([][20]byte(nil), s.roleMembers[role]...)
}

// PlatformConfig returns the resolved marketplace parameters.
func (s *Spec) PlatformConfig() certificate.PlatformConfig {
	return *s.Marketplace.config.Clone()
}

// TokenMetadata returns the reward token metadata.
func (s *Spec) TokenMetadata() token.Metadata {
	return token.Metadata{
		Name:     strings.TrimSpace(s.Token.Name),
		Symbol:   strings.TrimSpace(s.Token.Symbol),
		Decimals: s.Token.Decimals,
	}
}

// InitialSupply returns the initial token holder and the amount minted to it.
func (s *Spec) InitialSupply() ([20]byte, *big.Int) {
	return s.Token.holder, new(big.Int).Set(s.Token.supply)
}

func (t *TokenSpec) validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return fmt.Errorf("symbol must be provided")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name must be provided")
	}
	if t.Decimals > 18 {
		return fmt.Errorf("decimals must be 18 or fewer")
	}
	supply, err := parseAmountString(t.InitialSupply)
	if err != nil {
		return fmt.Errorf("initialSupply: %w", err)
	}
	t.supply = supply
	t.holder = [20]byte{}
	if strings.TrimSpace(t.InitialHolder) != "" {
		holder, err := crypto.ParseAccount(t.InitialHolder)
		if err != nil {
			return fmt.Errorf("initialHolder: %w", err)
		}
		t.holder = holder
	}
	if supply.Sign() > 0 && common.IsZeroAccount(t.holder) {
		return fmt.Errorf("initialHolder required when initialSupply is set")
	}
	return nil
}

func (m *MarketplaceSpec) validate() error {
	recipient, err := crypto.ParseAccount(m.FeeRecipient)
	if err != nil {
		return fmt.Errorf("feeRecipient: %w", err)
	}
	fee, err := parseAmountString(m.MintFee)
	if err != nil {
		return fmt.Errorf("mintFee: %w", err)
	}
	publicMint := true
	if m.PublicMintEnabled != nil {
		publicMint = *m.PublicMintEnabled
	}
	cfg := certificate.PlatformConfig{
		FeeRecipient:      recipient,
		FeeBps:            m.FeeBps,
		DefaultRoyaltyBps: m.DefaultRoyaltyBps,
		MintFee:           fee,
		PublicMintEnabled: publicMint,
		Name:              strings.TrimSpace(m.Name),
		Symbol:            strings.TrimSpace(m.Symbol),
	}
	if cfg.Name == "" {
		cfg.Name = certificate.DefaultCollectionName
	}
	if cfg.Symbol == "" {
		cfg.Symbol = certificate.DefaultCollectionSymbol
	}
	if err := certificate.ValidateConfig(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

func parseAmountString(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	return amount, nil
}

func parseGenesisTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("genesisTime must be provided")
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid genesisTime %q", value)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"moviewrite/crypto"

	"github.com/BurntSushi/toml"
)

// KeystorePassphraseEnv names the environment variable holding the operator
// keystore passphrase.
const KeystorePassphraseEnv = "MOVIEWRITE_KEYSTORE_PASSPHRASE"

type Config struct {
	RPCAddress           string `toml:"RPCAddress"`
	DataDir              string `toml:"DataDir"`
	NetworkName          string `toml:"NetworkName"`
	Environment          string `toml:"Environment"`
	LogFile              string `toml:"LogFile"`
	GenesisFile          string `toml:"GenesisFile"`
	GenesisTime          string `toml:"GenesisTime"`
	OperatorKeystorePath string `toml:"OperatorKeystorePath"`

	Token       TokenConfig       `toml:"Token"`
	Marketplace MarketplaceConfig `toml:"Marketplace"`
	Roles       RolesConfig       `toml:"Roles"`
	Alloc       []AllocConfig     `toml:"Alloc"`
	RPC         RPCConfig         `toml:"RPC"`
	Telemetry   TelemetryConfig   `toml:"Telemetry"`
}

// TokenConfig configures the reward token created at genesis.
type TokenConfig struct {
	Name          string `toml:"Name"`
	Symbol        string `toml:"Symbol"`
	Decimals      uint8  `toml:"Decimals"`
	InitialSupply string `toml:"InitialSupply"`
	InitialHolder string `toml:"InitialHolder"`
}

// MarketplaceConfig configures the certificate marketplace. Amounts are
// decimal strings in base units.
type MarketplaceConfig struct {
	FeeRecipient      string `toml:"FeeRecipient"`
	PlatformFeeBps    uint32 `toml:"PlatformFeeBps"`
	DefaultRoyaltyBps uint32 `toml:"DefaultRoyaltyBps"`
	MintFee           string `toml:"MintFee"`
	PublicMintEnabled bool   `toml:"PublicMintEnabled"`
	CollectionName    string `toml:"CollectionName"`
	CollectionSymbol  string `toml:"CollectionSymbol"`
}

// RolesConfig lists the genesis role holders as bech32 addresses.
type RolesConfig struct {
	Administrators []string `toml:"Administrators"`
	Curators       []string `toml:"Curators"`
	Minters        []string `toml:"Minters"`
}

// AllocConfig is a native value balance credited at genesis.
type AllocConfig struct {
	Address string `toml:"Address"`
	Amount  string `toml:"Amount"`
}

// RPCConfig controls the JSON-RPC server.
type RPCConfig struct {
	AuthTokenEnv       string  `toml:"AuthTokenEnv"`
	JWTSecretEnv       string  `toml:"JWTSecretEnv"`
	JWTIssuer          string  `toml:"JWTIssuer"`
	RateLimitPerSecond float64 `toml:"RateLimitPerSecond"`
	RateLimitBurst     int     `toml:"RateLimitBurst"`
	ReadHeaderTimeout  int     `toml:"ReadHeaderTimeout"`
}

// TelemetryConfig controls OTLP export and the rotating log file.
type TelemetryConfig struct {
	Endpoint      string  `toml:"Endpoint"`
	Insecure      bool    `toml:"Insecure"`
	Traces        bool    `toml:"Traces"`
	Metrics       bool    `toml:"Metrics"`
	Headers       string  `toml:"Headers"`
	SampleRatio   float64 `toml:"SampleRatio"`
	LogMaxSizeMB  int     `toml:"LogMaxSizeMB"`
	LogMaxBackups int     `toml:"LogMaxBackups"`
}

// LoadOption customises Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	passphrase func() (string, error)
}

// WithKeystorePassphraseSource supplies the passphrase used to encrypt the
// operator keystore written alongside a default configuration. It is only
// consulted when the configuration file does not exist yet.
func WithKeystorePassphraseSource(source func() (string, error)) LoadOption {
	return func(o *loadOptions) {
		if source != nil {
			o.passphrase = source
		}
	}
}

// Load loads the configuration from the given path. A default configuration
// and operator keystore are created when the file does not exist.
func Load(path string, opts ...LoadOption) (*Config, error) {
	options := loadOptions{
		passphrase: func() (string, error) { return os.Getenv(KeystorePassphraseEnv), nil },
	}
	for _, opt := range opts {
		opt(&options)
	}
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path, options.passphrase)
	} else if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.RPCAddress) == "" {
		c.RPCAddress = ":8080"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./moviewrite-data"
	}
	if strings.TrimSpace(c.NetworkName) == "" {
		c.NetworkName = "moviewrite-local"
	}
	if strings.TrimSpace(c.GenesisTime) == "" {
		c.GenesisTime = "2025-01-01T00:00:00Z"
	}
	if strings.TrimSpace(c.Token.Name) == "" && strings.TrimSpace(c.Token.Symbol) == "" {
		c.Token.Name = "MovieReward"
		c.Token.Symbol = "MRT"
		c.Token.Decimals = 18
	}
	if c.RPC.RateLimitPerSecond == 0 {
		c.RPC.RateLimitPerSecond = 20
	}
	if c.RPC.RateLimitBurst == 0 {
		c.RPC.RateLimitBurst = 40
	}
	if c.RPC.ReadHeaderTimeout == 0 {
		c.RPC.ReadHeaderTimeout = 5
	}
	if c.Telemetry.LogMaxSizeMB == 0 {
		c.Telemetry.LogMaxSizeMB = 100
	}
	if c.Telemetry.LogMaxBackups == 0 {
		c.Telemetry.LogMaxBackups = 5
	}
}

// createDefault creates and saves a default configuration file. A fresh
// operator key holds every genesis role and receives the platform fees.
func createDefault(path string, passphrase func() (string, error)) (*Config, error) {
	pass, err := passphrase()
	if err != nil {
		return nil, fmt.Errorf("operator keystore passphrase: %w", err)
	}
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	keystorePath := defaultKeystorePath(path)
	if err := crypto.SaveToKeystore(keystorePath, key, pass); err != nil {
		return nil, err
	}
	operator := key.PubKey().Address().String()

	cfg := &Config{
		OperatorKeystorePath: keystorePath,
		Token: TokenConfig{
			Name:          "MovieReward",
			Symbol:        "MRT",
			Decimals:      18,
			InitialSupply: "1000000000000000000000000",
			InitialHolder: operator,
		},
		Marketplace: MarketplaceConfig{
			FeeRecipient:      operator,
			PlatformFeeBps:    250,
			DefaultRoyaltyBps: 750,
			MintFee:           "10000000000000000",
			PublicMintEnabled: true,
			CollectionName:    "MovieWrite Article NFT",
			CollectionSymbol:  "MWART",
		},
		Roles: RolesConfig{
			Administrators: []string{operator},
			Curators:       []string{operator},
		},
		RPC: RPCConfig{
			AuthTokenEnv: "MOVIEWRITE_RPC_TOKEN",
			JWTSecretEnv: "MOVIEWRITE_RPC_JWT_SECRET",
			JWTIssuer:    "moviewrite",
		},
		Telemetry: TelemetryConfig{
			Endpoint: "localhost:4318",
			Insecure: true,
		},
	}
	cfg.applyDefaults()

	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func defaultKeystorePath(configPath string) string {
	dir := filepath.Dir(configPath)
	if dir == "." || dir == "" {
		dir = ""
	}
	return filepath.Join(dir, "operator.keystore")
}

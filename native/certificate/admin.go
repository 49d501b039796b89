package certificate

import (
	"math/big"
	"strconv"
	"strings"

	"moviewrite/crypto"
	"moviewrite/native/common"
)

const (
	DefaultCollectionName   = "MovieWrite Article NFT"
	DefaultCollectionSymbol = "MWART"
)

// DefaultPlatformConfig mirrors the launch parameters of the marketplace:
// 2.5% platform fee, 7.5% royalty, 0.01 unit mint fee and public minting on.
func DefaultPlatformConfig(feeRecipient [20]byte) PlatformConfig {
	mintFee := new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)
	return PlatformConfig{
		FeeRecipient:      feeRecipient,
		FeeBps:            250,
		DefaultRoyaltyBps: 750,
		MintFee:           mintFee,
		PublicMintEnabled: true,
		Name:              DefaultCollectionName,
		Symbol:            DefaultCollectionSymbol,
	}
}

// ValidateConfig checks the platform parameters against their caps.
func ValidateConfig(cfg PlatformConfig) error {
	if cfg.FeeBps > MaxPlatformFeeBps {
		return errFeeTooHigh
	}
	if cfg.DefaultRoyaltyBps > MaxRoyaltyBps {
		return errRoyaltyTooHigh
	}
	if cfg.MintFee != nil && cfg.MintFee.Sign() < 0 {
		return errNegativeFee
	}
	if common.IsZeroAccount(cfg.FeeRecipient) {
		return errZeroFeeRecipient
	}
	return nil
}

// Configure stores the platform parameters. It is applied once at genesis.
func (e *Engine) Configure(cfg PlatformConfig) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	stored := cfg.Clone()
	stored.Name = strings.TrimSpace(stored.Name)
	if stored.Name == "" {
		stored.Name = DefaultCollectionName
	}
	stored.Symbol = strings.TrimSpace(stored.Symbol)
	if stored.Symbol == "" {
		stored.Symbol = DefaultCollectionSymbol
	}
	return e.state.PutMarketplaceConfig(stored)
}

// PlatformConfig returns the current platform parameters.
func (e *Engine) PlatformConfig() (*PlatformConfig, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}

func (e *Engine) updateConfig(caller [20]byte, field string, apply func(cfg *PlatformConfig) (string, error)) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := common.RequireRole(e.state, ModuleName, common.RoleAdministrator, caller); err != nil {
		return err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	value, err := apply(cfg)
	if err != nil {
		return err
	}
	if err := e.state.PutMarketplaceConfig(cfg); err != nil {
		return err
	}
	e.emit(PlatformConfigUpdatedEvent(field, value))
	return nil
}

// SetPlatformFeeBps changes the platform fee. The fee is capped at 10%.
func (e *Engine) SetPlatformFeeBps(caller [20]byte, bps uint32) error {
	return e.updateConfig(caller, "feeBps", func(cfg *PlatformConfig) (string, error) {
		if bps > MaxPlatformFeeBps {
			return "", errFeeTooHigh
		}
		cfg.FeeBps = bps
		return strconv.FormatUint(uint64(bps), 10), nil
	})
}

// SetDefaultRoyaltyBps changes the royalty applied to future mints.
// Existing certificates keep the royalty they were minted with.
func (e *Engine) SetDefaultRoyaltyBps(caller [20]byte, bps uint32) error {
	return e.updateConfig(caller, "defaultRoyaltyBps", func(cfg *PlatformConfig) (string, error) {
		if bps > MaxRoyaltyBps {
			return "", errRoyaltyTooHigh
		}
		cfg.DefaultRoyaltyBps = bps
		return strconv.FormatUint(uint64(bps), 10), nil
	})
}

// SetMintFee changes the public mint fee.
func (e *Engine) SetMintFee(caller [20]byte, amount *big.Int) error {
	return e.updateConfig(caller, "mintFee", func(cfg *PlatformConfig) (string, error) {
		if amount == nil || amount.Sign() < 0 {
			return "", errNegativeFee
		}
		cfg.MintFee = new(big.Int).Set(amount)
		return amount.String(), nil
	})
}

// SetPublicMintEnabled toggles minting for non-administrators.
func (e *Engine) SetPublicMintEnabled(caller [20]byte, enabled bool) error {
	return e.updateConfig(caller, "publicMintEnabled", func(cfg *PlatformConfig) (string, error) {
		cfg.PublicMintEnabled = enabled
		return strconv.FormatBool(enabled), nil
	})
}

// SetFeeRecipient changes the account receiving platform and mint fees.
func (e *Engine) SetFeeRecipient(caller [20]byte, recipient [20]byte) error {
	return e.updateConfig(caller, "feeRecipient", func(cfg *PlatformConfig) (string, error) {
		if common.IsZeroAccount(recipient) {
			return "", errZeroFeeRecipient
		}
		cfg.FeeRecipient = recipient
		return crypto.FormatAccount(recipient), nil
	})
}

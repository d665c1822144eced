package config

import (
	"encoding/hex"
	"fmt"
)

// Validate checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func Validate(cfg *Config) error {
	key, err := hex.DecodeString(cfg.CosignerPubKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCosignerKey, err)
	}
	if len(key) != 33 {
		return fmt.Errorf("%w: got %d bytes, want 33", ErrInvalidCosignerKey, len(key))
	}

	for name, addr := range map[string]string{
		"burn": cfg.BurnAddress,
		"fee":  cfg.FeeAddress,
		"mint": cfg.MintAddress,
	} {
		if addr == "" {
			return fmt.Errorf("%w: %s address", ErrMissingAddress, name)
		}
	}

	if cfg.Decimals < 0 || cfg.Decimals > 18 {
		return fmt.Errorf("%w: got %d", ErrInvalidDecimals, cfg.Decimals)
	}

	if len(cfg.FeeTiers) == 0 {
		return ErrNoFeeTiers
	}
	for i, tier := range cfg.FeeTiers {
		if tier.Min > tier.Max {
			return fmt.Errorf("%w: tier %d has min %d > max %d", ErrInvalidTier, i, tier.Min, tier.Max)
		}
	}

	return nil
}

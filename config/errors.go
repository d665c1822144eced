package config

import "errors"

var (
	// ErrInvalidCosignerKey indicates the cosigner public key is not a
	// 33-byte compressed key in hex.
	ErrInvalidCosignerKey = errors.New("config: invalid cosigner public key")

	// ErrMissingAddress indicates a required protocol address is empty.
	ErrMissingAddress = errors.New("config: missing protocol address")

	// ErrInvalidDecimals indicates the decimals value is out of range.
	ErrInvalidDecimals = errors.New("config: decimals must be between 0 and 18")

	// ErrNoFeeTiers indicates the fee tier table is empty.
	ErrNoFeeTiers = errors.New("config: no fee tiers configured")

	// ErrInvalidTier indicates a fee tier has min > max.
	ErrInvalidTier = errors.New("config: invalid fee tier")

	// ErrInvalidAmount indicates an amount is negative, fractional at the
	// configured precision, or does not fit in 64 bits.
	ErrInvalidAmount = errors.New("config: invalid token amount")
)

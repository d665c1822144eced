package fee

import "errors"

var (
	// ErrInsufficientBalance indicates the UTXO set cannot cover the
	// requested amount.
	ErrInsufficientBalance = errors.New("fee: insufficient token balance")

	// ErrTierNotFound indicates no fee tier covers the transfer total.
	ErrTierNotFound = errors.New("fee: no fee tier covers amount")
)

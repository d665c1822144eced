// Package fee implements UTXO selection and protocol fee computation.
// Everything here is a pure function over caller-supplied data.
package fee

import (
	"fmt"
	"math"

	"github.com/mnee-xyz/mnee-go/config"
	"github.com/mnee-xyz/mnee-go/tx"
)

// SelectInputs consumes UTXOs strictly in the order given, accumulating
// token amounts until the required atomic amount is covered. First-fit, not
// optimal-fit: deterministic and simple at the cost of potentially
// larger-than-necessary input sets. Exhausting the list first returns
// ErrInsufficientBalance carrying the maximum available balance.
func SelectInputs(utxos []*tx.TokenUTXO, required uint64) ([]*tx.TokenUTXO, error) {
	var chosen []*tx.TokenUTXO
	var tokensIn uint64
	for _, u := range utxos {
		if u.Amount > math.MaxUint64-tokensIn {
			// A set summing past 64 bits is corrupt input, not balance.
			return nil, fmt.Errorf("%w: utxo amounts overflow at %s", ErrInsufficientBalance, u.Outpoint())
		}
		chosen = append(chosen, u)
		tokensIn += u.Amount
		if tokensIn >= required {
			return chosen, nil
		}
	}
	return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, required, tokensIn)
}

// Sum returns the total atomic token amount of a UTXO set.
func Sum(utxos []*tx.TokenUTXO) uint64 {
	var total uint64
	for _, u := range utxos {
		total += u.Amount
	}
	return total
}

// Compute returns the protocol fee for a transfer of totalAtomic units.
// Transfers with the burn address among the recipients are fee-exempt.
// Otherwise the fee comes from the tier covering the total; tiers are
// contiguous and non-overlapping by contract of the config provider, and a
// total outside every tier is an error.
func Compute(totalAtomic uint64, tiers []config.Tier, recipients []string, burnAddress string) (uint64, error) {
	for _, r := range recipients {
		if r == burnAddress {
			return 0, nil
		}
	}
	for _, tier := range tiers {
		if totalAtomic >= tier.Min && totalAtomic <= tier.Max {
			return tier.Fee, nil
		}
	}
	return 0, fmt.Errorf("%w: %d atomic units", ErrTierNotFound, totalAtomic)
}

// Change returns the token change owed back to the sender: what the chosen
// inputs carry beyond the requested amount and the fee. Change, when
// positive, belongs to the owner of the first consumed UTXO.
func Change(tokensIn, requested, fee uint64) uint64 {
	spent := requested + fee
	if tokensIn <= spent {
		return 0
	}
	return tokensIn - spent
}

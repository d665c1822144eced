package wallet

import (
	"context"
	"fmt"

	"github.com/mnee-xyz/mnee-go/engine"
	"github.com/mnee-xyz/mnee-go/tx"
)

// DefaultGapLimit is the number of consecutive empty addresses after which
// scanning stops, per BIP44 account discovery.
const DefaultGapLimit = 20

// FundedKey is a derived key that holds unspent token outputs.
type FundedKey struct {
	Key     *KeyPair
	UTXOs   []*tx.TokenUTXO
	Balance uint64
}

// Scan walks the receive and change chains of account zero, querying the
// token index for each derived address, and returns the keys that hold
// tokens. Scanning a chain stops after gapLimit consecutive empty
// addresses. If store is non-nil every visited address is recorded so
// later runs can resume without rederiving.
func (w *Wallet) Scan(ctx context.Context, source engine.UTXOSource, store *Store, gapLimit uint32) ([]*FundedKey, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: utxo source", ErrNilParam)
	}
	if gapLimit == 0 {
		gapLimit = DefaultGapLimit
	}

	var funded []*FundedKey
	for _, chain := range []uint32{ExternalChain, InternalChain} {
		keys, err := w.scanChain(ctx, source, store, chain, gapLimit)
		if err != nil {
			return nil, err
		}
		funded = append(funded, keys...)
	}
	return funded, nil
}

func (w *Wallet) scanChain(ctx context.Context, source engine.UTXOSource, store *Store, chain, gapLimit uint32) ([]*FundedKey, error) {
	var funded []*FundedKey
	var gap uint32

	for index := uint32(0); gap < gapLimit; index++ {
		kp, err := w.DeriveKey(0, chain, index)
		if err != nil {
			return nil, err
		}

		utxos, err := source.TokenUTXOs(ctx, kp.Address, "")
		if err != nil {
			return nil, fmt.Errorf("wallet: scan %s: %w", kp.Path, err)
		}

		if store != nil {
			rec := &AddressRecord{Index: index, Chain: chain, Address: kp.Address, Path: kp.Path}
			if err := store.PutAddress(rec); err != nil {
				return nil, err
			}
		}

		if len(utxos) == 0 {
			gap++
			continue
		}
		gap = 0

		var balance uint64
		for _, u := range utxos {
			balance += u.Amount
		}
		funded = append(funded, &FundedKey{Key: kp, UTXOs: utxos, Balance: balance})
	}
	return funded, nil
}

// Balance sums the token balance over all funded keys found by Scan.
func Balance(funded []*FundedKey) uint64 {
	var total uint64
	for _, f := range funded {
		total += f.Balance
	}
	return total
}

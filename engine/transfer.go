package engine

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"

	"github.com/mnee-xyz/mnee-go/fee"
	"github.com/mnee-xyz/mnee-go/inscription"
	"github.com/mnee-xyz/mnee-go/tx"
)

// Transfer states, in order of progression. Failure is terminal from any
// state.
const (
	stateCollecting = "collecting"
	stateSelected   = "selected"
	stateAssembled  = "assembled"
	stateSigned     = "signed"
	stateCosigned   = "cosigned"
	stateBroadcast  = "broadcast"
	stateDone       = "done"
)

// Transfer builds, signs, cosigns, and broadcasts a token transfer to the
// requested recipients, spending UTXOs owned by signingKey.
//
// Once the cosigner has countersigned, the transfer is considered
// committed: a subsequent broadcast failure is logged and the result is
// still returned, because the cosigner will not sign a conflicting spend of
// the same inputs.
func (e *Engine) Transfer(ctx context.Context, requests []TransferRequest, signingKey *ec.PrivateKey) (*TransferResult, error) {
	if signingKey == nil {
		return nil, fmt.Errorf("%w: signing key", ErrNilParam)
	}

	// Collecting: resolve amounts and fetch the sender's unspent set.
	e.log.Debug("transfer", "state", stateCollecting)

	atomicAmounts := make([]uint64, len(requests))
	recipients := make([]string, len(requests))
	var total uint64
	for i, req := range requests {
		atomic, err := e.cfg.ToAtomic(req.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: recipient %s: %w", ErrInvalidAmount, req.Address, err)
		}
		if atomic > math.MaxUint64-total {
			return nil, fmt.Errorf("%w: requested total overflows", ErrInvalidAmount)
		}
		atomicAmounts[i] = atomic
		recipients[i] = req.Address
		total += atomic
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: total is zero", ErrInvalidAmount)
	}

	cosignerKey, err := ec.PublicKeyFromString(e.cfg.CosignerPubKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCosignerAuth, err)
	}

	senderAddr, err := script.NewAddressFromPublicKey(signingKey.PubKey(), true)
	if err != nil {
		return nil, fmt.Errorf("%w: sender address: %w", ErrNilParam, err)
	}

	utxos, err := e.utxos.TokenUTXOs(ctx, senderAddr.AddressString, inscription.OpTransfer)
	if err != nil {
		return nil, fmt.Errorf("engine: utxo fetch: %w", err)
	}

	// Selected: first-fit selection and fee lookup.
	chosen, err := fee.SelectInputs(utxos, total)
	if err != nil {
		return nil, err
	}
	feeAmount, err := fee.Compute(total, e.cfg.FeeTiers, recipients, e.cfg.BurnAddress)
	if err != nil {
		return nil, err
	}
	change := fee.Change(fee.Sum(chosen), total, feeAmount)
	e.log.Debug("transfer", "state", stateSelected,
		"inputs", len(chosen), "total", total, "fee", feeAmount, "change", change)

	// Assembled: envelope outputs, then unsigned inputs with resolved
	// source transactions.
	built := transaction.NewTransaction()

	for i, req := range requests {
		if err := e.addTokenOutput(built, req.Address, cosignerKey, atomicAmounts[i]); err != nil {
			return nil, err
		}
	}
	if feeAmount > 0 {
		if err := e.addTokenOutput(built, e.cfg.FeeAddress, cosignerKey, feeAmount); err != nil {
			return nil, err
		}
	}
	if change > 0 {
		// Change goes back to the owner of the first consumed UTXO.
		if err := e.addTokenOutput(built, chosen[0].Address, cosignerKey, change); err != nil {
			return nil, err
		}
	}

	sigRequests := make([]*tx.SignatureRequest, len(chosen))
	for i, u := range chosen {
		prevTxID, err := chainhash.NewHashFromHex(u.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: utxo %s: %w", ErrSourceTxFetch, u.Outpoint(), err)
		}
		built.AddInput(&transaction.TransactionInput{
			SourceTXID:       prevTxID,
			SourceTxOutIndex: u.Vout,
			SequenceNumber:   tx.DefaultSequence,
		})

		sourceTx, err := e.chain.FetchTransaction(ctx, u.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceTxFetch, u.TxID, err)
		}

		// An out-of-range or empty source output is tolerated: signing
		// falls back to the sender's own single-key template.
		subscript, satoshis := resolveSourceOutput(sourceTx, u.Vout)
		if satoshis == 0 {
			satoshis = u.Satoshis
		}
		req, err := tx.NewSignatureRequest(&tx.TokenUTXO{
			TxID:     u.TxID,
			Vout:     u.Vout,
			Satoshis: satoshis,
			Amount:   u.Amount,
		}, subscript, signingKey.PubKey())
		if err != nil {
			return nil, err
		}
		sigRequests[i] = req
	}
	e.log.Debug("transfer", "state", stateAssembled, "outputs", len(built.Outputs))

	// Signed.
	if err := tx.SignInputs(built, sigRequests, signingKey); err != nil {
		return nil, err
	}
	e.log.Debug("transfer", "state", stateSigned)

	// Cosigned: the counter-signature is applied remotely. Nothing is
	// exposed to the caller if the cosigner refuses.
	cosignedB64, err := e.cosigner.Cosign(ctx, base64.StdEncoding.EncodeToString(built.Bytes()))
	if err != nil {
		return nil, mapCosignerError(err)
	}
	cosignedBytes, err := base64.StdEncoding.DecodeString(cosignedB64)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable response: %w", ErrCosignerRejected, err)
	}
	cosigned, err := transaction.NewTransactionFromBytes(cosignedBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: unparsable response: %w", ErrCosignerRejected, err)
	}
	e.log.Debug("transfer", "state", stateCosigned, "txid", cosigned.TxID().String())

	result := &TransferResult{
		TxID:  cosigned.TxID().String(),
		RawTx: hex.EncodeToString(cosignedBytes),
	}

	// Broadcast: the transfer already committed at the cosigner, so a
	// refusal here is logged rather than surfaced.
	if _, err := e.broadcaster.Broadcast(ctx, cosignedBytes); err != nil {
		e.log.Error("transfer broadcast failed after cosign",
			"txid", result.TxID, "err", errors.Join(ErrBroadcastFailed, err))
	} else {
		e.log.Debug("transfer", "state", stateBroadcast, "txid", result.TxID)
	}

	e.log.Debug("transfer", "state", stateDone, "txid", result.TxID)
	return result, nil
}

// addTokenOutput appends one authorized envelope output carrying atomic
// token units to the given address.
func (e *Engine) addTokenOutput(t *transaction.Transaction, address string, cosignerKey *ec.PublicKey, atomic uint64) error {
	lock, err := inscription.EncodeAuthorizedEnvelope(
		address, cosignerKey, inscription.NewTransferPayload(e.cfg.TokenID, atomic))
	if err != nil {
		return err
	}
	t.AddOutput(&transaction.TransactionOutput{
		LockingScript: lock,
		Satoshis:      tx.TokenOutputSatoshis,
	})
	return nil
}

// resolveSourceOutput returns the locking script and satoshi value of the
// spent output, or (nil, 0) when the source transaction does not carry it.
func resolveSourceOutput(sourceTx *transaction.Transaction, vout uint32) (*script.Script, uint64) {
	if sourceTx == nil || int(vout) >= len(sourceTx.Outputs) {
		return nil, 0
	}
	out := sourceTx.Outputs[vout]
	if out.LockingScript == nil {
		return nil, 0
	}
	return out.LockingScript, out.Satoshis
}

// mapCosignerError translates a failed cosigner exchange into the engine
// error taxonomy: credential failures are distinguished from rejections.
func mapCosignerError(err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Status == 401 || httpErr.Status == 403 {
			return fmt.Errorf("%w: %w", ErrInvalidAPIKey, err)
		}
		return fmt.Errorf("%w: %w", ErrCosignerRejected, err)
	}
	return fmt.Errorf("%w: %w", ErrCosignerRejected, err)
}

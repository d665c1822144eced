// Package tx implements the signing protocol for token transfers: per-input
// signature requests, sighash computation under the ANYONECANPAY scope, and
// unlocking-script construction. The local signer is the first of two
// parties; the cosigner's counter-signature is added out-of-band after the
// transaction leaves this package.
package tx

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	sighash "github.com/bsv-blockchain/go-sdk/transaction/sighash"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
)

// DefaultSighashFlag commits the signature to this input and all outputs
// only. Excluding the other inputs lets independently signed inputs from
// different owners be merged into one transaction without re-signing.
const DefaultSighashFlag = sighash.AllForkID | sighash.AnyOneCanPay

// DefaultSequence is the sequence number used on token inputs.
const DefaultSequence = uint32(0xffffffff)

// TokenOutputSatoshis is the satoshi value carried by every token envelope
// output (the one-satoshi ordinal convention).
const TokenOutputSatoshis = uint64(1)

// SignatureRequest describes one input to be signed: the previous outpoint,
// its satoshi value, the subscript the signature commits to, and the
// sighash scope.
type SignatureRequest struct {
	PrevTxID    string
	OutputIndex uint32
	Satoshis    uint64
	Subscript   *script.Script
	Sequence    uint32
	Flag        sighash.Flag
}

// NewSignatureRequest builds the request for one consumed UTXO. subscript
// is the previous output's locking script when the caller could resolve it;
// a nil subscript falls back to the plain single-key template derived from
// the signer's own public key. The fallback is tolerated rather than fatal
// so signing can proceed when a previous output is unresolvable.
func NewSignatureRequest(u *TokenUTXO, subscript *script.Script, signerPub *ec.PublicKey) (*SignatureRequest, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: utxo", ErrNilParam)
	}
	if subscript == nil {
		var err error
		subscript, err = DefaultSubscript(signerPub)
		if err != nil {
			return nil, err
		}
	}
	return &SignatureRequest{
		PrevTxID:    u.TxID,
		OutputIndex: u.Vout,
		Satoshis:    u.Satoshis,
		Subscript:   subscript,
		Sequence:    DefaultSequence,
		Flag:        DefaultSighashFlag,
	}, nil
}

// DefaultSubscript returns the plain P2PKH locking script for the signer's
// public key.
func DefaultSubscript(pub *ec.PublicKey) (*script.Script, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: public key", ErrNilParam)
	}
	addr, err := script.NewAddressFromPublicKey(pub, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from pubkey: %w", ErrScriptBuild, err)
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock: %w", ErrScriptBuild, err)
	}
	return lock, nil
}

// SignInputs signs every input of t with the owning private key, replacing
// each input's placeholder unlocking script. requests must be paired with
// the inputs by position, and each request must reference the outpoint its
// input spends; a request naming an unknown previous txid is fatal.
//
// Unlocking script: push(signature ‖ flag byte) push(compressed pubkey).
func SignInputs(t *transaction.Transaction, requests []*SignatureRequest, priv *ec.PrivateKey) error {
	if t == nil {
		return fmt.Errorf("%w: transaction", ErrNilParam)
	}
	if priv == nil {
		return fmt.Errorf("%w: private key", ErrNilParam)
	}
	if len(requests) != len(t.Inputs) {
		return fmt.Errorf("%w: have %d requests but tx has %d inputs",
			ErrSignatureFailed, len(requests), len(t.Inputs))
	}

	for i, req := range requests {
		if err := signInput(t, uint32(i), req, priv); err != nil {
			return err
		}
	}
	return nil
}

func signInput(t *transaction.Transaction, index uint32, req *SignatureRequest, priv *ec.PrivateKey) error {
	if req == nil {
		return fmt.Errorf("%w: request for input %d", ErrNilParam, index)
	}

	input := t.Inputs[index]
	if input.SourceTXID == nil || input.SourceTXID.String() != req.PrevTxID ||
		input.SourceTxOutIndex != req.OutputIndex {
		return fmt.Errorf("%w: input %d spends %v:%d, request names %s:%d",
			ErrRequestMismatch, index, input.SourceTXID, input.SourceTxOutIndex,
			req.PrevTxID, req.OutputIndex)
	}

	// The sighash commits to the subscript and satoshi value of the spent
	// output, so both must be attached before digest computation.
	input.SetSourceTxOutput(&transaction.TransactionOutput{
		Satoshis:      req.Satoshis,
		LockingScript: req.Subscript,
	})
	input.SequenceNumber = req.Sequence

	flag := req.Flag
	if flag == 0 {
		flag = DefaultSighashFlag
	}

	sigHash, err := t.CalcInputSignatureHash(index, flag)
	if err != nil {
		return fmt.Errorf("%w: input %d: %w", ErrSignatureFailed, index, err)
	}

	sig, err := priv.Sign(sigHash)
	if err != nil {
		return fmt.Errorf("%w: input %d: %w", ErrSignatureFailed, index, err)
	}
	sigBytes := append(sig.Serialize(), byte(flag))

	unlock := &script.Script{}
	if err := unlock.AppendPushData(sigBytes); err != nil {
		return fmt.Errorf("%w: push signature: %w", ErrScriptBuild, err)
	}
	if err := unlock.AppendPushData(priv.PubKey().Compressed()); err != nil {
		return fmt.Errorf("%w: push pubkey: %w", ErrScriptBuild, err)
	}
	input.UnlockingScript = unlock

	return nil
}

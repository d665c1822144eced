package engine

import (
	"context"
	"encoding/hex"
	"strconv"

	"github.com/bsv-blockchain/go-sdk/transaction"

	"github.com/mnee-xyz/mnee-go/inscription"
)

// Validate checks a raw transaction (hex) against the protocol, fail-closed:
// every failure path, including unparsable bytes, resolves to false and no
// error is ever surfaced.
//
// With no expected requests, every output must carry the configured
// cosigner in its authorization — a bare, non-protocol output rejects the
// transaction. With expected requests, each request needs (a) some output
// carrying the configured cosigner, (b) some output authorized to the
// requested address, and (c) a transfer payload on that address-matching
// output for the configured token id and the requested atomic amount.
// Checks (a) and (b) are independent existence checks over the whole
// output set, not a joint check on one output; this looseness is inherited
// behavior, kept so that nothing the original accepted is rejected here.
func (e *Engine) Validate(_ context.Context, rawtx string, expected []TransferRequest) bool {
	raw, err := hex.DecodeString(rawtx)
	if err != nil {
		return false
	}
	t, err := transaction.NewTransactionFromBytes(raw)
	if err != nil {
		return false
	}
	if len(t.Outputs) == 0 {
		return false
	}

	if len(expected) == 0 {
		for _, output := range t.Outputs {
			auth := inscription.DecodeAuthorization(output.LockingScript)
			if auth == nil || auth.CosignerPubKey != e.cfg.CosignerPubKey {
				return false
			}
		}
		return true
	}

	cosignerPresent := false
	for _, output := range t.Outputs {
		if auth := inscription.DecodeAuthorization(output.LockingScript); auth != nil &&
			auth.CosignerPubKey == e.cfg.CosignerPubKey {
			cosignerPresent = true
			break
		}
	}
	if !cosignerPresent {
		return false
	}

	for _, req := range expected {
		atomic, err := e.cfg.ToAtomic(req.Amount)
		if err != nil {
			return false
		}
		if !e.outputPaysRequest(t, req.Address, atomic) {
			return false
		}
	}
	return true
}

// outputPaysRequest reports whether some output is authorized to addr and
// carries a matching transfer payload.
func (e *Engine) outputPaysRequest(t *transaction.Transaction, addr string, atomic uint64) bool {
	want := strconv.FormatUint(atomic, 10)
	for _, output := range t.Outputs {
		auth := inscription.DecodeAuthorization(output.LockingScript)
		if auth == nil || auth.Address != addr {
			continue
		}
		ins := inscription.DecodeInscription(output.LockingScript)
		if ins == nil {
			continue
		}
		payload := inscription.ParseTokenPayload(ins.Content)
		if payload == nil {
			continue
		}
		if payload.Op == inscription.OpTransfer &&
			payload.ID == e.cfg.TokenID &&
			payload.Amt == want {
			return true
		}
	}
	return false
}

package engine

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"

	"github.com/mnee-xyz/mnee-go/config"
	"github.com/mnee-xyz/mnee-go/inscription"
)

// TxType is the semantic classification of a token transaction.
type TxType string

const (
	TypeTransfer TxType = "transfer"
	TypeMint     TxType = "mint"
	TypeBurn     TxType = "burn"
	TypeDeploy   TxType = "deploy"
)

// ParsedSlot is one decoded input or output of a classified transaction.
type ParsedSlot struct {
	Address  string `json:"address"`
	Cosigner string `json:"cosigner,omitempty"`
	Amount   uint64 `json:"amount"`
	Op       string `json:"op,omitempty"`
	TokenID  string `json:"token_id,omitempty"`
}

// ParsedTransaction is the classifier's verdict: semantic type, inferred
// environment, and the decoded token slots. Derived on every call, never
// stored.
type ParsedTransaction struct {
	TxID        string             `json:"txid"`
	Environment config.Environment `json:"environment"`
	Type        TxType             `json:"type"`
	Inputs      []ParsedSlot       `json:"inputs"`
	Outputs     []ParsedSlot       `json:"outputs"`
}

// Classify re-derives the semantic meaning of a transaction from raw
// bytes. The argument is either a serialized transaction in hex or a txid
// to fetch. Unlike Validate, classification fails loudly: an unresolvable
// source transaction or a broken conservation invariant is an error,
// because a structurally invalid transaction has no meaningful
// classification.
func (e *Engine) Classify(ctx context.Context, rawtxOrTxid string) (*ParsedTransaction, error) {
	t, err := e.resolveTransaction(ctx, rawtxOrTxid)
	if err != nil {
		return nil, err
	}
	txid := t.TxID().String()

	parsed := &ParsedTransaction{TxID: txid, Type: TypeTransfer}

	// Observed protocol identity, used for environment inference.
	var seenTokenID, seenCosigner string

	var inputTotal, outputTotal uint64
	for _, input := range t.Inputs {
		if input.SourceTXID == nil {
			return nil, fmt.Errorf("%w: input with no source txid", ErrSourceTxFetch)
		}
		sourceTx, err := e.chain.FetchTransaction(ctx, input.SourceTXID.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceTxFetch, input.SourceTXID.String(), err)
		}
		if int(input.SourceTxOutIndex) >= len(sourceTx.Outputs) {
			return nil, fmt.Errorf("%w: %s has no output %d",
				ErrSourceTxFetch, input.SourceTXID.String(), input.SourceTxOutIndex)
		}

		slot := decodeSlot(sourceTx.Outputs[input.SourceTxOutIndex].LockingScript)
		inputTotal += slot.Amount
		rememberIdentity(&seenTokenID, &seenCosigner, slot)
		parsed.Inputs = append(parsed.Inputs, slot)
	}

	for _, output := range t.Outputs {
		slot := decodeSlot(output.LockingScript)
		outputTotal += slot.Amount
		rememberIdentity(&seenTokenID, &seenCosigner, slot)
		parsed.Outputs = append(parsed.Outputs, slot)
	}

	parsed.Type = e.classifyType(parsed)
	parsed.Environment = config.InferEnvironment(seenTokenID, seenCosigner, txid)

	// Supply is conserved everywhere except the deploy transaction, which
	// creates it.
	if parsed.Type != TypeDeploy && inputTotal != outputTotal {
		return nil, fmt.Errorf("%w: inputs carry %d, outputs carry %d",
			ErrInvariantViolation, inputTotal, outputTotal)
	}

	return parsed, nil
}

// resolveTransaction interprets the argument as raw transaction hex first,
// falling back to a txid fetch.
func (e *Engine) resolveTransaction(ctx context.Context, rawtxOrTxid string) (*transaction.Transaction, error) {
	if raw, err := hex.DecodeString(rawtxOrTxid); err == nil && len(raw) != 32 {
		if t, err := transaction.NewTransactionFromBytes(raw); err == nil {
			return t, nil
		}
	}
	t, err := e.chain.FetchTransaction(ctx, rawtxOrTxid)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceTxFetch, rawtxOrTxid, err)
	}
	return t, nil
}

// decodeSlot decodes one locking script into its authorization and token
// payload. Scripts outside the protocol yield an empty slot.
func decodeSlot(lock *script.Script) ParsedSlot {
	var slot ParsedSlot
	if auth := inscription.DecodeAuthorization(lock); auth != nil {
		slot.Address = auth.Address
		slot.Cosigner = auth.CosignerPubKey
	}
	if ins := inscription.DecodeInscription(lock); ins != nil {
		if payload := inscription.ParseTokenPayload(ins.Content); payload != nil {
			slot.Op = payload.Op
			slot.TokenID = payload.ID
			if amt, err := payload.Atomic(); err == nil {
				slot.Amount = amt
			}
		}
	}
	return slot
}

func rememberIdentity(tokenID, cosigner *string, slot ParsedSlot) {
	if *tokenID == "" && slot.TokenID != "" {
		*tokenID = slot.TokenID
	}
	if *cosigner == "" && slot.Cosigner != "" {
		*cosigner = slot.Cosigner
	}
}

// classifyType assigns the semantic type. Transfer is the default; mint is
// recognized by the known mint address under a plain or configured
// cosigner; burn and deploy are declared by output payload ops, with
// deploy taking precedence.
func (e *Engine) classifyType(parsed *ParsedTransaction) TxType {
	txType := TypeTransfer

	for _, slot := range append(append([]ParsedSlot{}, parsed.Inputs...), parsed.Outputs...) {
		if slot.Address == e.cfg.MintAddress &&
			(slot.Cosigner == "" || slot.Cosigner == e.cfg.CosignerPubKey) {
			txType = TypeMint
			break
		}
	}
	for _, slot := range parsed.Outputs {
		if slot.Op == inscription.OpBurn {
			txType = TypeBurn
		}
	}
	for _, slot := range parsed.Outputs {
		if slot.Op == inscription.OpDeployMint {
			txType = TypeDeploy
		}
	}
	return txType
}

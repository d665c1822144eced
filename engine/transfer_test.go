package engine

import (
	"context"
	"encoding/hex"
	"errors"
	"math"
	"testing"

	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnee-xyz/mnee-go/fee"
	"github.com/mnee-xyz/mnee-go/inscription"
)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// decodeOutputs returns (address, atomic amount) per envelope output of a
// raw hex transaction.
func decodeOutputs(t *testing.T, rawHex string) map[string]uint64 {
	t.Helper()
	raw, err := hex.DecodeString(rawHex)
	require.NoError(t, err)
	parsed, err := transaction.NewTransactionFromBytes(raw)
	require.NoError(t, err)

	outputs := map[string]uint64{}
	for _, out := range parsed.Outputs {
		auth := inscription.DecodeAuthorization(out.LockingScript)
		require.NotNil(t, auth)
		ins := inscription.DecodeInscription(out.LockingScript)
		require.NotNil(t, ins)
		payload := inscription.ParseTokenPayload(ins.Content)
		require.NotNil(t, payload)
		atomic, err := payload.Atomic()
		require.NoError(t, err)
		outputs[auth.Address] += atomic
	}
	return outputs
}

func TestTransfer_SelectsBeyondFirstUTXO(t *testing.T) {
	// Two 300000-unit UTXOs, 500000 requested: the first alone is
	// insufficient, so both are consumed. Fee 100, change 99900.
	env := newTestEnv(t, 300000, 300000)
	recipient := newAddress(t)

	res, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: recipient, Amount: amount("5")}}, env.sender)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.TxID)

	raw, err := hex.DecodeString(res.RawTx)
	require.NoError(t, err)
	built, err := transaction.NewTransactionFromBytes(raw)
	require.NoError(t, err)
	assert.Len(t, built.Inputs, 2)
	assert.Len(t, built.Outputs, 3) // recipient, fee, change

	outputs := decodeOutputs(t, res.RawTx)
	assert.Equal(t, uint64(500000), outputs[recipient])
	assert.Equal(t, uint64(100), outputs[env.cfg.FeeAddress])
	assert.Equal(t, uint64(99900), outputs[addressOf(t, env.sender)])

	// Conservation: consumed input tokens fully reappear across outputs.
	var total uint64
	for _, v := range outputs {
		total += v
	}
	assert.Equal(t, uint64(600000), total)

	assert.Equal(t, 1, env.cosignerAPI.Calls)
	assert.Equal(t, 1, env.broadcaster.Calls)
}

func TestTransfer_EveryInputSigned(t *testing.T) {
	env := newTestEnv(t, 300000, 300000)

	res, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("5")}}, env.sender)
	require.NoError(t, err)

	raw, err := hex.DecodeString(res.RawTx)
	require.NoError(t, err)
	built, err := transaction.NewTransactionFromBytes(raw)
	require.NoError(t, err)

	for i, input := range built.Inputs {
		require.NotNil(t, input.UnlockingScript, "input %d", i)
		chunks, err := input.UnlockingScript.Chunks()
		require.NoError(t, err)
		assert.Len(t, chunks, 2, "input %d: push(sig) push(pubkey)", i)
	}
}

func TestTransfer_NoChangeOutput(t *testing.T) {
	// Inputs exactly cover amount + fee: no change output emitted.
	env := newTestEnv(t, 500100)

	res, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("5")}}, env.sender)
	require.NoError(t, err)

	raw, err := hex.DecodeString(res.RawTx)
	require.NoError(t, err)
	built, err := transaction.NewTransactionFromBytes(raw)
	require.NoError(t, err)
	assert.Len(t, built.Outputs, 2) // recipient + fee only
}

func TestTransfer_BurnIsFeeExempt(t *testing.T) {
	env := newTestEnv(t, 500000)

	res, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: env.cfg.BurnAddress, Amount: amount("5")}}, env.sender)
	require.NoError(t, err)

	outputs := decodeOutputs(t, res.RawTx)
	assert.Equal(t, uint64(500000), outputs[env.cfg.BurnAddress])
	_, hasFee := outputs[env.cfg.FeeAddress]
	assert.False(t, hasFee, "burn transfers pay no fee")
}

func TestTransfer_ZeroTotal(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: decimal.Zero}}, env.sender)
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, 0, env.utxoSource.Calls, "rejected before any fetch")
}

func TestTransfer_TotalOverflow(t *testing.T) {
	// Each recipient amount is representable on its own, but the request
	// total wraps past 64 bits. The wrap must not leak into selection.
	env := newTestEnv(t, 100)
	huge := decimal.NewFromUint64(math.MaxUint64).Shift(-env.cfg.Decimals)

	_, err := env.engine.Transfer(context.Background(), []TransferRequest{
		{Address: newAddress(t), Amount: huge},
		{Address: newAddress(t), Amount: huge},
	}, env.sender)
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, 0, env.utxoSource.Calls, "rejected before any fetch")
}

func TestTransfer_NegativeAmount(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("-1")}}, env.sender)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTransfer_InsufficientBalance(t *testing.T) {
	// 100 atomic units available, 200 requested. Nothing after the UTXO
	// fetch may run.
	env := newTestEnv(t, 100)

	_, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("0.002")}}, env.sender)
	require.ErrorIs(t, err, fee.ErrInsufficientBalance)

	assert.Equal(t, 1, env.utxoSource.Calls)
	assert.Equal(t, 0, env.chain.Calls)
	assert.Equal(t, 0, env.cosignerAPI.Calls)
	assert.Equal(t, 0, env.broadcaster.Calls)
}

func TestTransfer_FeeTierGap(t *testing.T) {
	env := newTestEnv(t, 100000000, 100000000)

	// 20000000 atomic units falls outside both configured tiers.
	_, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("200")}}, env.sender)
	require.ErrorIs(t, err, fee.ErrTierNotFound)
	assert.Equal(t, 0, env.cosignerAPI.Calls, "transaction never assembled")
}

func TestTransfer_SourceTxFetchFailure(t *testing.T) {
	env := newTestEnv(t, 500000)
	env.chain.FetchTransactionFn = func(context.Context, string) (*transaction.Transaction, error) {
		return nil, errors.New("boom")
	}

	_, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("1")}}, env.sender)
	require.ErrorIs(t, err, ErrSourceTxFetch)
	assert.Equal(t, 0, env.cosignerAPI.Calls)
}

func TestTransfer_CosignerAuthFailure(t *testing.T) {
	env := newTestEnv(t, 500000)
	env.cosignerAPI.CosignFn = func(context.Context, string) (string, error) {
		return "", &HTTPError{Status: 401, Body: "unauthorized"}
	}

	_, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("1")}}, env.sender)
	require.ErrorIs(t, err, ErrInvalidAPIKey)
	assert.Equal(t, 0, env.broadcaster.Calls, "nothing broadcast after rejection")
}

func TestTransfer_CosignerRejection(t *testing.T) {
	env := newTestEnv(t, 500000)
	env.cosignerAPI.CosignFn = func(context.Context, string) (string, error) {
		return "", &HTTPError{Status: 422, Body: "double spend"}
	}

	_, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("1")}}, env.sender)
	require.ErrorIs(t, err, ErrCosignerRejected)
}

func TestTransfer_BroadcastFailureStillReturnsResult(t *testing.T) {
	// After the cosigner accepts, the money has moved: a broadcast
	// failure is logged, not surfaced.
	env := newTestEnv(t, 500000)
	env.broadcaster.BroadcastFn = func(context.Context, []byte) (string, error) {
		return "", errors.New("mempool conflict")
	}

	res, err := env.engine.Transfer(context.Background(),
		[]TransferRequest{{Address: newAddress(t), Amount: amount("1")}}, env.sender)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.TxID)
	assert.NotEmpty(t, res.RawTx)
	assert.Equal(t, 1, env.broadcaster.Calls)
}

func TestTransfer_ConcurrentSpendsRaceToCosigner(t *testing.T) {
	// Two transfers against the same snapshot select overlapping UTXOs;
	// the cosigner accepts the first and rejects the loser.
	env := newTestEnv(t, 500000)

	accepted := 0
	env.cosignerAPI.CosignFn = func(_ context.Context, base64Tx string) (string, error) {
		if accepted > 0 {
			return "", &HTTPError{Status: 409, Body: "input already spent"}
		}
		accepted++
		return base64Tx, nil
	}

	req := []TransferRequest{{Address: newAddress(t), Amount: amount("1")}}

	res, err := env.engine.Transfer(context.Background(), req, env.sender)
	require.NoError(t, err)
	require.NotNil(t, res)

	_, err = env.engine.Transfer(context.Background(), req, env.sender)
	require.ErrorIs(t, err, ErrCosignerRejected)
}

func TestTransfer_NilSigningKey(t *testing.T) {
	env := newTestEnv(t, 100)
	_, err := env.engine.Transfer(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilParam)
}

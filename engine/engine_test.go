package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/stretchr/testify/require"

	"github.com/mnee-xyz/mnee-go/config"
	"github.com/mnee-xyz/mnee-go/inscription"
	"github.com/mnee-xyz/mnee-go/tx"
)

// testEnv wires an Engine against deterministic fakes: one sender with
// token UTXOs carried by a synthetic source transaction, an echoing
// cosigner, and an accepting broadcaster.
type testEnv struct {
	cfg      *config.Config
	engine   *Engine
	sender   *ec.PrivateKey
	cosigner *ec.PrivateKey

	utxoSource  *MockUTXOSource
	chain       *MockChainDataSource
	cosignerAPI *MockCosignerClient
	broadcaster *MockBroadcaster

	sourceTx *transaction.Transaction
	utxos    []*tx.TokenUTXO
}

func newAddress(t *testing.T) string {
	t.Helper()
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)
	addr, err := script.NewAddressFromPublicKey(priv.PubKey(), true)
	require.NoError(t, err)
	return addr.AddressString
}

func addressOf(t *testing.T, key *ec.PrivateKey) string {
	t.Helper()
	addr, err := script.NewAddressFromPublicKey(key.PubKey(), true)
	require.NoError(t, err)
	return addr.AddressString
}

// newTestEnv funds the sender with the given atomic amounts, one UTXO per
// amount, all referencing a single source transaction.
func newTestEnv(t *testing.T, amounts ...uint64) *testEnv {
	t.Helper()

	sender, err := ec.NewPrivateKey()
	require.NoError(t, err)
	cosigner, err := ec.NewPrivateKey()
	require.NoError(t, err)

	cfg := &config.Config{
		Environment:    config.Sandbox,
		TokenID:        "b9d53b17ae9ad7b1f4e500ddbf5e74792e541bbf52042873277da3b98283cd60_0",
		CosignerPubKey: fmt.Sprintf("%x", cosigner.PubKey().Compressed()),
		BurnAddress:    newAddress(t),
		FeeAddress:     newAddress(t),
		MintAddress:    newAddress(t),
		Decimals:       5,
		FeeTiers: []config.Tier{
			{Min: 0, Max: 1000000, Fee: 100},
			{Min: 1000001, Max: 10000000, Fee: 1000},
		},
	}

	env := &testEnv{cfg: cfg, sender: sender, cosigner: cosigner}

	senderAddr := addressOf(t, sender)
	env.sourceTx = transaction.NewTransaction()
	for _, amount := range amounts {
		lock, err := inscription.EncodeAuthorizedEnvelope(
			senderAddr, cosigner.PubKey(), inscription.NewTransferPayload(cfg.TokenID, amount))
		require.NoError(t, err)
		env.sourceTx.AddOutput(&transaction.TransactionOutput{
			LockingScript: lock,
			Satoshis:      tx.TokenOutputSatoshis,
		})
	}
	sourceTxID := env.sourceTx.TxID().String()
	for vout, amount := range amounts {
		env.utxos = append(env.utxos, &tx.TokenUTXO{
			TxID:     sourceTxID,
			Vout:     uint32(vout),
			Address:  senderAddr,
			Satoshis: tx.TokenOutputSatoshis,
			Amount:   amount,
			TokenID:  cfg.TokenID,
			Op:       inscription.OpTransfer,
		})
	}

	env.utxoSource = &MockUTXOSource{
		TokenUTXOsFn: func(_ context.Context, address, _ string) ([]*tx.TokenUTXO, error) {
			if address != senderAddr {
				return nil, nil
			}
			return env.utxos, nil
		},
	}
	env.chain = &MockChainDataSource{
		FetchTransactionFn: func(_ context.Context, txid string) (*transaction.Transaction, error) {
			if txid == sourceTxID {
				return env.sourceTx, nil
			}
			return nil, ErrTxNotFound
		},
	}
	env.cosignerAPI = &MockCosignerClient{
		CosignFn: func(_ context.Context, base64Tx string) (string, error) {
			return base64Tx, nil // echo: accepts without modifying
		},
	}
	env.broadcaster = &MockBroadcaster{
		BroadcastFn: func(_ context.Context, _ []byte) (string, error) {
			return "broadcast-txid", nil
		},
	}

	eng, err := New(cfg, Dependencies{
		UTXOs:       env.utxoSource,
		Chain:       env.chain,
		Cosigner:    env.cosignerAPI,
		Broadcaster: env.broadcaster,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	env.engine = eng

	return env
}

func TestNew_Validation(t *testing.T) {
	env := newTestEnv(t, 100)

	_, err := New(nil, Dependencies{})
	require.ErrorIs(t, err, ErrNilParam)

	_, err = New(env.cfg, Dependencies{UTXOs: env.utxoSource})
	require.ErrorIs(t, err, ErrNilParam)

	bad := *env.cfg
	bad.CosignerPubKey = "nope"
	_, err = New(&bad, Dependencies{
		UTXOs: env.utxoSource, Chain: env.chain,
		Cosigner: env.cosignerAPI, Broadcaster: env.broadcaster,
	})
	require.ErrorIs(t, err, config.ErrInvalidCosignerKey)
}

// Package engine builds, signs, validates, and classifies token transfer
// transactions. It is stateless and call-scoped: every operation owns its
// working set, shares nothing with concurrent operations beyond the
// immutable configuration, and performs no retries — a failed collaborator
// call propagates immediately.
package engine

import (
	"context"
	"log/slog"

	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/shopspring/decimal"

	"github.com/mnee-xyz/mnee-go/config"
	"github.com/mnee-xyz/mnee-go/tx"
)

// UTXOSource lists unspent token outputs for an address, optionally
// filtered by token operation.
type UTXOSource interface {
	TokenUTXOs(ctx context.Context, address, op string) ([]*tx.TokenUTXO, error)
}

// ChainDataSource fetches full transactions from the ledger by txid.
// A missing transaction fails with ErrTxNotFound.
type ChainDataSource interface {
	FetchTransaction(ctx context.Context, txid string) (*transaction.Transaction, error)
}

// CosignerClient submits a base64 transaction for counter-signature and
// returns the countersigned transaction, also base64. A failed HTTP
// exchange surfaces as *HTTPError.
type CosignerClient interface {
	Cosign(ctx context.Context, base64Tx string) (string, error)
}

// Broadcaster submits a serialized transaction to the ledger and returns
// its txid.
type Broadcaster interface {
	Broadcast(ctx context.Context, rawTx []byte) (string, error)
}

// TransferRequest is one recipient of a transfer, with the amount in
// human-readable token units.
type TransferRequest struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// TransferResult is the outcome of a completed transfer.
type TransferResult struct {
	TxID  string `json:"txid"`
	RawTx string `json:"rawtx"` // hex, countersigned
}

// Dependencies are the collaborators an Engine consumes. All four
// capabilities are required; Logger defaults to slog.Default.
type Dependencies struct {
	UTXOs       UTXOSource
	Chain       ChainDataSource
	Cosigner    CosignerClient
	Broadcaster Broadcaster
	Logger      *slog.Logger
}

// Engine is the transaction engine for one token. The configuration is
// treated as immutable; refresh lifecycle belongs to the caller.
type Engine struct {
	cfg         *config.Config
	utxos       UTXOSource
	chain       ChainDataSource
	cosigner    CosignerClient
	broadcaster Broadcaster
	log         *slog.Logger
}

// New creates an Engine. The config is validated once up front.
func New(cfg *config.Config, deps Dependencies) (*Engine, error) {
	if cfg == nil {
		return nil, ErrNilParam
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if deps.UTXOs == nil || deps.Chain == nil || deps.Cosigner == nil || deps.Broadcaster == nil {
		return nil, ErrNilParam
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		cfg:         cfg,
		utxos:       deps.UTXOs,
		chain:       deps.Chain,
		cosigner:    deps.Cosigner,
		broadcaster: deps.Broadcaster,
		log:         log,
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

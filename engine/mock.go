package engine

import (
	"context"

	"github.com/bsv-blockchain/go-sdk/transaction"

	"github.com/mnee-xyz/mnee-go/tx"
)

// Mock collaborators for deterministic tests. All function fields must be
// set before the corresponding method is called.

type MockUTXOSource struct {
	TokenUTXOsFn func(ctx context.Context, address, op string) ([]*tx.TokenUTXO, error)
	Calls        int
}

func (m *MockUTXOSource) TokenUTXOs(ctx context.Context, address, op string) ([]*tx.TokenUTXO, error) {
	m.Calls++
	return m.TokenUTXOsFn(ctx, address, op)
}

type MockChainDataSource struct {
	FetchTransactionFn func(ctx context.Context, txid string) (*transaction.Transaction, error)
	Calls              int
}

func (m *MockChainDataSource) FetchTransaction(ctx context.Context, txid string) (*transaction.Transaction, error) {
	m.Calls++
	return m.FetchTransactionFn(ctx, txid)
}

type MockCosignerClient struct {
	CosignFn func(ctx context.Context, base64Tx string) (string, error)
	Calls    int
}

func (m *MockCosignerClient) Cosign(ctx context.Context, base64Tx string) (string, error) {
	m.Calls++
	return m.CosignFn(ctx, base64Tx)
}

type MockBroadcaster struct {
	BroadcastFn func(ctx context.Context, rawTx []byte) (string, error)
	Calls       int
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	m.Calls++
	return m.BroadcastFn(ctx, rawTx)
}

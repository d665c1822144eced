package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnee-xyz/mnee-go/tx"
)

func TestChunkAddresses(t *testing.T) {
	addrs := []string{"a", "b", "c", "d", "e"}

	chunks := chunkAddresses(addrs, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"a", "b"}, chunks[0])
	assert.Equal(t, []string{"c", "d"}, chunks[1])
	assert.Equal(t, []string{"e"}, chunks[2])

	assert.Len(t, chunkAddresses(addrs, 10), 1)
	assert.Empty(t, chunkAddresses(nil, 3))
}

func TestClient_TokenUTXOsBatch(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		address := strings.TrimPrefix(r.URL.Path, "/v1/utxos/")
		mu.Lock()
		seen[address]++
		mu.Unlock()
		utxos := []*tx.TokenUTXO{{TxID: "tx-" + address, Address: address, Amount: 100}}
		require.NoError(t, json.NewEncoder(w).Encode(utxos))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	got, err := c.TokenUTXOsBatch(context.Background(), []string{"a1", "a2", "a3"}, "")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// results follow input order regardless of completion order
	assert.Equal(t, "a1", got[0].Address)
	assert.Equal(t, "a2", got[1].Address)
	assert.Equal(t, "a3", got[2].Address)
	assert.Len(t, seen, 3)
}

func TestClient_TokenUTXOsBatch_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/bad") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode([]*tx.TokenUTXO{}))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.TokenUTXOsBatch(context.Background(), []string{"ok", "bad", "ok2"}, "")
	require.Error(t, err)
}

func TestClient_Balance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utxos := []*tx.TokenUTXO{{Amount: 250}, {Amount: 750}}
		require.NoError(t, json.NewEncoder(w).Encode(utxos))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	total, err := c.Balance(context.Background(), []string{"a1", "a2"})
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), total)
}

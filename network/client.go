// Package network implements the HTTP collaborators the engine consumes:
// configuration and UTXO lookups against the token index, source
// transaction fetches, cosigner submission, and broadcast. One Client
// serves all four capabilities.
package network

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bsv-blockchain/go-sdk/transaction"

	"github.com/mnee-xyz/mnee-go/config"
	"github.com/mnee-xyz/mnee-go/engine"
	"github.com/mnee-xyz/mnee-go/tx"
)

// Client is a REST client for the token index and cosigner service.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Compile-time checks that Client implements the engine collaborator
// capabilities.
var (
	_ engine.UTXOSource      = (*Client)(nil)
	_ engine.ChainDataSource = (*Client)(nil)
	_ engine.CosignerClient  = (*Client)(nil)
	_ engine.Broadcaster     = (*Client)(nil)
)

// NewClient creates a client for the service at baseURL, authenticating
// every call with apiKey. The client maintains a connection pool for reuse.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// endpoint joins the base URL with a path and attaches the auth token.
func (c *Client) endpoint(path string) string {
	u := c.baseURL + path
	if c.apiKey != "" {
		u += "?auth_token=" + url.QueryEscape(c.apiKey)
	}
	return u
}

// do executes one JSON exchange. A non-2xx status surfaces as
// *engine.HTTPError so callers can branch on the status code. If out is
// nil the response body is discarded.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %w", ErrRequestFailed, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &engine.HTTPError{Status: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
	}
	return nil
}

// Config fetches the engine configuration from the service.
func (c *Client) Config(ctx context.Context) (*config.Config, error) {
	var cfg config.Config
	if err := c.do(ctx, http.MethodGet, "/v1/config", nil, &cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return &cfg, nil
}

// TokenUTXOs lists unspent token outputs for an address. op filters by
// token operation; empty means no filter.
func (c *Client) TokenUTXOs(ctx context.Context, address, op string) ([]*tx.TokenUTXO, error) {
	path := "/v1/utxos/" + url.PathEscape(address)
	var utxos []*tx.TokenUTXO
	if err := c.do(ctx, http.MethodGet, path, nil, &utxos); err != nil {
		return nil, err
	}
	if op == "" {
		return utxos, nil
	}
	filtered := utxos[:0]
	for _, u := range utxos {
		if u.Op == op {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// rawTxEnvelope is the wire form of raw transaction payloads.
type rawTxEnvelope struct {
	RawTx string `json:"rawtx"`
}

type broadcastResponse struct {
	TxID string `json:"txid"`
}

// FetchTransaction fetches a full transaction by txid. A missing
// transaction fails with engine.ErrTxNotFound.
func (c *Client) FetchTransaction(ctx context.Context, txid string) (*transaction.Transaction, error) {
	var env rawTxEnvelope
	err := c.do(ctx, http.MethodGet, "/v1/tx/"+url.PathEscape(txid), nil, &env)
	if err != nil {
		var httpErr *engine.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", engine.ErrTxNotFound, txid)
		}
		return nil, err
	}

	raw, err := hex.DecodeString(env.RawTx)
	if err != nil {
		return nil, fmt.Errorf("%w: rawtx is not hex: %w", ErrInvalidResponse, err)
	}
	t, err := transaction.NewTransactionFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return t, nil
}

// Cosign submits a base64 transaction for counter-signature and returns
// the countersigned transaction. HTTP failures pass through as
// *engine.HTTPError for the engine's status mapping.
func (c *Client) Cosign(ctx context.Context, base64Tx string) (string, error) {
	var resp rawTxEnvelope
	if err := c.do(ctx, http.MethodPost, "/v1/transfer", rawTxEnvelope{RawTx: base64Tx}, &resp); err != nil {
		return "", err
	}
	if resp.RawTx == "" {
		return "", fmt.Errorf("%w: empty cosigned transaction", ErrInvalidResponse)
	}
	return resp.RawTx, nil
}

// Broadcast submits a serialized transaction to the ledger and returns its
// txid.
func (c *Client) Broadcast(ctx context.Context, rawTx []byte) (string, error) {
	var resp broadcastResponse
	in := rawTxEnvelope{RawTx: hex.EncodeToString(rawTx)}
	if err := c.do(ctx, http.MethodPost, "/v1/broadcast", in, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBroadcastRejected, err)
	}
	if resp.TxID == "" {
		return "", fmt.Errorf("%w: no txid in response", ErrInvalidResponse)
	}
	return resp.TxID, nil
}

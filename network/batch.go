package network

import (
	"context"
	"sync"

	"github.com/mnee-xyz/mnee-go/tx"
)

// batchWorkers bounds the number of concurrent UTXO queries in a batch.
const batchWorkers = 4

// chunkAddresses splits addresses into slices of at most size.
func chunkAddresses(addresses []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var chunks [][]string
	for size < len(addresses) {
		chunks = append(chunks, addresses[:size])
		addresses = addresses[size:]
	}
	if len(addresses) > 0 {
		chunks = append(chunks, addresses[:])
	}
	return chunks
}

// TokenUTXOsBatch fetches the unspent token outputs of several addresses at
// once. Queries run concurrently with bounded parallelism. Results keep the
// order of the input addresses. The first failed query aborts the batch.
func (c *Client) TokenUTXOsBatch(ctx context.Context, addresses []string, op string) ([]*tx.TokenUTXO, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]*tx.TokenUTXO, len(addresses))
	sem := make(chan struct{}, batchWorkers)
	errOnce := sync.Once{}
	var firstErr error
	var wg sync.WaitGroup

	for i, address := range addresses {
		wg.Add(1)
		go func(i int, address string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			utxos, err := c.TokenUTXOs(ctx, address, op)
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[i] = utxos
		}(i, address)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	var all []*tx.TokenUTXO
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// Balance sums the unspent token amounts over a set of addresses, chunking
// the queries so large wallets stay within request limits.
func (c *Client) Balance(ctx context.Context, addresses []string) (uint64, error) {
	var total uint64
	for _, chunk := range chunkAddresses(addresses, 20) {
		utxos, err := c.TokenUTXOsBatch(ctx, chunk, "")
		if err != nil {
			return 0, err
		}
		for _, u := range utxos {
			total += u.Amount
		}
	}
	return total, nil
}

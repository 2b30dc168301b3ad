// Package batcher implements C7: groups signed raw transactions into
// JSON-RPC batches of size B and posts them concurrently, one in-flight
// HTTP request per batch.
package batcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/dando385/chainload/internal/observer"
	"github.com/dando385/chainload/internal/rpcclient"
)

// Result is the outcome of submitting one batch run: successfully
// submitted transaction hashes and the errors for any that failed, either
// at the per-element level (RPC returned an error object) or the
// whole-batch level (the HTTP request itself failed).
type Result struct {
	Hashes []string
	Errors []string
}

// Batcher submits signed raw transactions at maximum JSON-RPC throughput.
type Batcher struct {
	Client    *rpcclient.Client
	BatchSize int
	Observer  observer.Observer
}

// New builds a Batcher with a no-op observer.
func New(client *rpcclient.Client, batchSize int) *Batcher {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Batcher{Client: client, BatchSize: batchSize, Observer: observer.Nop{}}
}

// Submit partitions raws into batches of BatchSize (the last may be
// short), posts every batch concurrently via eth_sendRawTransaction, and
// waits for all batches to complete before returning. A whole-batch
// network failure is logged and its transactions counted as errors; the
// run proceeds with whatever batches did succeed, per spec.md §4.7.
func (b *Batcher) Submit(ctx context.Context, raws []string) (*Result, error) {
	total := len(raws)
	batches := partition(raws, b.BatchSize)

	var mu sync.Mutex
	result := &Result{}

	g, gctx := errgroup.WithContext(ctx)
	for batchIdx, batch := range batches {
		batchIdx, batch := batchIdx, batch
		g.Go(func() error {
			b.Observer.OnItemStarted("submit", batchIdx*b.BatchSize, total)
			elems := make([]rpcclient.BatchElem, len(batch))
			hashResults := make([]string, len(batch))
			for i, raw := range batch {
				elems[i] = rpcclient.BatchElem{
					Method: "eth_sendRawTransaction",
					Args:   []interface{}{raw},
					Result: &hashResults[i],
				}
			}
			if err := b.Client.Batch(gctx, elems); err != nil {
				mu.Lock()
				for range batch {
					result.Errors = append(result.Errors, fmt.Sprintf("batch %d: %v", batchIdx, err))
				}
				mu.Unlock()
				log.Error("batch submission failed, continuing with partial output", "batch", batchIdx, "size", len(batch), "err", err)
				b.Observer.OnItemCompleted("submit", batchIdx*b.BatchSize, total)
				return nil
			}
			mu.Lock()
			for i, elem := range elems {
				if elem.Error != nil {
					result.Errors = append(result.Errors, elem.Error.Error())
					continue
				}
				result.Hashes = append(result.Hashes, hashResults[i])
			}
			mu.Unlock()
			b.Observer.OnItemCompleted("submit", batchIdx*b.BatchSize, total)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batcher: submit: %w", err)
	}
	return result, nil
}

func partition(raws []string, size int) [][]string {
	if len(raws) == 0 {
		return nil
	}
	var out [][]string
	for i := 0; i < len(raws); i += size {
		end := i + size
		if end > len(raws) {
			end = len(raws)
		}
		out = append(out, raws[i:end])
	}
	return out
}

// Package engine orchestrates the sequence spec.md §4.6 describes: fetch
// starting nonces for ready accounts, invoke runtime construction (which
// signs as it builds, per spec.md §4.6's "skip on sign failure" contract),
// and hand the signed hex blobs to the batcher.
package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/sync/errgroup"

	"github.com/dando385/chainload/internal/observer"
	"github.com/dando385/chainload/internal/rpcclient"
	"github.com/dando385/chainload/internal/walletkit"
	"github.com/dando385/chainload/internal/workload"
)

// Engine ties together nonce fetch, construction, and signing for one run.
type Engine struct {
	Client   *rpcclient.Client
	Wallet   *walletkit.Wallet
	Runtime  workload.Runtime
	Observer observer.Observer
}

// New builds an Engine with a no-op observer; callers needing progress
// reporting should set e.Observer afterward.
func New(client *rpcclient.Client, wallet *walletkit.Wallet, runtime workload.Runtime) *Engine {
	return &Engine{Client: client, Wallet: wallet, Runtime: runtime, Observer: observer.Nop{}}
}

// SyncNonces fetches the current on-chain pending nonce for every ready
// account in parallel, per spec.md §4.6(a)/§5(a).
func (e *Engine) SyncNonces(ctx context.Context, ready []uint32) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, idx := range ready {
		idx := idx
		g.Go(func() error {
			acc, err := e.Wallet.Derive(idx)
			if err != nil {
				return err
			}
			nonce, err := e.Client.PendingNonceAt(gctx, acc.Address)
			if err != nil {
				return fmt.Errorf("engine: nonce for account %d: %w", idx, err)
			}
			acc.Nonce = nonce
			return nil
		})
	}
	return g.Wait()
}

// BuildRawTransactions runs (b)+(c): ask the runtime to construct and sign
// n transactions against the ready accounts, then hex-encode each signed
// transaction's RLP for the batcher, per spec.md §4.6(d). Fewer than n
// hex strings may come back if the runtime skipped any sign failures.
func (e *Engine) BuildRawTransactions(ctx context.Context, ready []uint32, n uint64, chainID *big.Int) ([]string, error) {
	e.Observer.OnItemStarted("construct", 0, int(n))
	txs, err := e.Runtime.ConstructTransactions(ctx, e.Wallet, ready, n, chainID)
	if err != nil {
		return nil, fmt.Errorf("engine: construct transactions: %w", err)
	}
	e.Observer.OnItemCompleted("construct", len(txs), int(n))

	raws := make([]string, 0, len(txs))
	for i, tx := range txs {
		rlpBytes, err := tx.MarshalBinary()
		if err != nil {
			fmt.Printf("WARN: skipping tx %d: encode failed: %v\n", i, err)
			continue
		}
		raws = append(raws, hexutil.Encode(rlpBytes))
	}
	return raws, nil
}

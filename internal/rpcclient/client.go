// Package rpcclient wraps a single JSON-RPC endpoint for both typed
// single-shot calls (via ethclient) and raw batched calls (via the
// underlying *rpc.Client), matching the calls an EVM stress run needs:
// gas estimation, nonce lookups, raw transaction submission, receipt and
// block retrieval, and the non-standard txpool_status probe.
package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sethvargo/go-retry"
)

// Client is a thin, retry-aware façade over one node endpoint. It is safe
// for concurrent use; the underlying rpc.Client multiplexes HTTP requests
// over a keep-alive connection pool.
type Client struct {
	eth *ethclient.Client
	rpc *rpc.Client
	url string
}

// Dial connects to the given JSON-RPC endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	rc, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: dial %s: %w", url, err)
	}
	return &Client{eth: ethclient.NewClient(rc), rpc: rc, url: url}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() { c.rpc.Close() }

// EthClient exposes the underlying *ethclient.Client, which already
// satisfies bind.ContractBackend, for contract deployment and binding
// (internal/contracts). Everything else in this package goes through the
// methods below instead; the typed single-shot ones are retry-wrapped,
// while WaitMined, TxPoolStatus and Batch are not.
func (c *Client) EthClient() *ethclient.Client { return c.eth }

// URL returns the endpoint this client was dialed against.
func (c *Client) URL() string { return c.url }

func withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff, err := retry.NewExponential(100 * time.Millisecond)
	if err != nil {
		// Only reachable if the constant above were invalid; treat as a
		// programmer error rather than a runtime condition to handle.
		panic(fmt.Sprintf("rpcclient: invalid backoff config: %v", err))
	}
	b := retry.WithMaxRetries(3, backoff)
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			log.Debug("rpc call retrying", "op", op, "err", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rpcclient: %s: %w", op, err)
	}
	return nil
}

// EstimateGas estimates the gas cost of a call, retrying transient errors.
func (c *Client) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	var out uint64
	err := withRetry(ctx, "eth_estimateGas", func(ctx context.Context) error {
		g, err := c.eth.EstimateGas(ctx, call)
		if err != nil {
			return err
		}
		out = g
		return nil
	})
	return out, err
}

// SuggestGasPrice returns the node's current suggested gas price.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var out *big.Int
	err := withRetry(ctx, "eth_gasPrice", func(ctx context.Context) error {
		p, err := c.eth.SuggestGasPrice(ctx)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// PendingNonceAt returns the next nonce a pending-pool-aware node would
// assign to addr.
func (c *Client) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	var out uint64
	err := withRetry(ctx, "eth_getTransactionCount", func(ctx context.Context) error {
		n, err := c.eth.PendingNonceAt(ctx, addr)
		if err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// BalanceAt returns addr's native balance at the given block (nil = latest).
func (c *Client) BalanceAt(ctx context.Context, addr common.Address, blockNum *big.Int) (*big.Int, error) {
	var out *big.Int
	err := withRetry(ctx, "eth_getBalance", func(ctx context.Context) error {
		b, err := c.eth.BalanceAt(ctx, addr, blockNum)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

// ChainID returns the node's chain id, used for EIP-155 signing.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var out *big.Int
	err := withRetry(ctx, "eth_chainId", func(ctx context.Context) error {
		id, err := c.eth.ChainID(ctx)
		if err != nil {
			return err
		}
		out = id
		return nil
	})
	return out, err
}

// SendTransaction submits a single signed transaction (used by the funding
// paths, which prioritize correctness over batch throughput).
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return withRetry(ctx, "eth_sendRawTransaction", func(ctx context.Context) error {
		return c.eth.SendTransaction(ctx, tx)
	})
}

// WaitMined blocks until tx is mined or the deadline elapses, polling its
// receipt every 250ms.
func (c *Client) WaitMined(ctx context.Context, hash common.Hash, timeout time.Duration) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("rpcclient: wait for %s: %w", hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// BlockInfo is the subset of block header/body data the collector needs.
type BlockInfo struct {
	Number    uint64
	Timestamp uint64
	TxCount   int
	GasUsed   uint64
	GasLimit  uint64
}

// GetBlockByNumber fetches header + tx count for block n.
func (c *Client) GetBlockByNumber(ctx context.Context, n uint64) (*BlockInfo, error) {
	var out *BlockInfo
	err := withRetry(ctx, "eth_getBlockByNumber", func(ctx context.Context) error {
		b, err := c.eth.BlockByNumber(ctx, new(big.Int).SetUint64(n))
		if err != nil {
			return err
		}
		out = &BlockInfo{
			Number:    b.NumberU64(),
			Timestamp: b.Time(),
			TxCount:   len(b.Transactions()),
			GasUsed:   b.GasUsed(),
			GasLimit:  b.GasLimit(),
		}
		return nil
	})
	return out, err
}

// BlockNumber returns the node's current head block number; used to pace
// receipt-gathering sweeps against new blocks without a websocket
// subscription (the CLI surface only ever takes an http(s) endpoint).
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var out uint64
	err := withRetry(ctx, "eth_blockNumber", func(ctx context.Context) error {
		n, err := c.eth.BlockNumber(ctx)
		if err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// TxPoolStatus is the decoded result of the non-standard txpool_status RPC.
type TxPoolStatus struct {
	Pending uint64
	Queued  uint64
}

// flexUint decodes either a JSON number or a "0x..." hex string, since
// different node implementations emit txpool_status in both forms.
type flexUint uint64

func (f *flexUint) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		var v uint64
		if _, err := fmt.Sscanf(asString, "0x%x", &v); err != nil {
			// also accept a bare decimal string
			if _, err2 := fmt.Sscanf(asString, "%d", &v); err2 != nil {
				return fmt.Errorf("flexUint: cannot parse %q", asString)
			}
		}
		*f = flexUint(v)
		return nil
	}
	var asNumber uint64
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return fmt.Errorf("flexUint: cannot parse %s", data)
	}
	*f = flexUint(asNumber)
	return nil
}

// TxPoolStatus queries txpool_status. Not all nodes expose this method;
// callers should treat errors as transient (see internal/collector).
func (c *Client) TxPoolStatus(ctx context.Context) (TxPoolStatus, error) {
	var raw struct {
		Pending flexUint `json:"pending"`
		Queued  flexUint `json:"queued"`
	}
	if err := c.rpc.CallContext(ctx, &raw, "txpool_status"); err != nil {
		return TxPoolStatus{}, fmt.Errorf("rpcclient: txpool_status: %w", err)
	}
	return TxPoolStatus{Pending: uint64(raw.Pending), Queued: uint64(raw.Queued)}, nil
}

// BatchElem mirrors rpc.BatchElem, keeping the distributor/batcher/collector
// packages from importing go-ethereum's rpc package directly.
type BatchElem struct {
	Method string
	Args   []interface{}
	Result interface{}
	Error  error
}

// Batch posts every elem as a single JSON-RPC batch (one HTTP POST carrying
// a JSON array), preserving request/response correspondence by id. This is
// the core primitive behind C7 (raw tx submission) and C8 (receipt sweeps).
func (c *Client) Batch(ctx context.Context, elems []BatchElem) error {
	if len(elems) == 0 {
		return nil
	}
	batch := make([]rpc.BatchElem, len(elems))
	for i, e := range elems {
		batch[i] = rpc.BatchElem{Method: e.Method, Args: e.Args, Result: e.Result}
	}
	if err := c.rpc.BatchCallContext(ctx, batch); err != nil {
		return fmt.Errorf("rpcclient: batch call: %w", err)
	}
	for i := range batch {
		elems[i].Error = batch[i].Error
	}
	return nil
}

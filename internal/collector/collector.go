// Package collector implements C8: waits for mempool drain, gathers
// receipts (batched sweeps with an individual fallback tier), reconstructs
// block timings, and computes aggregate throughput/utilization statistics.
package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/dando385/chainload/internal/chainerr"
	"github.com/dando385/chainload/internal/observer"
	"github.com/dando385/chainload/internal/rpcclient"
)

// TxRecord is one included transaction: its hash and including block
// number. BlockNumber is 0 until a successful receipt fetch populates it.
type TxRecord struct {
	Hash        string
	BlockNumber uint64
}

// BlockStat is the per-block data the report needs.
type BlockStat struct {
	Number         uint64
	CreatedAt      uint64
	NumTxs         int
	GasUsed        uint64
	GasLimit       uint64
	GasUtilization float64 // percent, two decimals
	blockTime      uint64  // seconds; 0 means unbounded/skipped per BlockTimePolicy
}

// Report is the final aggregate the collector produces.
type Report struct {
	AverageTPS float64
	MinTPS     float64
	MaxTPS     float64
	Blocks     []BlockStat
	Errors     []string
}

// Collector gathers receipts for a submitted batch of transaction hashes
// and computes throughput statistics.
type Collector struct {
	Client    *rpcclient.Client
	BatchSize int
	Observer  observer.Observer
}

// New builds a Collector with a no-op observer.
func New(client *rpcclient.Client, batchSize int) *Collector {
	return &Collector{Client: client, BatchSize: batchSize, Observer: observer.Nop{}}
}

// DrainMempool polls txpool_status every 2s until pending and queued both
// read zero, or the overall deadline (max(5s, submitted*500ms)) elapses.
// A polling error is treated as transient: the node may not expose
// txpool_status at all, in which case the collector simply relies on the
// timeout, per spec.md §4.8 Phase 1.
func (c *Collector) DrainMempool(ctx context.Context, submitted int) error {
	deadline := 5 * time.Second
	if d := time.Duration(submitted) * 500 * time.Millisecond; d > deadline {
		deadline = d
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		status, err := c.Client.TxPoolStatus(ctx)
		if err != nil {
			log.Debug("txpool_status unavailable, relying on timeout", "err", err)
		} else if status.Pending == 0 && status.Queued == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			log.Warn("mempool drain timed out", "submitted", submitted)
			return nil
		case <-ticker.C:
		}
	}
}

// GatherReceipts runs Phases 2-3: batched sweeps up to a bounded iteration
// budget, then an individual-fallback tier for anything still outstanding.
// Returns the included transaction records and the accumulated error log.
// A status=0x0 receipt is fatal and aborts the run, per spec.md §4.8 Phase 2.
func (c *Collector) GatherReceipts(ctx context.Context, hashes []string, n uint64) ([]TxRecord, []string, error) {
	var errs []string
	outstanding := append([]string(nil), hashes...)
	var included []TxRecord

	budget := int(math.Ceil(0.025 * float64(n)))
	if budget < 1 {
		budget = 1
	}

	for sweep := 0; sweep < budget && len(outstanding) > 0; sweep++ {
		c.Observer.OnItemStarted("receipts", sweep, budget)
		got, remaining, err := c.sweepOnce(ctx, outstanding)
		if err != nil {
			return nil, nil, err
		}
		included = append(included, got...)
		outstanding = remaining
		c.Observer.OnItemCompleted("receipts", sweep, budget)
		if len(outstanding) == 0 {
			break
		}
		if err := c.waitOneBlock(ctx); err != nil {
			log.Debug("block-wait pacing failed, continuing sweeps", "err", err)
		}
	}

	for _, hash := range outstanding {
		record, err := c.fallbackOne(ctx, hash)
		if errors.Is(err, chainerr.ErrTransactionExecutionFailed) {
			return nil, nil, err
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", hash, err))
			continue
		}
		included = append(included, record)
	}

	return included, errs, nil
}

func (c *Collector) sweepOnce(ctx context.Context, hashes []string) ([]TxRecord, []string, error) {
	type receiptResult struct {
		BlockNumber string `json:"blockNumber"`
		Status      string `json:"status"`
	}
	results := make([]*receiptResult, len(hashes))
	elems := make([]rpcclient.BatchElem, len(hashes))
	for i, h := range hashes {
		elems[i] = rpcclient.BatchElem{Method: "eth_getTransactionReceipt", Args: []interface{}{h}, Result: &results[i]}
	}
	if err := c.Client.Batch(ctx, elems); err != nil {
		// a whole-batch failure is transient: every hash stays outstanding
		// for the next sweep or the fallback tier.
		log.Warn("receipt sweep failed, hashes stay outstanding", "count", len(hashes), "err", err)
		return nil, hashes, nil
	}

	var included []TxRecord
	var remaining []string
	for i, h := range hashes {
		if elems[i].Error != nil || results[i] == nil || results[i].BlockNumber == "" {
			remaining = append(remaining, h)
			continue
		}
		if results[i].Status == "0x0" {
			return nil, nil, fmt.Errorf("collector: tx %s: %w", h, chainerr.ErrTransactionExecutionFailed)
		}
		blockNum, err := parseHexUint(results[i].BlockNumber)
		if err != nil {
			remaining = append(remaining, h)
			continue
		}
		included = append(included, TxRecord{Hash: h, BlockNumber: blockNum})
	}
	return included, remaining, nil
}

func (c *Collector) waitOneBlock(ctx context.Context) error {
	start, err := c.Client.BlockNumber(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cur, err := c.Client.BlockNumber(ctx)
			if err != nil {
				continue
			}
			if cur > start {
				return nil
			}
		}
	}
}

func (c *Collector) fallbackOne(ctx context.Context, hash string) (TxRecord, error) {
	// individual fallback uses the typed ethclient path, which already
	// gives us a parsed *types.Receipt rather than the raw JSON map the
	// batched sweep works with.
	h, err := hashFromHex(hash)
	if err != nil {
		return TxRecord{}, err
	}
	receipt, err := c.Client.WaitMined(ctx, h, 30*time.Second)
	if err != nil {
		return TxRecord{}, err
	}
	if receipt.Status == 0 {
		return TxRecord{}, fmt.Errorf("%w: %s", chainerr.ErrTransactionExecutionFailed, hash)
	}
	return TxRecord{Hash: hash, BlockNumber: receipt.BlockNumber.Uint64()}, nil
}

// Aggregate runs Phase 4-5: reconstruct per-block timing from the unique
// set of blocks referenced by included transactions, then compute the
// summary statistics.
func (c *Collector) Aggregate(ctx context.Context, included []TxRecord, errs []string) (*Report, error) {
	blockNums := uniqueBlockNumbers(included)
	cache := make(map[uint64]*rpcclient.BlockInfo)

	for _, b := range blockNums {
		if _, ok := cache[b]; !ok {
			info, err := c.Client.GetBlockByNumber(ctx, b)
			if err != nil {
				return nil, fmt.Errorf("collector: fetch block %d: %w", b, err)
			}
			cache[b] = info
		}
		if b > 0 {
			if _, ok := cache[b-1]; !ok {
				parent, err := c.Client.GetBlockByNumber(ctx, b-1)
				if err != nil {
					return nil, fmt.Errorf("collector: fetch parent block %d: %w", b-1, err)
				}
				cache[b-1] = parent
			}
		}
	}

	stats := make([]BlockStat, 0, len(blockNums))
	for _, b := range blockNums {
		cur := cache[b]
		var parentTS uint64
		if b > 0 {
			parentTS = cache[b-1].Timestamp
		} else {
			parentTS = cur.Timestamp
		}
		blockTime := absDiff(cur.Timestamp, parentTS)
		util := float64(cur.GasUsed) * 10000 / float64(cur.GasLimit)
		util = math.Round(util) / 100
		stats = append(stats, BlockStat{
			Number:         b,
			CreatedAt:      cur.Timestamp,
			NumTxs:         cur.TxCount,
			GasUsed:        cur.GasUsed,
			GasLimit:       cur.GasLimit,
			GasUtilization: util,
			blockTime:      blockTime,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Number < stats[j].Number })

	report := &Report{Blocks: stats, Errors: errs}
	if len(stats) == 0 {
		return report, nil
	}

	var totalTx, totalTime uint64
	var minTPS, maxTPS float64
	haveBounded := false
	var utilSum float64
	for _, s := range stats {
		totalTx += uint64(s.NumTxs)
		utilSum += s.GasUtilization
		// BlockTimePolicy: a block with blockTime==0 contributes 1 second
		// to avgTPS's denominator but is excluded from min/max, per
		// spec.md §4.8's recommended deterministic policy.
		if s.blockTime == 0 {
			totalTime += 1
			continue
		}
		totalTime += s.blockTime
		tps := float64(s.NumTxs) / float64(s.blockTime)
		if !haveBounded || tps < minTPS {
			minTPS = tps
		}
		if !haveBounded || tps > maxTPS {
			maxTPS = tps
		}
		haveBounded = true
	}

	if totalTime == 0 {
		report.AverageTPS = 0
	} else {
		report.AverageTPS = math.Ceil(float64(totalTx) / float64(totalTime))
	}
	report.MinTPS = minTPS
	report.MaxTPS = maxTPS
	return report, nil
}

// AvgUtilization is exposed for callers (the report package) that want the
// mean block utilization without recomputing it; it is a derived value, not
// stored state, so it recomputes from Blocks each call.
func (r *Report) AvgUtilization() float64 {
	if len(r.Blocks) == 0 {
		return 0
	}
	var sum float64
	for _, b := range r.Blocks {
		sum += b.GasUtilization
	}
	return sum / float64(len(r.Blocks))
}

func uniqueBlockNumbers(records []TxRecord) []uint64 {
	seen := make(map[uint64]struct{})
	var out []uint64
	for _, r := range records {
		if r.BlockNumber == 0 {
			continue
		}
		if _, ok := seen[r.BlockNumber]; !ok {
			seen[r.BlockNumber] = struct{}{}
			out = append(out, r.BlockNumber)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func absDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func parseHexUint(s string) (uint64, error) {
	var v uint64
	if _, err := fmt.Sscanf(s, "0x%x", &v); err != nil {
		return 0, fmt.Errorf("collector: parse hex %q: %w", s, err)
	}
	return v, nil
}

func hashFromHex(s string) (common.Hash, error) {
	if len(s) != 66 {
		return common.Hash{}, fmt.Errorf("collector: malformed tx hash %q", s)
	}
	return common.HexToHash(s), nil
}

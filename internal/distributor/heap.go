package distributor

import (
	"container/heap"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// shortfallEntry is one sub-account's funding gap: how much more it needs
// of whatever unit the caller is tracking (native wei for C3, whole tokens
// for C4).
type shortfallEntry struct {
	Index     uint32
	Address   common.Address
	Shortfall *big.Int
}

// shortfallQueue is a min-heap ordered by ascending shortfall, then by
// index for determinism on ties. Popping it repeatedly yields the
// cheapest-to-fund accounts first, maximizing how many sub-accounts a
// limited root balance can bring online — the same "order pool entries by
// a numeric key and evict/admit from one end" shape as go-ethereum's
// blobpool evict-heap (core/txpool/blobpool).
type shortfallQueue []*shortfallEntry

func (q shortfallQueue) Len() int { return len(q) }

func (q shortfallQueue) Less(i, j int) bool {
	c := q[i].Shortfall.Cmp(q[j].Shortfall)
	if c != 0 {
		return c < 0
	}
	return q[i].Index < q[j].Index
}

func (q shortfallQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *shortfallQueue) Push(x interface{}) {
	*q = append(*q, x.(*shortfallEntry))
}

func (q *shortfallQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

var _ heap.Interface = (*shortfallQueue)(nil)

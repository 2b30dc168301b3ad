package distributor

import (
	"container/heap"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestShortfallQueueOrdersAscending(t *testing.T) {
	q := &shortfallQueue{}
	heap.Init(q)
	heap.Push(q, &shortfallEntry{Index: 3, Shortfall: big.NewInt(50)})
	heap.Push(q, &shortfallEntry{Index: 1, Shortfall: big.NewInt(10)})
	heap.Push(q, &shortfallEntry{Index: 2, Shortfall: big.NewInt(30)})

	var order []uint32
	for q.Len() > 0 {
		order = append(order, heap.Pop(q).(*shortfallEntry).Index)
	}
	require.Equal(t, []uint32{1, 2, 3}, order)
}

func TestShortfallQueueTieBreaksOnIndex(t *testing.T) {
	q := &shortfallQueue{}
	heap.Init(q)
	heap.Push(q, &shortfallEntry{Index: 5, Shortfall: big.NewInt(10), Address: common.Address{}})
	heap.Push(q, &shortfallEntry{Index: 2, Shortfall: big.NewInt(10), Address: common.Address{}})

	first := heap.Pop(q).(*shortfallEntry)
	require.Equal(t, uint32(2), first.Index)
}

package workload

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dando385/chainload/internal/walletkit"
)

const testMnemonic = "test test test test test test test test test test test junk"

func TestEOAConstructTransactionsRoundRobins(t *testing.T) {
	w, err := walletkit.NewWallet(testMnemonic)
	require.NoError(t, err)

	e := NewEOA(nil)
	e.gasLimit = 21000
	e.gasPrice = big.NewInt(1)

	ready := []uint32{1, 2, 3}
	for _, idx := range ready {
		_, err := w.Derive(idx)
		require.NoError(t, err)
	}

	txs, err := e.ConstructTransactions(context.Background(), w, ready, 4, big.NewInt(1337))
	require.NoError(t, err)
	require.Len(t, txs, 4)

	acc1, _ := w.Derive(1)
	require.Equal(t, uint64(0), txs[0].Nonce())
	require.Equal(t, acc1.Nonce, uint64(2), "account 1 is sender for tx 0 and 3, so its nonce should have advanced twice")
}

func TestEOAConstructTransactionsRequiresReadyAccounts(t *testing.T) {
	e := NewEOA(nil)
	_, err := e.ConstructTransactions(context.Background(), nil, nil, 1, big.NewInt(1))
	require.Error(t, err)
}

func TestEOAGetValueIsFixed(t *testing.T) {
	e := NewEOA(nil)
	require.Equal(t, 0, e.GetValue().Cmp(intrinsicValue))
}

// Package distributor implements the native (C3) and ERC-20 (C4) funding
// passes that bring sub-accounts up to the balance a workload run requires
// before any workload transaction is constructed.
package distributor

import (
	"container/heap"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"math/big"

	"github.com/dando385/chainload/internal/chainerr"
	"github.com/dando385/chainload/internal/rpcclient"
	"github.com/dando385/chainload/internal/signer"
	"github.com/dando385/chainload/internal/txparams"
	"github.com/dando385/chainload/internal/walletkit"
)

// Native funds sub-accounts with native balance from the root account.
type Native struct {
	Client  *rpcclient.Client
	Wallet  *walletkit.Wallet
	ChainID *big.Int
}

// Result is the outcome of a native funding pass.
type Result struct {
	// Ready holds the sorted indices of sub-accounts with sufficient
	// native balance to sustain the full workload, whether they needed
	// topping up or were already funded.
	Ready []uint32
	// Required is R, the per-account native balance every ready index is
	// now guaranteed to hold.
	Required *big.Int
}

// Fund implements spec C3: compute the per-account requirement R = N *
// (gasPrice*gasLimit + value), estimate the top-up transaction cost D,
// greedily fund the smallest shortfalls first while the root can still
// afford one more top-up, and report which sub-accounts are ready.
func (n *Native) Fund(ctx context.Context, root *walletkit.Account, subIndices []uint32, txCount uint64, base txparams.Base) (*Result, error) {
	if txCount == 0 {
		return &Result{Required: big.NewInt(0)}, nil
	}

	required := new(big.Int).Mul(base.Cost(), new(big.Int).SetUint64(txCount))

	rootBalance, err := n.Client.BalanceAt(ctx, root.Address, nil)
	if err != nil {
		return nil, fmt.Errorf("distributor: root balance: %w", err)
	}

	var firstSub common.Address
	if len(subIndices) > 0 {
		acc, err := n.Wallet.Derive(subIndices[0])
		if err != nil {
			return nil, err
		}
		firstSub = acc.Address
	}
	d, err := n.Client.EstimateGas(ctx, ethereum.CallMsg{
		From:  root.Address,
		To:    &firstSub,
		Value: required,
	})
	if err != nil {
		return nil, fmt.Errorf("distributor: estimate top-up gas: %w", err)
	}
	gasPrice, err := n.Client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("distributor: gas price: %w", err)
	}
	topUpCost := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(d))

	q := &shortfallQueue{}
	heap.Init(q)
	ready := make([]uint32, 0, len(subIndices))

	for _, idx := range subIndices {
		acc, err := n.Wallet.Derive(idx)
		if err != nil {
			return nil, err
		}
		balance, err := n.Client.BalanceAt(ctx, acc.Address, nil)
		if err != nil {
			return nil, fmt.Errorf("distributor: balance of account %d: %w", idx, err)
		}
		if balance.Cmp(required) >= 0 {
			ready = append(ready, idx)
			continue
		}
		shortfall := new(big.Int).Sub(required, balance)
		heap.Push(q, &shortfallEntry{Index: idx, Address: acc.Address, Shortfall: shortfall})
	}

	hadShortfalls := q.Len() > 0
	rootNonce, err := n.Client.PendingNonceAt(ctx, root.Address)
	if err != nil {
		return nil, fmt.Errorf("distributor: root nonce: %w", err)
	}
	root.Nonce = rootNonce

	funded := 0
	for q.Len() > 0 && rootBalance.Cmp(topUpCost) > 0 {
		entry := heap.Pop(q).(*shortfallEntry)
		tx, err := signer.SignLegacy(root, n.ChainID, root.IncrNonce(), &entry.Address, entry.Shortfall, d, gasPrice, nil)
		if err != nil {
			return nil, fmt.Errorf("distributor: sign top-up for account %d: %w", entry.Index, err)
		}
		if err := n.Client.SendTransaction(ctx, tx); err != nil {
			return nil, fmt.Errorf("distributor: send top-up for account %d: %w", entry.Index, err)
		}
		if _, err := n.Client.WaitMined(ctx, tx.Hash(), 60*time.Second); err != nil {
			return nil, fmt.Errorf("distributor: await top-up for account %d: %w", entry.Index, err)
		}
		rootBalance.Sub(rootBalance, entry.Shortfall)
		ready = append(ready, entry.Index)
		funded++
		log.Info("funded sub-account", "index", entry.Index, "shortfall", entry.Shortfall)
	}

	if funded == 0 && hadShortfalls {
		return nil, fmt.Errorf("distributor: %w", chainerr.ErrInsufficientFunds)
	}

	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
	return &Result{Ready: ready, Required: required}, nil
}

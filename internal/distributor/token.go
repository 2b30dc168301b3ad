package distributor

import (
	"container/heap"
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/log"

	"github.com/dando385/chainload/internal/chainerr"
	"github.com/dando385/chainload/internal/contracts"
	"github.com/dando385/chainload/internal/rpcclient"
	"github.com/dando385/chainload/internal/walletkit"
)

const tokenFundTimeout = 60 * time.Second

// Token funds sub-accounts with ERC-20 token balance from the root
// account's holdings, mirroring the native distributor's smallest-shortfall-first
// heap strategy but against an already-deployed token contract.
type Token struct {
	Client  *rpcclient.Client
	Wallet  *walletkit.Wallet
	ChainID *big.Int
	Token   *contracts.Token
}

// Fund implements spec C4: required per-account token balance is
// ceil(N / |ready|); root's token balance is the funding budget.
// Replaces the ready list with the subset actually funded with tokens.
func (t *Token) Fund(ctx context.Context, root *walletkit.Account, ready []uint32, txCount uint64) ([]uint32, error) {
	if txCount == 0 || len(ready) == 0 {
		return ready, nil
	}
	required := ceilDiv(txCount, uint64(len(ready)))
	requiredBig := new(big.Int).SetUint64(required)

	q := &shortfallQueue{}
	heap.Init(q)
	funded := make([]uint32, 0, len(ready))

	for _, idx := range ready {
		acc, err := t.Wallet.Derive(idx)
		if err != nil {
			return nil, err
		}
		balance, err := t.Token.BalanceOf(ctx, acc.Address)
		if err != nil {
			return nil, fmt.Errorf("distributor: token balance of account %d: %w", idx, err)
		}
		if balance.Cmp(requiredBig) >= 0 {
			funded = append(funded, idx)
			continue
		}
		shortfall := new(big.Int).Sub(requiredBig, balance)
		heap.Push(q, &shortfallEntry{Index: idx, Address: acc.Address, Shortfall: shortfall})
	}

	hadShortfalls := q.Len() > 0
	supplierBalance, err := t.Token.BalanceOf(ctx, root.Address)
	if err != nil {
		return nil, fmt.Errorf("distributor: supplier token balance: %w", err)
	}

	rootNonce, err := t.Client.PendingNonceAt(ctx, root.Address)
	if err != nil {
		return nil, fmt.Errorf("distributor: root nonce: %w", err)
	}
	root.Nonce = rootNonce

	topped := 0
	for q.Len() > 0 && supplierBalance.Sign() > 0 {
		entry := heap.Pop(q).(*shortfallEntry)
		amount := entry.Shortfall
		if amount.Cmp(supplierBalance) > 0 {
			amount = new(big.Int).Set(supplierBalance)
		}
		auth, err := bind.NewKeyedTransactorWithChainID(root.Priv, t.ChainID)
		if err != nil {
			return nil, fmt.Errorf("distributor: transactor for root: %w", err)
		}
		auth.Context = ctx
		auth.Nonce = new(big.Int).SetUint64(root.IncrNonce())
		tx, err := t.Token.Transfer(auth, entry.Address, amount)
		if err != nil {
			return nil, fmt.Errorf("distributor: token transfer to account %d: %w", entry.Index, err)
		}
		if _, err := t.Client.WaitMined(ctx, tx.Hash(), tokenFundTimeout); err != nil {
			return nil, fmt.Errorf("distributor: await token transfer to account %d: %w", entry.Index, err)
		}
		supplierBalance.Sub(supplierBalance, amount)
		if amount.Cmp(entry.Shortfall) >= 0 {
			funded = append(funded, entry.Index)
			topped++
		}
		log.Info("funded sub-account with tokens", "index", entry.Index, "amount", amount)
	}

	if topped == 0 && hadShortfalls {
		return nil, fmt.Errorf("distributor: %w", chainerr.ErrInsufficientFunds)
	}

	sort.Slice(funded, func(i, j int) bool { return funded[i] < funded[j] })
	return funded, nil
}

func ceilDiv(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

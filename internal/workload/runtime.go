// Package workload implements the three mode-specific transaction-construction
// runtimes (C5): EOA, ERC20, ERC721. Each follows the same
// Initialize/EstimateBaseTx/GetGasPrice/GetValue/ConstructTransactions
// contract from spec.md §4.5.
package workload

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/dando385/chainload/internal/rpcclient"
	"github.com/dando385/chainload/internal/txparams"
	"github.com/dando385/chainload/internal/walletkit"
)

// intrinsicValue is the per-tx native value the EOA mode transfers: 10^-4
// native units (assuming 18 decimals), per spec.md §3.
var intrinsicValue = new(big.Int).Mul(big.NewInt(1e14), big.NewInt(1))

// Mode names a workload runtime variant.
type Mode string

const (
	ModeEOA    Mode = "EOA"
	ModeERC20  Mode = "ERC20"
	ModeERC721 Mode = "ERC721"
)

// Runtime is the common contract every workload mode implements.
type Runtime interface {
	// Initialize deploys contracts, if any this mode needs. A no-op for EOA.
	Initialize(ctx context.Context, root *walletkit.Account, chainID *big.Int) error
	// EstimateBaseTx sets and returns the base gas limit G.
	EstimateBaseTx(ctx context.Context, root *walletkit.Account) (uint64, error)
	// GetGasPrice sets and returns the observed gas price P.
	GetGasPrice(ctx context.Context) (*big.Int, error)
	// GetValue returns the per-tx intrinsic native value V.
	GetValue() *big.Int
	// Params returns the immutable (G, P, V) tuple once both have been set.
	Params() txparams.Base
	// ConstructTransactions builds, nonce-sequences, and signs n transactions
	// round-robin over the ready accounts.
	ConstructTransactions(ctx context.Context, wallet *walletkit.Wallet, ready []uint32, n uint64, chainID *big.Int) ([]*types.Transaction, error)
	// GetStartMessage returns a cosmetic, mode-specific banner line.
	GetStartMessage() string
}

// base holds the fields every runtime shares: resolved gas parameters and
// the RPC client used to estimate them.
type base struct {
	client   *rpcclient.Client
	gasLimit uint64
	gasPrice *big.Int
	value    *big.Int
}

func (b *base) Params() txparams.Base {
	return txparams.Base{GasLimit: b.gasLimit, GasPrice: b.gasPrice, Value: b.value}
}

func (b *base) GetGasPrice(ctx context.Context) (*big.Int, error) {
	p, err := b.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	b.gasPrice = p
	return p, nil
}


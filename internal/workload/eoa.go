package workload

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/dando385/chainload/internal/rpcclient"
	"github.com/dando385/chainload/internal/signer"
	"github.com/dando385/chainload/internal/walletkit"
)

// EOA constructs plain native-transfer transactions between sub-accounts.
type EOA struct {
	base
}

// NewEOA builds an uninitialized EOA runtime bound to client.
func NewEOA(client *rpcclient.Client) *EOA {
	return &EOA{base: base{client: client, value: new(big.Int).Set(intrinsicValue)}}
}

// Initialize is a no-op for the EOA mode: no contract to deploy.
func (e *EOA) Initialize(ctx context.Context, root *walletkit.Account, chainID *big.Int) error {
	return nil
}

// EstimateBaseTx estimates the gas cost of a bare native transfer.
func (e *EOA) EstimateBaseTx(ctx context.Context, root *walletkit.Account) (uint64, error) {
	g, err := e.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  root.Address,
		To:    &root.Address,
		Value: e.value,
	})
	if err != nil {
		return 0, fmt.Errorf("workload/eoa: estimate gas: %w", err)
	}
	e.gasLimit = g
	return g, nil
}

// GetValue returns the fixed intrinsic value every EOA transfer carries.
func (e *EOA) GetValue() *big.Int { return e.value }

// GetStartMessage returns the EOA mode's cosmetic banner.
func (e *EOA) GetStartMessage() string {
	return "starting EOA workload: round-robin native transfers between sub-accounts"
}

// ConstructTransactions builds n round-robin native transfers: transaction
// i sends from ready[i%k] to ready[(i+1)%k].
func (e *EOA) ConstructTransactions(ctx context.Context, wallet *walletkit.Wallet, ready []uint32, n uint64, chainID *big.Int) ([]*types.Transaction, error) {
	k := len(ready)
	if k == 0 {
		return nil, fmt.Errorf("workload/eoa: no ready accounts")
	}
	txs := make([]*types.Transaction, 0, n)
	for i := uint64(0); i < n; i++ {
		senderIdx := ready[int(i)%k]
		receiverIdx := ready[(int(i)+1)%k]
		sender, err := wallet.Derive(senderIdx)
		if err != nil {
			return nil, err
		}
		receiver, err := wallet.Derive(receiverIdx)
		if err != nil {
			return nil, err
		}
		tx, err := signer.SignLegacy(sender, chainID, sender.IncrNonce(), &receiver.Address, e.value, e.gasLimit, e.gasPrice, nil)
		if err != nil {
			log.Error("skipping transaction after sign failure", "index", i, "sender", senderIdx, "err", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

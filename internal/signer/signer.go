// Package signer produces EIP-155 legacy-signed transactions from a
// derived account, mirroring the signing call the teacher's eip1559 and
// tx-nonce lessons make directly against go-ethereum's types package.
package signer

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/dando385/chainload/internal/walletkit"
)

// SignLegacy builds and signs a legacy (chain-id aware) transaction for acc.
// to may be nil for contract-creation transactions, though this pipeline
// never creates contracts through this path (deployment uses bind.DeployContract).
func SignLegacy(acc *walletkit.Account, chainID *big.Int, nonce uint64, to *common.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) (*types.Transaction, error) {
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), acc.Priv)
	if err != nil {
		return nil, fmt.Errorf("signer: sign tx for account %d: %w", acc.Index, err)
	}
	return signed, nil
}

package workload

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"github.com/dando385/chainload/internal/chainerr"
	"github.com/dando385/chainload/internal/contracts"
	"github.com/dando385/chainload/internal/rpcclient"
	"github.com/dando385/chainload/internal/signer"
	"github.com/dando385/chainload/internal/walletkit"
)

const deployTimeout = 60 * time.Second

// gasScaleFactor widens the estimated gas limit/price for the token mode,
// protecting against under-estimation on a busy node, per spec.md §4.5.
const gasScaleFactor = 3 // applied as *3/2 to avoid floating point on big.Int

// tokenAmount is the fixed per-tx ERC-20 transfer amount, per spec.md §3.
var tokenAmount = big.NewInt(1)

// ERC20 constructs token-transfer transactions against a deployed ERC-20
// contract, funded by internal/distributor.Token before the run starts.
type ERC20 struct {
	base
	Symbol      string
	TotalSupply *big.Int

	token *contracts.Token
}

// NewERC20 builds an uninitialized ERC-20 runtime bound to client. Call
// Initialize before any other method.
func NewERC20(client *rpcclient.Client, symbol string, totalSupply *big.Int) *ERC20 {
	return &ERC20{base: base{client: client, value: big.NewInt(0)}, Symbol: symbol, TotalSupply: totalSupply}
}

// Contract returns the deployed token contract, or nil before Initialize.
func (e *ERC20) Contract() *contracts.Token { return e.token }

// Initialize deploys the ERC-20 artifact, minting TotalSupply to root.
func (e *ERC20) Initialize(ctx context.Context, root *walletkit.Account, chainID *big.Int) error {
	auth, err := bind.NewKeyedTransactorWithChainID(root.Priv, chainID)
	if err != nil {
		return fmt.Errorf("workload/erc20: transactor: %w", err)
	}
	auth.Context = ctx
	token, tx, err := contracts.DeployToken(e.client.EthClient(), auth, e.TotalSupply, "ChainloadToken", 18, e.Symbol)
	if err != nil {
		return fmt.Errorf("workload/erc20: deploy: %w", err)
	}
	if _, err := e.client.WaitMined(ctx, tx.Hash(), deployTimeout); err != nil {
		return fmt.Errorf("workload/erc20: await deploy: %w", err)
	}
	e.token = token
	root.Nonce++
	return nil
}

// EstimateBaseTx estimates the gas cost of a representative transfer call,
// then scales it by gasScaleFactor/2.
func (e *ERC20) EstimateBaseTx(ctx context.Context, root *walletkit.Account) (uint64, error) {
	if e.token == nil {
		return 0, fmt.Errorf("workload/erc20: %w", chainerr.ErrRuntimeNotInitialized)
	}
	data, err := e.token.TransferData(root.Address, tokenAmount)
	if err != nil {
		return 0, fmt.Errorf("workload/erc20: encode probe transfer: %w", err)
	}
	tokenAddr := e.token.Address
	g, err := e.client.EstimateGas(ctx, ethereum.CallMsg{From: root.Address, To: &tokenAddr, Data: data})
	if err != nil {
		return 0, fmt.Errorf("workload/erc20: estimate gas: %w", err)
	}
	e.gasLimit = g * gasScaleFactor / 2
	return e.gasLimit, nil
}

// GetGasPrice sets P, scaled by gasScaleFactor/2 like the gas limit.
func (e *ERC20) GetGasPrice(ctx context.Context) (*big.Int, error) {
	p, err := e.base.GetGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	scaled := new(big.Int).Mul(p, big.NewInt(gasScaleFactor))
	scaled.Div(scaled, big.NewInt(2))
	e.gasPrice = scaled
	return scaled, nil
}

// GetValue returns zero: ERC-20 transfers carry no native value.
func (e *ERC20) GetValue() *big.Int { return e.value }

// GetStartMessage returns the ERC-20 mode's cosmetic banner.
func (e *ERC20) GetStartMessage() string {
	return fmt.Sprintf("starting ERC20 workload: round-robin %s transfers against %s", e.Symbol, e.token.Address)
}

// ConstructTransactions builds n round-robin transfer(receiver, 1) calls.
func (e *ERC20) ConstructTransactions(ctx context.Context, wallet *walletkit.Wallet, ready []uint32, n uint64, chainID *big.Int) ([]*types.Transaction, error) {
	if e.token == nil {
		return nil, fmt.Errorf("workload/erc20: %w", chainerr.ErrRuntimeNotInitialized)
	}
	k := len(ready)
	if k == 0 {
		return nil, fmt.Errorf("workload/erc20: no ready accounts")
	}
	tokenAddr := e.token.Address
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
		data, err := e.token.TransferData(receiver.Address, tokenAmount)
		if err != nil {
			return nil, fmt.Errorf("workload/erc20: encode transfer %d: %w", i, err)
		}
		tx, err := signer.SignLegacy(sender, chainID, sender.IncrNonce(), &tokenAddr, big.NewInt(0), e.gasLimit, e.gasPrice, data)
		if err != nil {
			log.Error("skipping transaction after sign failure", "index", i, "sender", senderIdx, "err", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

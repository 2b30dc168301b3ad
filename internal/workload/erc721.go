package workload

import (
	"context"
	"fmt"
	"math/big"

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

// ERC721 constructs mint-simulating transact(tokenURI) transactions
// against a deployed NFT contract (see contracts.NFT). No receiver account
// is needed; every transaction originates from the sender, and the
// contract records no token id or owner for it.
type ERC721 struct {
	base
	Name, Symbol string
	TokenURI     string

	nft *contracts.NFT
}

// NewERC721 builds an uninitialized ERC-721 runtime bound to client.
func NewERC721(client *rpcclient.Client, name, symbol, tokenURI string) *ERC721 {
	return &ERC721{base: base{client: client, value: big.NewInt(0)}, Name: name, Symbol: symbol, TokenURI: tokenURI}
}

// Contract returns the deployed NFT contract, or nil before Initialize.
func (e *ERC721) Contract() *contracts.NFT { return e.nft }

// Initialize deploys the NFT artifact.
func (e *ERC721) Initialize(ctx context.Context, root *walletkit.Account, chainID *big.Int) error {
	auth, err := bind.NewKeyedTransactorWithChainID(root.Priv, chainID)
	if err != nil {
		return fmt.Errorf("workload/erc721: transactor: %w", err)
	}
	auth.Context = ctx
	nft, tx, err := contracts.DeployNFT(e.client.EthClient(), auth, fmt.Sprintf("%s (%s)", e.Name, e.Symbol))
	if err != nil {
		return fmt.Errorf("workload/erc721: deploy: %w", err)
	}
	if _, err := e.client.WaitMined(ctx, tx.Hash(), deployTimeout); err != nil {
		return fmt.Errorf("workload/erc721: await deploy: %w", err)
	}
	e.nft = nft
	root.Nonce++
	return nil
}

// EstimateBaseTx estimates the gas cost of a representative mint call.
func (e *ERC721) EstimateBaseTx(ctx context.Context, root *walletkit.Account) (uint64, error) {
	if e.nft == nil {
		return 0, fmt.Errorf("workload/erc721: %w", chainerr.ErrRuntimeNotInitialized)
	}
	data, err := e.nft.CreateNFTData(e.TokenURI)
	if err != nil {
		return 0, fmt.Errorf("workload/erc721: encode probe mint: %w", err)
	}
	nftAddr := e.nft.Address
	g, err := e.client.EstimateGas(ctx, ethereum.CallMsg{From: root.Address, To: &nftAddr, Data: data})
	if err != nil {
		return 0, fmt.Errorf("workload/erc721: estimate gas: %w", err)
	}
	e.gasLimit = g
	return g, nil
}

// GetValue returns zero: minting carries no native value.
func (e *ERC721) GetValue() *big.Int { return e.value }

// GetStartMessage returns the ERC-721 mode's cosmetic banner.
func (e *ERC721) GetStartMessage() string {
	return fmt.Sprintf("starting ERC721 workload: minting against %s", e.nft.Address)
}

// ConstructTransactions builds n mint-simulating transact(tokenURI) calls,
// one per round-robin sender; no receiver is needed.
func (e *ERC721) ConstructTransactions(ctx context.Context, wallet *walletkit.Wallet, ready []uint32, n uint64, chainID *big.Int) ([]*types.Transaction, error) {
	if e.nft == nil {
		return nil, fmt.Errorf("workload/erc721: %w", chainerr.ErrRuntimeNotInitialized)
	}
	k := len(ready)
	if k == 0 {
		return nil, fmt.Errorf("workload/erc721: no ready accounts")
	}
	nftAddr := e.nft.Address
	data, err := e.nft.CreateNFTData(e.TokenURI)
	if err != nil {
		return nil, fmt.Errorf("workload/erc721: encode mint: %w", err)
	}
	txs := make([]*types.Transaction, 0, n)
	for i := uint64(0); i < n; i++ {
		senderIdx := ready[int(i)%k]
		sender, err := wallet.Derive(senderIdx)
		if err != nil {
			return nil, err
		}
		tx, err := signer.SignLegacy(sender, chainID, sender.IncrNonce(), &nftAddr, big.NewInt(0), e.gasLimit, e.gasPrice, data)
		if err != nil {
			log.Error("skipping transaction after sign failure", "index", i, "sender", senderIdx, "err", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

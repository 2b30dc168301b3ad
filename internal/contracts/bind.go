package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the subset of ethclient surface bind.BoundContract needs to
// call and transact against a deployed contract. rpcclient.Client's
// embedded *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
}

var (
	erc20Parsed  abi.ABI
	erc721Parsed abi.ABI
)

func init() {
	var err error
	erc20Parsed, err = abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		panic(fmt.Sprintf("contracts: invalid erc20 abi: %v", err))
	}
	erc721Parsed, err = abi.JSON(strings.NewReader(ERC721ABI))
	if err != nil {
		panic(fmt.Sprintf("contracts: invalid erc721 abi: %v", err))
	}
}

// Token is a deployed and bound ERC-20-ish contract.
type Token struct {
	Address common.Address
	bound   *bind.BoundContract
}

// DeployToken deploys the Token artifact, minting initialSupply to the
// deployer (the transactor's From address). decimals and tokenSymbol are
// cosmetic, per the contract's own constructor; they don't affect balance
// or transfer accounting.
func DeployToken(backend Backend, auth *bind.TransactOpts, initialSupply *big.Int, tokenName string, decimals uint8, tokenSymbol string) (*Token, *types.Transaction, error) {
	addr, tx, bound, err := bind.DeployContract(auth, erc20Parsed, common.FromHex(ERC20Bytecode), backend, initialSupply, tokenName, decimals, tokenSymbol)
	if err != nil {
		return nil, nil, fmt.Errorf("contracts: deploy erc20: %w", err)
	}
	return &Token{Address: addr, bound: bound}, tx, nil
}

// BalanceOf calls the deployed token's balanceOf(owner) view function.
func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}
	if err := t.bound.Call(opts, &out, "balanceOf", owner); err != nil {
		return nil, fmt.Errorf("contracts: balanceOf: %w", err)
	}
	return out[0].(*big.Int), nil
}

// TransferData ABI-encodes a transfer(to, amount) call without sending it;
// used by the workload runtime, which signs and submits transactions
// itself rather than going through bind's transactor.
func (t *Token) TransferData(to common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20Parsed.Pack("transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("contracts: pack transfer: %w", err)
	}
	return data, nil
}

// Transfer sends a transfer(to, amount) transaction via the bound
// contract's transactor; used by the token distributor's synchronous
// funding path.
func (t *Token) Transfer(auth *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
	tx, err := t.bound.Transact(auth, "transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("contracts: transfer: %w", err)
	}
	return tx, nil
}

// NFT is a deployed and bound ERC-721-ish contract. It is in fact the
// Interactor fixture, whose only mutating entry point is transact(string);
// see ERC721ABI's doc comment for why.
type NFT struct {
	Address common.Address
	bound   *bind.BoundContract
}

// DeployNFT deploys the NFT artifact. deployString seeds the contract's
// constructor argument; this harness doesn't read it back.
func DeployNFT(backend Backend, auth *bind.TransactOpts, deployString string) (*NFT, *types.Transaction, error) {
	addr, tx, bound, err := bind.DeployContract(auth, erc721Parsed, common.FromHex(ERC721Bytecode), backend, deployString)
	if err != nil {
		return nil, nil, fmt.Errorf("contracts: deploy erc721: %w", err)
	}
	return &NFT{Address: addr, bound: bound}, tx, nil
}

// CreateNFTData ABI-encodes a transact(tokenURI) call, standing in for
// createNFT: the deployed contract stores tokenURI as its transactString.
func (n *NFT) CreateNFTData(tokenURI string) ([]byte, error) {
	data, err := erc721Parsed.Pack("transact", tokenURI)
	if err != nil {
		return nil, fmt.Errorf("contracts: pack transact: %w", err)
	}
	return data, nil
}

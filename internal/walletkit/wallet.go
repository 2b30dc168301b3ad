// Package walletkit derives per-index Ethereum keypairs from a BIP-39
// mnemonic along the path m/44'/60'/0'/0/i and tracks each account's nonce
// for the lifetime of a run.
package walletkit

import (
	"crypto/ecdsa"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

const hardenedOffset = uint32(0x80000000)

// RootIndex is the derivation index reserved for the funding account.
const RootIndex = 0

// Account is a single derived keypair plus its tracked on-chain nonce.
//
// Nonce is written by the distributors and runtime Initialize (root only),
// by engine.SyncNonces (one goroutine per account), and by the single
// goroutine performing round-robin transaction construction (see
// internal/workload). No two goroutines write the same account's nonce at
// once, so no lock is held.
type Account struct {
	Index   uint32
	Priv    *ecdsa.PrivateKey
	Address common.Address
	Nonce   uint64
}

// GetNonce returns the current nonce without mutating it.
func (a *Account) GetNonce() uint64 { return a.Nonce }

// IncrNonce returns the current nonce and then advances it by one, matching
// the "sequential read-then-increment" contract required of the nonce source.
func (a *Account) IncrNonce() uint64 {
	n := a.Nonce
	a.Nonce++
	return n
}

// Wallet derives and caches accounts from a single BIP-39 mnemonic.
type Wallet struct {
	master *bip32.Key

	mu       sync.Mutex
	accounts map[uint32]*Account
}

// NewWallet validates the mnemonic and derives the BIP-32 master key.
func NewWallet(mnemonic string) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("walletkit: invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("walletkit: derive master key: %w", err)
	}
	return &Wallet{master: master, accounts: make(map[uint32]*Account)}, nil
}

// Derive returns the account at index i, deriving and caching it on first
// use. Derivation follows m/44'/60'/0'/0/i, the standard Ethereum path.
func (w *Wallet) Derive(i uint32) (*Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if acc, ok := w.accounts[i]; ok {
		return acc, nil
	}

	path := []uint32{44 + hardenedOffset, 60 + hardenedOffset, 0 + hardenedOffset, 0, i}
	key := w.master
	for _, p := range path {
		var err error
		key, err = key.NewChildKey(p)
		if err != nil {
			return nil, fmt.Errorf("walletkit: derive index %d: %w", i, err)
		}
	}

	priv, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, fmt.Errorf("walletkit: key index %d to ecdsa: %w", i, err)
	}
	addr := crypto.PubkeyToAddress(priv.PublicKey)
	acc := &Account{Index: i, Priv: priv, Address: addr}
	w.accounts[i] = acc
	log.Debug("derived account", "index", i, "address", addr)
	return acc, nil
}

// DeriveRange derives indices [0, n) eagerly, returning them in order. Index
// 0 is always the root/funder account.
func (w *Wallet) DeriveRange(n uint32) ([]*Account, error) {
	accs := make([]*Account, 0, n)
	for i := uint32(0); i < n; i++ {
		acc, err := w.Derive(i)
		if err != nil {
			return nil, err
		}
		accs = append(accs, acc)
	}
	return accs, nil
}

// Command chainload is a stress-testing harness for EVM-compatible nodes
// exposed over JSON-RPC: it funds a fixed number of sub-accounts from a
// single mnemonic-derived root account, constructs and signs a batch of
// workload transactions, submits them at maximum throughput, and reports
// aggregate TPS and gas-utilization statistics.
//
// Flag parsing here follows the same shape as the teacher's standalone
// lessons (flag.String/.Int/.Duration, a required-field check, then
// log.Fatalf on misconfiguration) scaled up to a single multi-flag surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"strings"

	glog "github.com/ethereum/go-ethereum/log"

	"github.com/dando385/chainload/internal/batcher"
	"github.com/dando385/chainload/internal/chainerr"
	"github.com/dando385/chainload/internal/collector"
	"github.com/dando385/chainload/internal/distributor"
	"github.com/dando385/chainload/internal/engine"
	"github.com/dando385/chainload/internal/report"
	"github.com/dando385/chainload/internal/rpcclient"
	"github.com/dando385/chainload/internal/walletkit"
	"github.com/dando385/chainload/internal/workload"
)

func main() {
	jsonRPC := flag.String("json-rpc", "", "node JSON-RPC endpoint (required)")
	mnemonic := flag.String("mnemonic", "", "BIP-39 mnemonic for the root account (required)")
	subAccounts := flag.Uint("sub-accounts", 10, "number of sub-accounts (K)")
	transactions := flag.Uint64("transactions", 2000, "number of transactions to submit (N)")
	mode := flag.String("mode", "EOA", "workload mode: EOA, ERC20, or ERC721")
	output := flag.String("output", "", "path to write the result JSON (optional)")
	batchSize := flag.Uint("batch", 20, "JSON-RPC batch size (B)")
	flag.Parse()

	if *jsonRPC == "" || *mnemonic == "" {
		log.Fatalf("usage: chainload --json-rpc <url> --mnemonic <phrase> [--sub-accounts N] [--transactions N] [--mode EOA|ERC20|ERC721] [--batch N] [--output path]")
	}
	if *batchSize == 0 {
		log.Fatalf("%v: --batch must be >= 1", chainerr.ErrConfiguration)
	}
	runtimeMode := workload.Mode(strings.ToUpper(*mode))
	switch runtimeMode {
	case workload.ModeEOA, workload.ModeERC20, workload.ModeERC721:
	default:
		log.Fatalf("%v: unknown --mode %q", chainerr.ErrConfiguration, *mode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config{
		jsonRPC:      *jsonRPC,
		mnemonic:     *mnemonic,
		subAccounts:  uint32(*subAccounts),
		transactions: *transactions,
		mode:         runtimeMode,
		output:       *output,
		batchSize:    int(*batchSize),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	jsonRPC      string
	mnemonic     string
	subAccounts  uint32
	transactions uint64
	mode         workload.Mode
	output       string
	batchSize    int
}

func run(ctx context.Context, cfg config) error {
	client, err := rpcclient.Dial(ctx, cfg.jsonRPC)
	if err != nil {
		return fmt.Errorf("%w: %v", chainerr.ErrConfiguration, err)
	}
	defer client.Close()

	wallet, err := walletkit.NewWallet(cfg.mnemonic)
	if err != nil {
		return fmt.Errorf("%w: %v", chainerr.ErrConfiguration, err)
	}

	root, err := wallet.Derive(walletkit.RootIndex)
	if err != nil {
		return err
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("chainload: chain id: %w", err)
	}

	if cfg.transactions == 0 {
		report.PrintTables(&collector.Report{})
		glog.Info("no transactions requested, nothing to do")
		return nil
	}

	// §4.1: when K exceeds N, only the first N sub-accounts are initialized.
	effectiveK := cfg.subAccounts
	if uint64(effectiveK) > cfg.transactions {
		effectiveK = uint32(cfg.transactions)
	}
	if effectiveK == 0 {
		effectiveK = 1
	}
	subIndices := make([]uint32, effectiveK)
	for i := range subIndices {
		subIndices[i] = uint32(i) + 1
	}

	runtime, err := newRuntime(client, cfg.mode)
	if err != nil {
		return err
	}

	if err := runtime.Initialize(ctx, root, chainID); err != nil {
		return err
	}
	if _, err := runtime.EstimateBaseTx(ctx, root); err != nil {
		return err
	}
	if _, err := runtime.GetGasPrice(ctx); err != nil {
		return err
	}
	glog.Info(runtime.GetStartMessage())

	nativeDist := &distributor.Native{Client: client, Wallet: wallet, ChainID: chainID}
	fundResult, err := nativeDist.Fund(ctx, root, subIndices, cfg.transactions, runtime.Params())
	if err != nil {
		return err
	}
	ready := fundResult.Ready

	if cfg.mode == workload.ModeERC20 {
		erc20, ok := runtime.(*workload.ERC20)
		if !ok {
			return fmt.Errorf("chainload: internal: ERC20 mode without ERC20 runtime")
		}
		tokenDist := &distributor.Token{Client: client, Wallet: wallet, ChainID: chainID, Token: erc20.Contract()}
		ready, err = tokenDist.Fund(ctx, root, ready, cfg.transactions)
		if err != nil {
			return err
		}
	}

	obs := newBarObserver()
	eng := engine.New(client, wallet, runtime)
	eng.Observer = obs

	if err := eng.SyncNonces(ctx, ready); err != nil {
		return err
	}
	raws, err := eng.BuildRawTransactions(ctx, ready, cfg.transactions, chainID)
	if err != nil {
		return err
	}

	b := batcher.New(client, cfg.batchSize)
	b.Observer = obs
	submitResult, err := b.Submit(ctx, raws)
	if err != nil {
		return err
	}

	coll := collector.New(client, cfg.batchSize)
	coll.Observer = obs
	if err := coll.DrainMempool(ctx, len(submitResult.Hashes)); err != nil {
		return err
	}
	included, receiptErrs, err := coll.GatherReceipts(ctx, submitResult.Hashes, cfg.transactions)
	if err != nil {
		return err
	}

	allErrs := append(append([]string(nil), submitResult.Errors...), receiptErrs...)
	rep, err := coll.Aggregate(ctx, included, allErrs)
	if err != nil {
		return err
	}

	report.PrintTables(rep)
	if cfg.output != "" && len(rep.Blocks) > 0 {
		if err := report.WriteJSON(cfg.output, report.FromReport(rep)); err != nil {
			return err
		}
	}
	return nil
}

func newRuntime(client *rpcclient.Client, mode workload.Mode) (workload.Runtime, error) {
	switch mode {
	case workload.ModeEOA:
		return workload.NewEOA(client), nil
	case workload.ModeERC20:
		return workload.NewERC20(client, "CLT", big.NewInt(1_000_000)), nil
	case workload.ModeERC721:
		return workload.NewERC721(client, "ChainloadNFT", "CNFT", "ipfs://chainload/static-token-uri"), nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", chainerr.ErrConfiguration, mode)
	}
}

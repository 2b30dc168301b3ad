// Package txparams holds the small, immutable set of transaction
// parameters a workload runtime computes once at startup (gas limit, gas
// price, intrinsic value) and that the distributors need when sizing
// funding requirements. It exists to avoid a dependency cycle between
// internal/workload (which computes these) and internal/distributor (which
// consumes them).
package txparams

import "math/big"

// Base carries the per-transaction cost inputs shared by every workload mode.
type Base struct {
	GasLimit uint64
	GasPrice *big.Int
	Value    *big.Int // non-zero only for the EOA mode
}

// Cost returns GasPrice*GasLimit + Value, the native-token cost of a single
// transaction under these parameters.
func (b Base) Cost() *big.Int {
	cost := new(big.Int).Mul(b.GasPrice, new(big.Int).SetUint64(b.GasLimit))
	return cost.Add(cost, b.Value)
}

package distributor

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dando385/chainload/internal/rpcclient"
	"github.com/dando385/chainload/internal/txparams"
	"github.com/dando385/chainload/internal/walletkit"
)

const testMnemonic = "test test test test test test test test test test test junk"

type jsonRPCRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []interface{}   `json:"params"`
}

func stubServer(t *testing.T, handler func(method string, params []interface{}) interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req jsonRPCRequest
		require.NoError(t, json.Unmarshal(body, &req))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handler(req.Method, req.Params),
		})
	}))
}

func TestNativeFundSkipsAlreadyFundedAccounts(t *testing.T) {
	// every balance query answers with a balance far above any plausible
	// requirement, so the distributor should fund nothing and still
	// return every sub-account as ready.
	srv := stubServer(t, func(method string, params []interface{}) interface{} {
		switch method {
		case "eth_getBalance":
			return "0xffffffffffffffffff"
		case "eth_estimateGas":
			return "0x5208"
		case "eth_gasPrice":
			return "0x1"
		case "eth_getTransactionCount":
			return "0x0"
		}
		return nil
	})
	defer srv.Close()

	client, err := rpcclient.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	w, err := walletkit.NewWallet(testMnemonic)
	require.NoError(t, err)
	root, err := w.Derive(walletkit.RootIndex)
	require.NoError(t, err)

	n := &Native{Client: client, Wallet: w, ChainID: big.NewInt(1337)}
	base := txparams.Base{GasLimit: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)}

	result, err := n.Fund(context.Background(), root, []uint32{1, 2, 3}, 10, base)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint32{1, 2, 3}, result.Ready)
}

func TestNativeFundZeroTransactionsIsNoop(t *testing.T) {
	n := &Native{}
	result, err := n.Fund(context.Background(), &walletkit.Account{}, nil, 0, txparams.Base{})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(0), result.Required)
}

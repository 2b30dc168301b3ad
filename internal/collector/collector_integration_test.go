package collector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dando385/chainload/internal/rpcclient"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []interface{}   `json:"params"`
}

func newStubServer(t *testing.T, handler func(method string, params []interface{}) (interface{}, error)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")

		var batch []rpcRequest
		if err := json.Unmarshal(body, &batch); err == nil && len(batch) > 0 {
			out := make([]map[string]interface{}, 0, len(batch))
			for _, req := range batch {
				result, err := handler(req.Method, req.Params)
				entry := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
				if err != nil {
					entry["error"] = map[string]interface{}{"code": -32000, "message": err.Error()}
				} else {
					entry["result"] = result
				}
				out = append(out, entry)
			}
			require.NoError(t, json.NewEncoder(w).Encode(out))
			return
		}

		var single rpcRequest
		require.NoError(t, json.Unmarshal(body, &single))
		result, err := handler(single.Method, single.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": single.ID}
		if err != nil {
			resp["error"] = map[string]interface{}{"code": -32000, "message": err.Error()}
		} else {
			resp["result"] = result
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestDrainMempoolReturnsAsSoonAsEmpty(t *testing.T) {
	srv := newStubServer(t, func(method string, params []interface{}) (interface{}, error) {
		require.Equal(t, "txpool_status", method)
		return map[string]string{"pending": "0x0", "queued": "0x0"}, nil
	})
	defer srv.Close()

	client, err := rpcclient.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	c := New(client, 10)
	require.NoError(t, c.DrainMempool(context.Background(), 3))
}

func TestGatherReceiptsFallsBackForOutstandingHashes(t *testing.T) {
	blockNum := 0
	srv := newStubServer(t, func(method string, params []interface{}) (interface{}, error) {
		switch method {
		case "eth_getTransactionReceipt":
			return nil, nil
		case "eth_blockNumber":
			blockNum++
			return "0x1", nil
		}
		return nil, nil
	})
	defer srv.Close()

	client, err := rpcclient.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	c := New(client, 10)
	hash := "0x" + fillHex(64)
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	included, errs, err := c.GatherReceipts(ctx, []string{hash}, 1)
	require.NoError(t, err)
	require.Empty(t, included)
	// The fallback tier's WaitMined call surfaces the already-expired
	// context deadline as a per-hash error rather than a fatal one.
	require.Len(t, errs, 1)
}

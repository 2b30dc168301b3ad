package rpcclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// rpcRequest is the minimal JSON-RPC 2.0 envelope the stub server decodes,
// mirroring the shape ethclient/rpc.Client send over HTTP.
type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []interface{}   `json:"params"`
}

// newStubServer replies to single requests with handler(method, params) and
// echoes the request id back, the same contract go-ethereum's own ethclient
// tests stub against a fake HTTP backend.
func newStubServer(t *testing.T, handler func(method string, params []interface{}) (interface{}, error)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))

		w.Header().Set("Content-Type", "application/json")

		// try batch form first
		var batch []rpcRequest
		if err := json.Unmarshal(raw, &batch); err == nil && len(batch) > 0 {
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
		require.NoError(t, json.Unmarshal(raw, &single))
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

func TestTxPoolStatusAcceptsHexStrings(t *testing.T) {
	srv := newStubServer(t, func(method string, params []interface{}) (interface{}, error) {
		require.Equal(t, "txpool_status", method)
		return map[string]string{"pending": "0x5", "queued": "0x0"}, nil
	})
	defer srv.Close()

	c, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer c.Close()

	status, err := c.TxPoolStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, TxPoolStatus{Pending: 5, Queued: 0}, status)
}

func TestTxPoolStatusAcceptsNumeric(t *testing.T) {
	srv := newStubServer(t, func(method string, params []interface{}) (interface{}, error) {
		return map[string]interface{}{"pending": 7, "queued": 2}, nil
	})
	defer srv.Close()

	c, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer c.Close()

	status, err := c.TxPoolStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, TxPoolStatus{Pending: 7, Queued: 2}, status)
}

func TestBatchPreservesPerElementErrors(t *testing.T) {
	srv := newStubServer(t, func(method string, params []interface{}) (interface{}, error) {
		if params[0] == "bad" {
			return nil, errBadHash
		}
		return "0xdeadbeef", nil
	})
	defer srv.Close()

	c, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer c.Close()

	var r1, r2 string
	elems := []BatchElem{
		{Method: "eth_getTransactionByHash", Args: []interface{}{"ok"}, Result: &r1},
		{Method: "eth_getTransactionByHash", Args: []interface{}{"bad"}, Result: &r2},
	}
	require.NoError(t, c.Batch(context.Background(), elems))
	require.NoError(t, elems[0].Error)
	require.Error(t, elems[1].Error)
	require.Equal(t, "0xdeadbeef", r1)
}

func TestBatchNoElementsIsNoop(t *testing.T) {
	c := &Client{}
	require.NoError(t, c.Batch(context.Background(), nil))
}

var errBadHash = stubErr("bad hash")

type stubErr string

func (e stubErr) Error() string { return string(e) }

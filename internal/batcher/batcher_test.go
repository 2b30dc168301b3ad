package batcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dando385/chainload/internal/rpcclient"
)

type countingObserver struct {
	starts, completes int32
}

func (o *countingObserver) OnItemStarted(phase string, i, total int)   { atomic.AddInt32(&o.starts, 1) }
func (o *countingObserver) OnItemCompleted(phase string, i, total int) { atomic.AddInt32(&o.completes, 1) }

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []interface{}   `json:"params"`
}

func newStubServer(t *testing.T, handler func(method string, params []interface{}) (interface{}, error)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Header().Set("Content-Type", "application/json")

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

func TestSubmitPartitionsIntoBatchesAndReturnsHashes(t *testing.T) {
	var mu sync.Mutex
	seenBatchSizes := make(map[int]int)

	srv := newStubServer(t, func(method string, params []interface{}) (interface{}, error) {
		require.Equal(t, "eth_sendRawTransaction", method)
		raw := params[0].(string)
		mu.Lock()
		seenBatchSizes[len(raw)]++
		mu.Unlock()
		return "0x" + raw[2:], nil
	})
	defer srv.Close()

	client, err := rpcclient.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	obs := &countingObserver{}
	b := New(client, 2)
	b.Observer = obs

	raws := []string{"0xaa", "0xbb", "0xcc", "0xdd", "0xee"}
	result, err := b.Submit(context.Background(), raws)
	require.NoError(t, err)
	require.Len(t, result.Hashes, 5)
	require.Empty(t, result.Errors)
	require.EqualValues(t, 3, obs.starts) // ceil(5/2) batches
}

func TestSubmitContinuesPastWholeBatchFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var batch []rpcRequest
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &batch))
		out := make([]map[string]interface{}, 0, len(batch))
		for _, req := range batch {
			out = append(out, map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": "0xgood"})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	client, err := rpcclient.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer client.Close()

	b := New(client, 1)
	result, err := b.Submit(context.Background(), []string{"0xaa", "0xbb"})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	require.Len(t, result.Hashes, 1)
}

func TestPartitionHandlesShortLastBatch(t *testing.T) {
	out := partition([]string{"a", "b", "c"}, 2)
	require.Equal(t, [][]string{{"a", "b"}, {"c"}}, out)
}

func TestPartitionEmptyInput(t *testing.T) {
	require.Nil(t, partition(nil, 2))
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huynhanx03/go-fifo/pkg/common/apperr"
	"github.com/huynhanx03/go-fifo/pkg/common/http/response"
	"github.com/huynhanx03/go-fifo/pkg/constraints"
	"github.com/huynhanx03/go-fifo/pkg/settings"
)

type recordingExporter struct {
	mu      sync.Mutex
	records []Record
}

func (e *recordingExporter) Push(rec Record) {
	e.mu.Lock()
	e.records = append(e.records, rec)
	e.mu.Unlock()
}

// failingBackend returns err from every call.
type failingBackend struct{ err error }

func (f failingBackend) Enqueue(context.Context, string, []json.RawMessage) error { return f.err }
func (f failingBackend) Dequeue(context.Context, string) (json.RawMessage, bool, error) {
	return nil, false, f.err
}
func (f failingBackend) Peek(context.Context, string) (json.RawMessage, bool, error) {
	return nil, false, f.err
}
func (f failingBackend) Len(context.Context, string) (int64, error) { return 0, f.err }
func (f failingBackend) Clear(context.Context, string) error        { return f.err }

func newTestServer(t *testing.T, backend Backend, opts ...ServiceOption) *Server {
	t.Helper()
	return New(&settings.Server{Mode: gin.TestMode}, NewService(backend, opts...), nil)
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var resp map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response has no data: %v", resp)
	return d
}

func TestEnqueueDequeue_FIFO(t *testing.T) {
	s := newTestServer(t, NewMemoryBackend(4))

	for _, v := range []string{`1`, `"two"`, `{"n":3}`} {
		w, resp := do(t, s, http.MethodPost, "/queues/jobs/items", `{"value":`+v+`}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.EqualValues(t, response.CodeSuccess, resp["code"])
	}

	_, resp := do(t, s, http.MethodGet, "/queues/jobs", "")
	assert.EqualValues(t, 3, data(t, resp)["length"])

	want := []any{float64(1), "two", map[string]any{"n": float64(3)}}
	for _, v := range want {
		w, resp := do(t, s, http.MethodDelete, "/queues/jobs/head", "")
		require.Equal(t, http.StatusOK, w.Code)
		d := data(t, resp)
		assert.Equal(t, true, d["found"])
		assert.Equal(t, v, d["value"])
	}

	w, resp := do(t, s, http.MethodDelete, "/queues/jobs/head", "")
	require.Equal(t, http.StatusOK, w.Code)
	d := data(t, resp)
	assert.Equal(t, false, d["found"])
	assert.NotContains(t, d, "value")
}

func TestDequeue_UnknownQueueIsEmpty(t *testing.T) {
	s := newTestServer(t, NewMemoryBackend(4))

	for i := 0; i < 3; i++ {
		w, resp := do(t, s, http.MethodDelete, "/queues/nothing/head", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, data(t, resp)["found"])
	}
}

func TestEnqueueBatch(t *testing.T) {
	s := newTestServer(t, NewMemoryBackend(4), WithMaxBatch(3))

	w, resp := do(t, s, http.MethodPost, "/queues/b/items/batch", `{"values":[1,2,3]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 3, data(t, resp)["length"])

	w, _ = do(t, s, http.MethodPost, "/queues/b/items/batch", `{"values":[1,2,3,4]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w, resp = do(t, s, http.MethodPost, "/queues/b/items/batch", `{"values":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.EqualValues(t, apperr.CodeValidation, resp["code"])

	_, resp = do(t, s, http.MethodGet, "/queues/b/head", "")
	assert.EqualValues(t, 1, data(t, resp)["value"])
}

func TestPeekClearList(t *testing.T) {
	s := newTestServer(t, NewMemoryBackend(4))
	do(t, s, http.MethodPost, "/queues/a/items", `{"value":"x"}`)
	do(t, s, http.MethodPost, "/queues/c/items", `{"value":"y"}`)

	_, resp := do(t, s, http.MethodGet, "/queues", "")
	assert.Equal(t, []any{"a", "c"}, data(t, resp)["queues"])

	_, resp = do(t, s, http.MethodGet, "/queues/a/head", "")
	assert.Equal(t, "x", data(t, resp)["value"])
	_, resp = do(t, s, http.MethodGet, "/queues/a", "")
	assert.EqualValues(t, 1, data(t, resp)["length"])

	w, _ := do(t, s, http.MethodDelete, "/queues/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	_, resp = do(t, s, http.MethodGet, "/queues/a", "")
	assert.EqualValues(t, 0, data(t, resp)["length"])
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t, NewMemoryBackend(4))

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"bad_json", http.MethodPost, "/queues/q/items", `{"value":`, http.StatusBadRequest},
		{"missing_value", http.MethodPost, "/queues/q/items", `{}`, http.StatusUnprocessableEntity},
		{"bad_queue_name", http.MethodPost, "/queues/bad%20name/items", `{"value":1}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestBackendFailure(t *testing.T) {
	s := newTestServer(t, failingBackend{err: errors.New("redis down")})

	w, resp := do(t, s, http.MethodDelete, "/queues/q/head", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.EqualValues(t, apperr.CodeBackend, resp["code"])
	assert.Contains(t, resp["error"], "redis down")

	w, _ = do(t, s, http.MethodGet, "/queues", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestExporterReceivesDequeued(t *testing.T) {
	exp := &recordingExporter{}
	s := newTestServer(t, NewMemoryBackend(4), WithExporter(exp))

	do(t, s, http.MethodPost, "/queues/q/items", `{"value":"a"}`)
	do(t, s, http.MethodDelete, "/queues/q/head", "")
	do(t, s, http.MethodDelete, "/queues/q/head", "")

	require.Len(t, exp.records, 1)
	assert.Equal(t, "q", exp.records[0].Queue)
	assert.JSONEq(t, `"a"`, string(exp.records[0].Value))
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, NewMemoryBackend(4))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(constraints.HeaderRequestID, "abc")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(constraints.HeaderRequestID))

	w, _ = do(t, s, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, w.Header().Get(constraints.HeaderRequestID))
}

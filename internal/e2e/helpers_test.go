package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"runnerd/internal/adapter"
	"runnerd/internal/httpapi"
	"runnerd/internal/predictor"
	"runnerd/internal/serving"
	"runnerd/internal/store"
	"runnerd/pkg/types"
)

// newServerWithModel stands up the full stack over a temp store with one
// saved linear model; returns the server, the pool and the committed tag.
func newServerWithModel(t *testing.T, quota types.ResourceQuota, defaultModel string) (*httptest.Server, *serving.Pool, string) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cdc := predictor.Codec{}
	model := &predictor.Linear{Coef: []float64{1, 0, 0, 0}, Intercept: 0}
	tag, err := adapter.Save(st, cdc, "iris", model, map[string]any{"acc": 0.97})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	pool := serving.New(st, cdc, quota, types.BatchOptions{}, defaultModel)
	srv := httptest.NewServer(httpapi.NewMux(pool))
	t.Cleanup(srv.Close)
	return srv, pool, tag
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	cleanup := func() { _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "runnerd")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/runnerd")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// saveModel registers a linear model into storeDir via the CLI and returns
// its tag.
func saveModel(t *testing.T, bin, storeDir, name string) string {
	t.Helper()
	artifact := filepath.Join(t.TempDir(), "artifact.json")
	blob := `{"codec":"json/v1","family":"linear","params":{"coef":[1,0,0,0],"intercept":0}}`
	if err := os.WriteFile(artifact, []byte(blob), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	cmd := exec.Command(bin, "save", name, artifact, "--store-dir", storeDir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("save failed: %v\n%s", err, string(out))
	}
	return strings.TrimSpace(string(out))
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin, storeDir, defaultModel string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf(":%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	args := []string{
		"serve",
		"--addr", addr,
		"--store-dir", storeDir,
		"--cpu", "2",
	}
	if defaultModel != "" {
		args = append(args, "--default-model", defaultModel)
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	storeDir := t.TempDir()
	tag := saveModel(t, bin, storeDir, "iris")
	if tag != "iris:v1" {
		t.Fatalf("expected iris:v1, got %q", tag)
	}
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, storeDir, tag, port)

	// /healthz
	resp, body := get(t, sp.base+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz %d %s", resp.StatusCode, string(body))
	}

	// /models
	resp, body = get(t, sp.base+"/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/models %d %s", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("/models content-type=%s", ct)
	}
	var modelsResp struct {
		Models []struct {
			Tag string `json:"tag"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &modelsResp); err != nil {
		t.Fatalf("/models json: %v body=%s", err, string(body))
	}
	if len(modelsResp.Models) != 1 || modelsResp.Models[0].Tag != tag {
		t.Fatalf("unexpected models: %s", string(body))
	}

	// /predict without model uses default
	resp, body = postJSON(t, sp.base+"/predict", []byte(`{"input":[[5.1,3.5,1.4,0.2]]}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/predict %d %s", resp.StatusCode, string(body))
	}
	var pr struct {
		Model  string    `json:"model"`
		Output []float64 `json:"output"`
	}
	if err := json.Unmarshal(body, &pr); err != nil {
		t.Fatalf("/predict json: %v body=%s", err, string(body))
	}
	if pr.Model != tag || len(pr.Output) != 1 || pr.Output[0] != 5.1 {
		t.Fatalf("unexpected prediction: %s", string(body))
	}

	// /status shows the runner with a ready replica
	resp, body = get(t, sp.base+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, string(body))
	}
	var statusResp struct {
		Runners []struct {
			Tag        string `json:"tag"`
			NumReplica int    `json:"num_replica"`
		} `json:"runners"`
	}
	if err := json.Unmarshal(body, &statusResp); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if len(statusResp.Runners) != 1 || statusResp.Runners[0].Tag != tag || statusResp.Runners[0].NumReplica != 1 {
		t.Fatalf("unexpected status: %s", string(body))
	}
}

func TestBlackbox_Predict_ModelNotFound_404(t *testing.T) {
	bin := buildBinary(t)
	storeDir := t.TempDir()
	saveModel(t, bin, storeDir, "iris")
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, storeDir, "", port)

	resp, body := postJSON(t, sp.base+"/predict", []byte(`{"model":"missing:v1","input":[[1]]}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d, body=%s", resp.StatusCode, string(body))
	}

	// No model in the request and no default configured is a 404 too.
	resp, body = postJSON(t, sp.base+"/predict", []byte(`{"input":[[1]]}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d, body=%s", resp.StatusCode, string(body))
	}
}

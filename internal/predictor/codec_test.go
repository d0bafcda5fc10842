package predictor

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func dumpTemp(t *testing.T, p Predictor) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "saved_model.json")
	if err := (Codec{}).Dump(p, path); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return path
}

func TestRoundTripLinear(t *testing.T) {
	orig := &Linear{Coef: []float64{0.1, -0.2, 0.3, 0.4}, Intercept: 1.5}
	path := dumpTemp(t, orig)
	loaded, err := (Codec{}).Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rows := [][]float64{{5.1, 3.5, 1.4, 0.2}, {1, 2, 3, 4}}
	want, err := orig.Predict(rows)
	if err != nil {
		t.Fatalf("predict original: %v", err)
	}
	got, err := loaded.Predict(rows)
	if err != nil {
		t.Fatalf("predict loaded: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip changed predictions: %v != %v", got, want)
	}
}

func TestRoundTripKNN(t *testing.T) {
	orig := &KNN{
		K:       2,
		Samples: [][]float64{{0, 0}, {1, 1}, {10, 10}},
		Targets: []float64{0, 1, 10},
	}
	path := dumpTemp(t, orig)
	loaded, err := (Codec{}).Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Family() != FamilyKNN {
		t.Fatalf("family: %s", loaded.Family())
	}
	rows := [][]float64{{0.4, 0.4}}
	want, _ := orig.Predict(rows)
	got, err := loaded.Predict(rows)
	if err != nil {
		t.Fatalf("predict loaded: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip changed predictions: %v != %v", got, want)
	}
}

func TestLoadCorrupt(t *testing.T) {
	d := t.TempDir()
	path := filepath.Join(d, "saved_model.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (Codec{}).Load(path); !IsArtifactCorrupt(err) {
		t.Fatalf("expected IsArtifactCorrupt, got %v", err)
	}
	if _, err := (Codec{}).Load(filepath.Join(d, "missing.json")); !IsArtifactCorrupt(err) {
		t.Fatalf("missing file: expected IsArtifactCorrupt, got %v", err)
	}
}

func TestLoadUnknownFamily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_model.json")
	blob := `{"codec":"json/v1","family":"quantum","params":{}}`
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (Codec{}).Load(path); !IsUnknownFamily(err) {
		t.Fatalf("expected IsUnknownFamily, got %v", err)
	}
}

func TestLoadWrongCodecVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved_model.json")
	blob := `{"codec":"gob/v9","family":"linear","params":{}}`
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (Codec{}).Load(path); !IsArtifactCorrupt(err) {
		t.Fatalf("expected IsArtifactCorrupt, got %v", err)
	}
}

package predictor

import (
	"math"
	"testing"
)

func TestLinearPredict(t *testing.T) {
	m := &Linear{Coef: []float64{2, -1}, Intercept: 0.5}
	out, err := m.Predict([][]float64{{1, 1}, {0, 0}, {3, 2}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	want := []float64{1.5, 0.5, 4.5}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("row %d: got %v want %v", i, out[i], want[i])
		}
	}
}

func TestLinearDimensionMismatch(t *testing.T) {
	m := &Linear{Coef: []float64{1, 2}}
	if _, err := m.Predict([][]float64{{1}}); err == nil {
		t.Fatalf("expected error on wrong row width")
	}
}

func TestKNNPredict(t *testing.T) {
	m := &KNN{
		K:       2,
		Samples: [][]float64{{0}, {1}, {100}},
		Targets: []float64{0, 2, 50},
	}
	out, err := m.Predict([][]float64{{0.4}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// Nearest two neighbors are 0 and 1, mean of targets 0 and 2.
	if math.Abs(out[0]-1) > 1e-12 {
		t.Fatalf("got %v want 1", out[0])
	}
}

func TestKNNNotFitted(t *testing.T) {
	m := &KNN{}
	if _, err := m.Predict([][]float64{{1}}); err == nil {
		t.Fatalf("expected error on unfitted model")
	}
}

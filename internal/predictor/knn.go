package predictor

import (
	"fmt"
	"math"
	"sort"
)

// KNN is a fitted k-nearest-neighbors regressor over a stored training set.
// Prediction averages the targets of the K nearest rows by euclidean distance.
type KNN struct {
	K       int         `json:"k"`
	Samples [][]float64 `json:"samples"`
	Targets []float64   `json:"targets"`
}

func (m *KNN) Family() string { return FamilyKNN }

func (m *KNN) Predict(rows [][]float64) ([]float64, error) {
	if m.K <= 0 || len(m.Samples) == 0 || len(m.Samples) != len(m.Targets) {
		return nil, fmt.Errorf("knn model not fitted: k=%d samples=%d targets=%d", m.K, len(m.Samples), len(m.Targets))
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.Samples[0]) {
			return nil, fmt.Errorf("row %d: got %d features, model has %d", i, len(row), len(m.Samples[0]))
		}
		out[i] = m.predictRow(row)
	}
	return out, nil
}

func (m *KNN) predictRow(row []float64) float64 {
	type neighbor struct {
		dist   float64
		target float64
	}
	ns := make([]neighbor, len(m.Samples))
	for i, s := range m.Samples {
		var d float64
		for j := range s {
			diff := s[j] - row[j]
			d += diff * diff
		}
		ns[i] = neighbor{dist: math.Sqrt(d), target: m.Targets[i]}
	}
	sort.Slice(ns, func(a, b int) bool { return ns[a].dist < ns[b].dist })
	k := m.K
	if k > len(ns) {
		k = len(ns)
	}
	var sum float64
	for _, n := range ns[:k] {
		sum += n.target
	}
	return sum / float64(k)
}

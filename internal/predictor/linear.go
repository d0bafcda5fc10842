package predictor

import "fmt"

// Linear is a fitted linear regressor: y = x·Coef + Intercept.
type Linear struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (l *Linear) Family() string { return FamilyLinear }

func (l *Linear) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(l.Coef) {
			return nil, fmt.Errorf("row %d: got %d features, model has %d", i, len(row), len(l.Coef))
		}
		y := l.Intercept
		for j, x := range row {
			y += x * l.Coef[j]
		}
		out[i] = y
	}
	return out, nil
}

// Package predictor defines the capability interface served by runners and
// the artifact codec that persists concrete predictor families.
package predictor

// Family identifiers for the built-in CPU predictor families.
const (
	FamilyLinear = "linear"
	FamilyKNN    = "knn"
)

// Predictor is the capability a servable model must provide: score a batch
// of rows and return one value per row, in input order.
type Predictor interface {
	// Family returns the variant tag used by the codec to reconstruct
	// the concrete type at load time.
	Family() string
	// Predict scores rows and returns exactly one output per input row.
	Predict(rows [][]float64) ([]float64, error)
}

// families maps a variant tag to a constructor for the empty concrete type
// the codec decodes artifact params into.
var families = map[string]func() Predictor{
	FamilyLinear: func() Predictor { return &Linear{} },
	FamilyKNN:    func() Predictor { return &KNN{} },
}

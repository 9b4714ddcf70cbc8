package regressor

import (
	"fmt"
	"math"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Regressor produces one scalar from a prepared feature vector. From the
// pipeline's point of view it is a pure function; implementations must be
// safe for concurrent use.
type Regressor interface {
	Predict(x model.FeatureVector) (float64, error)
	Close() error
}

// Func adapts a plain function to the Regressor interface.
type Func func(x model.FeatureVector) (float64, error)

func (f Func) Predict(x model.FeatureVector) (float64, error) { return f(x) }

func (f Func) Close() error { return nil }

func checkFinite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite prediction %v", v)
	}
	return v, nil
}

func checkFeatureOrder(features []string) error {
	if len(features) != model.NumFeatures {
		return fmt.Errorf("want %d features, got %d", model.NumFeatures, len(features))
	}
	for i, f := range features {
		if f != model.FeatureOrder[i] {
			return fmt.Errorf("feature %d is %q, want %q", i, f, model.FeatureOrder[i])
		}
	}
	return nil
}

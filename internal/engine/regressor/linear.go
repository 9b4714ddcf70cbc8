package regressor

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Linear is a fitted linear regressor: coef · x + intercept.
type Linear struct {
	coef      model.FeatureVector
	intercept float64
}

// NewLinear creates a Linear model. features must equal model.FeatureOrder.
func NewLinear(features []string, coef []float64, intercept float64) (*Linear, error) {
	if err := checkFeatureOrder(features); err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	if len(coef) != model.NumFeatures {
		return nil, fmt.Errorf("linear: want %d coefficients, got %d", model.NumFeatures, len(coef))
	}
	l := &Linear{intercept: intercept}
	copy(l.coef[:], coef)
	return l, nil
}

type linearDocument struct {
	Features  []string  `json:"features" validate:"required,len=13,dive,required"`
	Coef      []float64 `json:"coef" validate:"required,len=13"`
	Intercept *float64  `json:"intercept" validate:"required"`
}

var validate = validator.New()

// LoadLinear reads a linear model from JSON:
//
//	{"features": ["Age", ...], "coef": [...], "intercept": 1.5}
func LoadLinear(r io.Reader) (*Linear, error) {
	var doc linearDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("linear: decode: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("linear: %w", err)
	}
	return NewLinear(doc.Features, doc.Coef, *doc.Intercept)
}

// Predict returns coef · x + intercept.
func (l *Linear) Predict(x model.FeatureVector) (float64, error) {
	var sum float64
	for i, w := range l.coef {
		sum += w * x[i]
	}
	return checkFinite(sum + l.intercept)
}

func (l *Linear) Close() error { return nil }

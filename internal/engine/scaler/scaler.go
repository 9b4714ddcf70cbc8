package scaler

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Scaler standardizes the numeric features as (x - mean) / scale, in
// model.ScaledFields order.
type Scaler struct {
	mean  [model.NumScaled]float64
	scale [model.NumScaled]float64
}

// New creates a Scaler. features must list model.ScaledFields in the same
// order; a mismatch means the parameters were fitted on a different layout.
// A zero scale is treated as 1, as for constant features at fit time.
func New(features []string, mean, scale []float64) (*Scaler, error) {
	if len(features) != model.NumScaled || len(mean) != model.NumScaled || len(scale) != model.NumScaled {
		return nil, fmt.Errorf("scaler: want %d features, got features=%d mean=%d scale=%d",
			model.NumScaled, len(features), len(mean), len(scale))
	}
	s := &Scaler{}
	for i, f := range features {
		if f != model.ScaledFields[i] {
			return nil, fmt.Errorf("scaler: feature %d is %q, want %q", i, f, model.ScaledFields[i])
		}
		s.mean[i] = mean[i]
		s.scale[i] = scale[i]
		if s.scale[i] == 0 {
			s.scale[i] = 1
		}
	}
	return s, nil
}

// Transform standardizes x. It is linear and total: no clipping.
func (s *Scaler) Transform(x [model.NumScaled]float64) [model.NumScaled]float64 {
	var out [model.NumScaled]float64
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out
}

// Params returns the mean and scale of field.
func (s *Scaler) Params(field string) (mean, scale float64, ok bool) {
	for i, f := range model.ScaledFields {
		if f == field {
			return s.mean[i], s.scale[i], true
		}
	}
	return 0, 0, false
}

type document struct {
	Features []string  `json:"features" validate:"required,len=7,dive,required"`
	Mean     []float64 `json:"mean" validate:"required,len=7"`
	Scale    []float64 `json:"scale" validate:"required,len=7,dive,gte=0"`
}

var validate = validator.New()

// Load reads scaler parameters from JSON:
//
//	{"features": ["Age", ...], "mean": [...], "scale": [...]}
func Load(r io.Reader) (*Scaler, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("scaler: decode: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("scaler: %w", err)
	}
	return New(doc.Features, doc.Mean, doc.Scale)
}

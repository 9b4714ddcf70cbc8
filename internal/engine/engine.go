package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/crimson-sun/healthrisk/internal/artifact"
	"github.com/crimson-sun/healthrisk/internal/engine/encoder"
	"github.com/crimson-sun/healthrisk/internal/engine/formatter"
	"github.com/crimson-sun/healthrisk/internal/engine/regressor"
	"github.com/crimson-sun/healthrisk/internal/engine/scaler"
	"github.com/crimson-sun/healthrisk/internal/engine/schema"
	"github.com/crimson-sun/healthrisk/internal/model"
)

// Model names used in InferenceError.
const (
	RiskModel   = "risk_reduction"
	HealthModel = "health_score"
)

// ErrClosed is returned by Predict on an engine that has been closed.
var ErrClosed = errors.New("engine: closed")

// Engine orchestrates the validate → encode → standardize → infer → format
// pipeline. It holds only read-only artifacts and is safe for concurrent use.
type Engine struct {
	// mu is held shared by every prediction and exclusively by Close, so
	// models are never released under a running inference.
	mu     sync.RWMutex
	closed bool


	encoders *encoder.Set
	scaler   *scaler.Scaler
	risk     regressor.Regressor
	health   regressor.Regressor
	bundle   *artifact.Bundle
}

// New creates an Engine from fitted artifacts. The encoder set must cover
// every categorical field.
func New(enc *encoder.Set, sc *scaler.Scaler, risk, health regressor.Regressor) (*Engine, error) {
	if enc == nil || sc == nil || risk == nil || health == nil {
		return nil, &model.ConfigurationError{Msg: "engine: incomplete artifact set"}
	}
	if err := enc.Complete(); err != nil {
		return nil, &model.ConfigurationError{Msg: "engine", Err: err}
	}
	return &Engine{
		encoders: enc,
		scaler:   sc,
		risk:     risk,
		health:   health,
	}, nil
}

// Predict runs the full pipeline on one raw profile. It returns both
// predictions or an error from the first failing stage, never a partial result.
func (e *Engine) Predict(raw map[string]any) (model.PredictionResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return model.PredictionResult{}, ErrClosed
	}

	profile, err := schema.Validate(raw)
	if err != nil {
		return model.PredictionResult{}, err
	}

	vec, err := e.Prepare(profile)
	if err != nil {
		return model.PredictionResult{}, err
	}

	risk, err := e.risk.Predict(vec)
	if err != nil {
		return model.PredictionResult{}, &model.InferenceError{Model: RiskModel, Err: err}
	}
	health, err := e.health.Predict(vec)
	if err != nil {
		return model.PredictionResult{}, &model.InferenceError{Model: HealthModel, Err: err}
	}

	return formatter.Format(risk, health), nil
}

// Prepare builds the feature vector for a validated profile: categorical
// fields become label codes, scaled fields are standardized, and the rest
// pass through. Columns are placed by model.FeatureOrder.
func (e *Engine) Prepare(p model.HealthProfile) (model.FeatureVector, error) {
	var vec model.FeatureVector

	for _, f := range model.CategoricalFields {
		code, err := e.encoders.Encode(f, p.Category(f))
		if err != nil {
			return model.FeatureVector{}, err
		}
		vec[model.Column(f)] = float64(code)
	}

	var raw [model.NumScaled]float64
	for i, f := range model.ScaledFields {
		raw[i] = p.Numeric(f)
	}
	for i, v := range e.scaler.Transform(raw) {
		vec[model.Column(model.ScaledFields[i])] = v
	}

	for _, f := range model.PassthroughFields {
		vec[model.Column(f)] = p.Numeric(f)
	}
	return vec, nil
}

// PredictBatch runs Predict on each profile and stops at the first failure.
func (e *Engine) PredictBatch(raws []map[string]any) ([]model.PredictionResult, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	results := make([]model.PredictionResult, 0, len(raws))
	for i, raw := range raws {
		r, err := e.Predict(raw)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Close waits for in-flight predictions, then releases both models. Later
// calls are no-ops.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	return errors.Join(e.risk.Close(), e.health.Close())
}

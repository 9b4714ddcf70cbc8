package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crimson-sun/healthrisk/internal/engine/encoder"
	"github.com/crimson-sun/healthrisk/internal/engine/regressor"
	"github.com/crimson-sun/healthrisk/internal/engine/scaler"
	"github.com/crimson-sun/healthrisk/internal/model"
)

// Artifact names in a store.
const (
	EncodersName    = "label_encoders.json"
	ScalerName      = "scaler.json"
	RiskModelBase   = "best_risk_model"
	HealthModelBase = "best_health_model"
)

// Format selects how the two regressors are persisted.
type Format string

const (
	FormatONNX Format = "onnx"
	FormatJSON Format = "json"
)

// ModelName returns the artifact name of a model under format f.
func ModelName(base string, f Format) string {
	return base + "." + string(f)
}

// Names returns every artifact a bundle in format f is built from.
func Names(f Format) []string {
	return []string{
		EncodersName,
		ScalerName,
		ModelName(RiskModelBase, f),
		ModelName(HealthModelBase, f),
	}
}

// Options controls how models are loaded.
type Options struct {
	Format Format
	// RuntimeLibrary is the ONNX Runtime shared library path. Ignored for
	// FormatJSON.
	RuntimeLibrary string
}

// Bundle is the immutable set of fitted artifacts one engine runs on.
type Bundle struct {
	Encoders *encoder.Set
	Scaler   *scaler.Scaler
	Risk     regressor.Regressor
	Health   regressor.Regressor

	Source   string
	Format   Format
	LoadedAt time.Time
}

// Load reads and validates all four artifacts from store. Any missing or
// malformed artifact fails with a ConfigurationError.
func Load(ctx context.Context, store Store, opts Options) (*Bundle, error) {
	if opts.Format == "" {
		opts.Format = FormatONNX
	}
	if opts.Format != FormatONNX && opts.Format != FormatJSON {
		return nil, &model.ConfigurationError{Msg: fmt.Sprintf("unknown model format %q", opts.Format)}
	}

	data, err := store.Read(ctx, EncodersName)
	if err != nil {
		return nil, configErr(EncodersName, err)
	}
	enc, err := encoder.Load(bytes.NewReader(data))
	if err != nil {
		return nil, configErr(EncodersName, err)
	}
	if err := enc.Complete(); err != nil {
		return nil, configErr(EncodersName, err)
	}

	data, err = store.Read(ctx, ScalerName)
	if err != nil {
		return nil, configErr(ScalerName, err)
	}
	sc, err := scaler.Load(bytes.NewReader(data))
	if err != nil {
		return nil, configErr(ScalerName, err)
	}

	risk, err := loadModel(ctx, store, RiskModelBase, opts)
	if err != nil {
		return nil, err
	}
	health, err := loadModel(ctx, store, HealthModelBase, opts)
	if err != nil {
		risk.Close()
		return nil, err
	}

	return &Bundle{
		Encoders: enc,
		Scaler:   sc,
		Risk:     risk,
		Health:   health,
		Source:   store.Describe(),
		Format:   opts.Format,
		LoadedAt: time.Now(),
	}, nil
}

func loadModel(ctx context.Context, store Store, base string, opts Options) (regressor.Regressor, error) {
	name := ModelName(base, opts.Format)
	data, err := store.Read(ctx, name)
	if err != nil {
		return nil, configErr(name, err)
	}

	var r regressor.Regressor
	switch opts.Format {
	case FormatJSON:
		r, err = regressor.LoadLinear(bytes.NewReader(data))
	default:
		r, err = regressor.NewONNX(data, opts.RuntimeLibrary)
	}
	if err != nil {
		return nil, configErr(name, err)
	}
	return r, nil
}

func configErr(name string, err error) error {
	return &model.ConfigurationError{Msg: "load " + name, Err: err}
}

// Close releases both models.
func (b *Bundle) Close() error {
	return errors.Join(b.Risk.Close(), b.Health.Close())
}

// Summary describes a bundle for operators.
type Summary struct {
	Source   string              `json:"source"`
	Format   Format              `json:"format"`
	LoadedAt time.Time           `json:"loaded_at"`
	Classes  map[string][]string `json:"classes"`
	Scaler   []ScalerParam       `json:"scaler"`
}

// ScalerParam is one standardized feature.
type ScalerParam struct {
	Feature string  `json:"feature"`
	Mean    float64 `json:"mean"`
	Scale   float64 `json:"scale"`
}

// Summary lists the fitted classes and scaler parameters.
func (b *Bundle) Summary() Summary {
	s := Summary{
		Source:   b.Source,
		Format:   b.Format,
		LoadedAt: b.LoadedAt,
		Classes:  make(map[string][]string),
	}
	for _, f := range b.Encoders.Fields() {
		e, _ := b.Encoders.Get(f)
		s.Classes[f] = e.Classes()
	}
	for _, f := range model.ScaledFields {
		mean, scale, _ := b.Scaler.Params(f)
		s.Scaler = append(s.Scaler, ScalerParam{Feature: f, Mean: mean, Scale: scale})
	}
	return s
}

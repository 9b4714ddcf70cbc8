package engine

import (
	"github.com/crimson-sun/healthrisk/internal/artifact"
)

// FromBundle creates an Engine over a loaded artifact bundle.
func FromBundle(b *artifact.Bundle) (*Engine, error) {
	e, err := New(b.Encoders, b.Scaler, b.Risk, b.Health)
	if err != nil {
		return nil, err
	}
	e.bundle = b
	return e, nil
}

// Summary describes the artifacts the engine runs on. The second result is
// false for engines not built from a bundle.
func (e *Engine) Summary() (artifact.Summary, bool) {
	if e.bundle == nil {
		return artifact.Summary{}, false
	}
	return e.bundle.Summary(), true
}

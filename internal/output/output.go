package output

import (
	"context"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Record is the outcome of one batch invocation: a result or an error,
// never both.
type Record struct {
	Line   int // source line, 0 when not from a batch
	Result model.PredictionResult
	Err    error
}

// Output defines the interface for prediction destinations.
type Output interface {
	Write(ctx context.Context, rec Record) error
	Close() error
}

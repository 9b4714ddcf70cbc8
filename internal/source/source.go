package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Source yields raw profiles for batch prediction.
type Source interface {
	// Stream sends profiles in input order and closes the channel when the
	// input is exhausted or ctx is cancelled.
	Stream(ctx context.Context) (<-chan model.RawProfile, error)
}

// Open returns a reader for path. "-" and "" mean stdin, which is not
// closed by the returned closer.
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return f, nil
}

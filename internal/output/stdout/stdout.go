package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/crimson-sun/healthrisk/internal/output"
)

// Output writes rendered records to an io.Writer, stdout by default.
type Output struct {
	mu     sync.Mutex
	w      io.Writer
	format output.Format
}

// New creates an Output on os.Stdout.
func New(format output.Format) *Output {
	return NewWriter(os.Stdout, format)
}

// NewWriter creates an Output on w.
func NewWriter(w io.Writer, format output.Format) *Output {
	return &Output{w: w, format: format}
}

func (o *Output) Write(_ context.Context, rec output.Record) error {
	data, err := output.Render(rec, o.format)
	if err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.w.Write(data); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}

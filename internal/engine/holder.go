package engine

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/healthrisk/internal/artifact"
	"github.com/crimson-sun/healthrisk/internal/model"
)

// Holder publishes the active Engine. Replacing it is a single atomic
// pointer swap, so a request sees either the old artifact set or the new
// one, never a mix.
type Holder struct {
	cur atomic.Pointer[Engine]
	log zerolog.Logger
}

// HolderOption configures a Holder.
type HolderOption func(*Holder)

// WithHolderLogger sets the logger that reports failures closing replaced
// engines. Default: no logging.
func WithHolderLogger(l zerolog.Logger) HolderOption {
	return func(h *Holder) { h.log = l }
}

// NewHolder creates a Holder serving e.
func NewHolder(e *Engine, opts ...HolderOption) *Holder {
	h := &Holder{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	h.cur.Store(e)
	return h
}

// Engine returns the active engine.
func (h *Holder) Engine() *Engine {
	return h.cur.Load()
}

// Predict runs the active engine. A call that lands on an engine closed by
// a concurrent Replace is retried on its successor.
func (h *Holder) Predict(raw map[string]any) (model.PredictionResult, error) {
	for {
		e := h.cur.Load()
		res, err := e.Predict(raw)
		if errors.Is(err, ErrClosed) && h.cur.Load() != e {
			continue
		}
		return res, err
	}
}

// Swap installs next and returns the previous engine without closing it.
func (h *Holder) Swap(next *Engine) *Engine {
	return h.cur.Swap(next)
}

// Replace installs next and closes the previous engine after grace. Close
// itself waits for predictions still running on the previous engine, so
// grace only delays the release.
func (h *Holder) Replace(next *Engine, grace time.Duration) {
	prev := h.Swap(next)
	if prev == nil || prev == next {
		return
	}
	time.AfterFunc(grace, func() {
		if err := prev.Close(); err != nil {
			h.log.Error().Err(err).Msg("close replaced engine")
		}
	})
}

// Close closes the active engine.
func (h *Holder) Close() error {
	if e := h.cur.Load(); e != nil {
		return e.Close()
	}
	return nil
}

// Summary describes the artifacts of the active engine.
func (h *Holder) Summary() (artifact.Summary, bool) {
	e := h.cur.Load()
	if e == nil {
		return artifact.Summary{}, false
	}
	return e.Summary()
}

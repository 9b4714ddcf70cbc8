package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/crimson-sun/healthrisk/internal/model"
	"github.com/crimson-sun/healthrisk/internal/output"
	"github.com/crimson-sun/healthrisk/internal/source"
)

// Predictor runs the inference pipeline on one raw profile.
type Predictor interface {
	Predict(raw map[string]any) (model.PredictionResult, error)
}

// Stats counts what a run produced.
type Stats struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-record failures. Default: disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// Pipeline connects a source, predictor, and output. Each record is an
// independent invocation: a failed record becomes an error record and the
// run continues.
type Pipeline struct {
	source    source.Source
	predictor Predictor
	output    output.Output
	log       zerolog.Logger
}

// New creates a Pipeline from the given components.
func New(src source.Source, pred Predictor, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    src,
		predictor: pred,
		output:    out,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every record until the source is exhausted or ctx is
// cancelled. Only source and output failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	ch, err := p.source.Stream(ctx)
	if err != nil {
		return stats, fmt.Errorf("pipeline stream: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case raw, ok := <-ch:
			if !ok {
				return stats, nil
			}
			rec := p.process(raw)
			stats.Processed++
			if rec.Err != nil {
				stats.Failed++
				p.log.Debug().Int("line", rec.Line).Err(rec.Err).Msg("record failed")
			}
			if err := p.output.Write(ctx, rec); err != nil {
				return stats, fmt.Errorf("pipeline output: %w", err)
			}
		}
	}
}

func (p *Pipeline) process(raw model.RawProfile) output.Record {
	if raw.Err != nil {
		return output.Record{Line: raw.Line, Err: raw.Err}
	}
	result, err := p.predictor.Predict(raw.Fields)
	if err != nil {
		return output.Record{Line: raw.Line, Err: err}
	}
	return output.Record{Line: raw.Line, Result: result}
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}

package healthrisk

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/crimson-sun/healthrisk/internal/artifact"
	"github.com/crimson-sun/healthrisk/internal/engine"
)

// Store reads persisted artifacts by name.
type Store interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Describe() string
}

// Predictor runs the inference pipeline over one loaded artifact set.
// Safe for concurrent use.
type Predictor struct {
	holder *engine.Holder
	store  Store
	opts   options
}

// New loads the artifacts and prepares both models. This is expensive;
// create once and reuse.
func New(opts ...Option) (*Predictor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	store, err := resolveStore(o)
	if err != nil {
		return nil, fmt.Errorf("healthrisk: %w", err)
	}
	p := &Predictor{store: store, opts: o}

	eng, err := p.load(context.Background())
	if err != nil {
		return nil, err
	}
	p.holder = engine.NewHolder(eng)
	return p, nil
}

func resolveStore(o options) (Store, error) {
	switch {
	case o.store != nil:
		return o.store, nil
	case o.fsys != nil:
		return artifact.NewFSStore(o.fsys, "fs"), nil
	}
	ds, err := artifact.NewDirStore(o.artifactDir)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (p *Predictor) load(ctx context.Context) (*engine.Engine, error) {
	lib := p.opts.runtimeLibrary
	if ds, ok := p.store.(*artifact.DirStore); ok && lib == "" {
		lib = filepath.Join(ds.Dir(), "libonnxruntime.so")
	}
	b, err := artifact.Load(ctx, p.store, artifact.Options{
		Format:         artifact.Format(p.opts.modelFormat),
		RuntimeLibrary: lib,
	})
	if err != nil {
		return nil, fmt.Errorf("healthrisk: %w", err)
	}
	eng, err := engine.FromBundle(b)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("healthrisk: %w", err)
	}
	return eng, nil
}

// Predict runs validation, encoding, standardization and both models on one
// profile. It returns both predictions or an error, never one without the
// other.
func (p *Predictor) Predict(profile map[string]any) (Result, error) {
	r, err := p.holder.Predict(profile)
	if err != nil {
		return Result{}, err
	}
	return resultFromModel(r), nil
}

// PredictBatch predicts each profile in order and stops at the first failure.
func (p *Predictor) PredictBatch(profiles []map[string]any) ([]Result, error) {
	rs, err := p.holder.Engine().PredictBatch(profiles)
	if err != nil {
		return nil, err
	}
	if rs == nil {
		return nil, nil
	}
	out := make([]Result, len(rs))
	for i, r := range rs {
		out[i] = resultFromModel(r)
	}
	return out, nil
}

// Reload loads the artifacts again and swaps them in. On failure the
// current artifacts stay active.
func (p *Predictor) Reload(ctx context.Context) error {
	eng, err := p.load(ctx)
	if err != nil {
		return err
	}
	p.holder.Replace(eng, p.opts.reloadGrace)
	return nil
}

// Classes returns the fitted labels of a categorical field.
func (p *Predictor) Classes(field string) ([]string, bool) {
	sum, ok := p.holder.Summary()
	if !ok {
		return nil, false
	}
	c, ok := sum.Classes[field]
	return c, ok
}

// Close releases model resources. The Predictor must not be used afterwards.
func (p *Predictor) Close() error {
	return p.holder.Close()
}

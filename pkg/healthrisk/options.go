package healthrisk

import (
	"io/fs"
	"time"
)

type options struct {
	artifactDir    string
	fsys           fs.FS
	store          Store
	modelFormat    string
	runtimeLibrary string
	reloadGrace    time.Duration
}

func defaultOptions() options {
	return options{
		artifactDir: "models",
		modelFormat: "onnx",
		reloadGrace: 30 * time.Second,
	}
}

// Option configures a Predictor.
type Option func(*options)

// WithArtifactDir sets the directory holding label_encoders.json,
// scaler.json and the two models. Relative paths are resolved once, when
// the Predictor is created. Default: "models".
func WithArtifactDir(dir string) Option {
	return func(o *options) { o.artifactDir = dir }
}

// WithFS reads artifacts from fsys instead of a directory.
func WithFS(fsys fs.FS) Option {
	return func(o *options) { o.fsys = fsys }
}

// WithStore reads artifacts from a custom store, such as the PostgreSQL
// registry.
func WithStore(s Store) Option {
	return func(o *options) { o.store = s }
}

// WithModelFormat selects "onnx" (default) or "json" (linear models).
func WithModelFormat(format string) Option {
	return func(o *options) { o.modelFormat = format }
}

// WithRuntimeLibrary sets the ONNX Runtime shared library path. Default:
// libonnxruntime.so in the artifact directory.
func WithRuntimeLibrary(path string) Option {
	return func(o *options) { o.runtimeLibrary = path }
}

// WithReloadGrace sets how long a replaced artifact set stays open for
// in-flight predictions after Reload. Default: 30s.
func WithReloadGrace(d time.Duration) Option {
	return func(o *options) { o.reloadGrace = d }
}

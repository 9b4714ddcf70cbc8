package testdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/crimson-sun/healthrisk/internal/model"
)

//go:embed artifacts
var artifactFS embed.FS

//go:embed golden.json
var goldenJSON []byte

// Artifacts returns a frozen artifact set in JSON model format: label
// encoders, scaler, and linear risk and health models.
func Artifacts() fs.FS {
	sub, err := fs.Sub(artifactFS, "artifacts")
	if err != nil {
		panic(err)
	}
	return sub
}

// GoldenEntry is a profile with the result (or error) captured against Artifacts.
type GoldenEntry struct {
	Name      string                 `json:"name"`
	Profile   map[string]any         `json:"profile"`
	Want      model.PredictionResult `json:"want"`
	WantError model.Kind             `json:"want_error"`
	WantField string                 `json:"want_field"`
}

// LoadGolden parses the embedded golden.json.
func LoadGolden() ([]GoldenEntry, error) {
	var entries []GoldenEntry
	if err := json.Unmarshal(goldenJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse golden.json: %w", err)
	}
	return entries, nil
}

// Profile returns a copy of the named entry's profile.
func Profile(name string) (map[string]any, error) {
	entries, err := LoadGolden()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e.Profile, nil
		}
	}
	return nil, fmt.Errorf("no golden entry %q", name)
}

package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/crimson-sun/healthrisk/internal/model"
	"github.com/crimson-sun/healthrisk/internal/output"
)

func TestOutputText(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.FormatText)

	rec := output.Record{Result: model.PredictionResult{ProjectedRiskReduction: 6.68, OutcomeHealthScore: 81.25}}
	if err := out.Write(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	want := "Predicted Projected Risk Reduction: 6.68\nPredicted Outcome Health Score: 81.25\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestOutputNDJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.FormatJSON)
	ctx := context.Background()

	out.Write(ctx, output.Record{Line: 1, Result: model.PredictionResult{ProjectedRiskReduction: 1, OutcomeHealthScore: 2}})
	out.Write(ctx, output.Record{Line: 2, Err: &model.UnknownCategoryError{Field: model.FieldRegion, Value: "Atlantis"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for i, l := range lines {
		var m map[string]any
		if err := json.Unmarshal([]byte(l), &m); err != nil {
			t.Fatalf("line %d invalid JSON: %v", i, err)
		}
	}
	if !strings.Contains(lines[1], `"field":"Region"`) {
		t.Errorf("error record missing field: %s", lines[1])
	}
}

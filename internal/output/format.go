package output

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// Format selects how records are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("output: unknown format %q (want text or json)", s)
}

// KindInvalidInput labels errors that carry no pipeline kind, such as an
// unparseable batch line.
const KindInvalidInput model.Kind = "invalid_input"

// FormatValue prints a float the way the legacy service did: shortest
// round-trip digits, always at least one decimal place ("12.0"), and
// exponent form outside [1e-4, 1e16).
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatResultText renders a result as the two-line legacy response.
func FormatResultText(r model.PredictionResult) string {
	return "Predicted Projected Risk Reduction: " + FormatValue(r.ProjectedRiskReduction) +
		"\nPredicted Outcome Health Score: " + FormatValue(r.OutcomeHealthScore)
}

// ErrorText renders an error as the legacy "Error: <message>" line.
func ErrorText(err error) string {
	return "Error: " + err.Error()
}

// ErrorBody is the structured form of a failed invocation.
type ErrorBody struct {
	Kind    model.Kind `json:"kind"`
	Message string     `json:"message"`
	Field   string     `json:"field,omitempty"`
}

// NewErrorBody classifies err.
func NewErrorBody(err error) ErrorBody {
	kind, ok := model.KindOf(err)
	if !ok {
		kind = KindInvalidInput
	}
	return ErrorBody{Kind: kind, Message: err.Error(), Field: model.FieldOf(err)}
}

type jsonRecord struct {
	Line                   int        `json:"line,omitempty"`
	ProjectedRiskReduction *float64   `json:"Projected_Risk_Reduction,omitempty"`
	OutcomeHealthScore     *float64   `json:"Outcome_Health_Score,omitempty"`
	Error                  *ErrorBody `json:"error,omitempty"`
}

// Render returns rec in format f, terminated by a newline. Text errors from
// a batch are prefixed with their line number.
func Render(rec Record, f Format) ([]byte, error) {
	if f == FormatJSON {
		jr := jsonRecord{Line: rec.Line}
		if rec.Err != nil {
			body := NewErrorBody(rec.Err)
			jr.Error = &body
		} else {
			jr.ProjectedRiskReduction = &rec.Result.ProjectedRiskReduction
			jr.OutcomeHealthScore = &rec.Result.OutcomeHealthScore
		}
		data, err := json.Marshal(jr)
		if err != nil {
			return nil, fmt.Errorf("output: marshal: %w", err)
		}
		return append(data, '\n'), nil
	}

	switch {
	case rec.Err != nil && rec.Line > 0:
		return []byte(fmt.Sprintf("Error: line %d: %s\n", rec.Line, rec.Err)), nil
	case rec.Err != nil:
		return []byte(ErrorText(rec.Err) + "\n"), nil
	}
	return []byte(FormatResultText(rec.Result) + "\n"), nil
}

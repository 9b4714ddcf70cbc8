package scaler

import (
	"strings"
	"testing"

	"github.com/crimson-sun/healthrisk/internal/model"
)

const testDoc = `{
	"features": ["Age", "BMI", "Omega_3_Intake", "Vitamin_D_Intake", "Protein_Intake", "Genetic_Risk_Score", "Years_Followed"],
	"mean": [50, 25, 1.0, 500, 70, 0.5, 5],
	"scale": [10, 5, 0.5, 200, 20, 0.25, 2]
}`

func TestTransform(t *testing.T) {
	s, err := Load(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	got := s.Transform([model.NumScaled]float64{60, 30, 0.5, 400, 60, 0.75, 9})
	want := [model.NumScaled]float64{1, 1, -1, -0.5, -0.5, 1, 2}
	if got != want {
		t.Errorf("Transform() = %v, want %v", got, want)
	}
}

func TestTransformNoClipping(t *testing.T) {
	s, err := Load(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	got := s.Transform([model.NumScaled]float64{1050, 25, 1, 500, 70, 0.5, 5})
	if got[0] != 100 {
		t.Errorf("Age standardized to %v, want 100", got[0])
	}
}

func TestZeroScaleIsIdentityScale(t *testing.T) {
	s, err := New(model.ScaledFields[:], make([]float64, 7), []float64{0, 1, 1, 1, 1, 1, 1})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got := s.Transform([model.NumScaled]float64{3})
	if got[0] != 3 {
		t.Errorf("got %v, want 3", got[0])
	}
	if _, scale, _ := s.Params("Age"); scale != 1 {
		t.Errorf("scale = %v, want 1", scale)
	}
}

func TestNewRejectsReorderedFeatures(t *testing.T) {
	features := model.ScaledFields
	features[0], features[1] = features[1], features[0]
	_, err := New(features[:], make([]float64, 7), make([]float64, 7))
	if err == nil {
		t.Fatal("expected error for transposed features")
	}
}

func TestLoadRejectsBadDocuments(t *testing.T) {
	tests := map[string]string{
		"not json":       `[`,
		"short mean":     `{"features": ["Age","BMI","Omega_3_Intake","Vitamin_D_Intake","Protein_Intake","Genetic_Risk_Score","Years_Followed"], "mean": [1], "scale": [1,1,1,1,1,1,1]}`,
		"negative scale": `{"features": ["Age","BMI","Omega_3_Intake","Vitamin_D_Intake","Protein_Intake","Genetic_Risk_Score","Years_Followed"], "mean": [0,0,0,0,0,0,0], "scale": [-1,1,1,1,1,1,1]}`,
		"wrong feature":  `{"features": ["Age","BMI","Omega_3_Intake","Vitamin_D_Intake","Protein_Intake","Genetic_Risk_Score","Diabetes"], "mean": [0,0,0,0,0,0,0], "scale": [1,1,1,1,1,1,1]}`,
		"missing fields": `{}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParamsUnknownField(t *testing.T) {
	s, err := Load(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, _, ok := s.Params("Gender"); ok {
		t.Error("Gender is not a scaled field")
	}
	if mean, scale, ok := s.Params("Vitamin_D_Intake"); !ok || mean != 500 || scale != 200 {
		t.Errorf("Params(Vitamin_D_Intake) = %v, %v, %v", mean, scale, ok)
	}
}

package regressor

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/crimson-sun/healthrisk/internal/model"
)

const featureList = `["Age","Gender","Ethnicity","Region","BMI","Hypertension","Diabetes","Omega_3_Intake","Vitamin_D_Intake","Protein_Intake","Genetic_Risk_Score","Diet_Type","Years_Followed"]`

func TestLinearPredict(t *testing.T) {
	l, err := LoadLinear(strings.NewReader(`{
		"features": ` + featureList + `,
		"coef": [1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, -1],
		"intercept": 10
	}`))
	if err != nil {
		t.Fatalf("LoadLinear() error: %v", err)
	}

	var x model.FeatureVector
	x[0], x[4], x[12] = 3, 0.5, 4
	got, err := l.Predict(x)
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	if got != 10 {
		t.Errorf("Predict() = %v, want 10", got)
	}
}

func TestLinearNonFinite(t *testing.T) {
	coef := make([]float64, model.NumFeatures)
	coef[0] = math.MaxFloat64
	l, err := NewLinear(model.FeatureOrder[:], coef, 0)
	if err != nil {
		t.Fatalf("NewLinear() error: %v", err)
	}
	var x model.FeatureVector
	x[0] = 10
	if _, err := l.Predict(x); err == nil {
		t.Error("expected error for overflowing prediction")
	}
}

func TestLoadLinearRejects(t *testing.T) {
	tests := map[string]string{
		"not json":          `{`,
		"missing intercept": `{"features": ` + featureList + `, "coef": [0,0,0,0,0,0,0,0,0,0,0,0,0]}`,
		"short coef":        `{"features": ` + featureList + `, "coef": [1], "intercept": 0}`,
		"no features":       `{"coef": [0,0,0,0,0,0,0,0,0,0,0,0,0], "intercept": 0}`,
		"transposed": `{"features": ["Gender","Age","Ethnicity","Region","BMI","Hypertension","Diabetes","Omega_3_Intake","Vitamin_D_Intake","Protein_Intake","Genetic_Risk_Score","Diet_Type","Years_Followed"],
			"coef": [0,0,0,0,0,0,0,0,0,0,0,0,0], "intercept": 0}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadLinear(strings.NewReader(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFunc(t *testing.T) {
	boom := errors.New("boom")
	var r Regressor = Func(func(model.FeatureVector) (float64, error) { return 0, boom })
	if _, err := r.Predict(model.FeatureVector{}); !errors.Is(err, boom) {
		t.Errorf("Predict() error = %v, want boom", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

package healthrisk

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/crimson-sun/healthrisk/internal/engine/testdata"
)

func newTestPredictor(t *testing.T, opts ...Option) *Predictor {
	t.Helper()
	opts = append([]Option{WithFS(testdata.Artifacts()), WithModelFormat("json")}, opts...)
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func reference() map[string]any {
	return map[string]any{
		"Age": 45, "Gender": "Male", "Ethnicity": "Asian", "Region": "West",
		"BMI": 24.5, "Hypertension": 0, "Diabetes": 0, "Omega_3_Intake": 1.2,
		"Vitamin_D_Intake": 600, "Protein_Intake": 80, "Genetic_Risk_Score": 0.3,
		"Diet_Type": "Balanced", "Years_Followed": 3,
	}
}

func TestPredict(t *testing.T) {
	p := newTestPredictor(t)

	got, err := p.Predict(reference())
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	want := Result{ProjectedRiskReduction: 6.68, OutcomeHealthScore: 81.25}
	if got != want {
		t.Errorf("Predict() = %+v, want %+v", got, want)
	}
}

func TestPredictErrors(t *testing.T) {
	p := newTestPredictor(t)

	missing := reference()
	delete(missing, "Diet_Type")
	_, err := p.Predict(missing)
	var ve *ValidationError
	if !errors.As(err, &ve) || !IsClientFault(err) {
		t.Errorf("err = %v, want client ValidationError", err)
	}

	unseen := reference()
	unseen["Gender"] = "Robot"
	_, err = p.Predict(unseen)
	if k, _ := KindOf(err); k != KindUnknownCategory {
		t.Errorf("kind = %q, want %q", k, KindUnknownCategory)
	}
}

func TestPredictBatch(t *testing.T) {
	p := newTestPredictor(t)

	rs, err := p.PredictBatch([]map[string]any{reference(), reference()})
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 2 || rs[0] != rs[1] {
		t.Errorf("PredictBatch() = %+v", rs)
	}

	if rs, err := p.PredictBatch(nil); err != nil || rs != nil {
		t.Errorf("PredictBatch(nil) = %v, %v", rs, err)
	}
}

func TestClasses(t *testing.T) {
	p := newTestPredictor(t)

	c, ok := p.Classes("Diet_Type")
	if !ok || len(c) != 5 || c[2] != "Mediterranean" {
		t.Errorf("Classes(Diet_Type) = %v, %v", c, ok)
	}
	if _, ok := p.Classes("Shoe_Size"); ok {
		t.Error("unknown field should report no classes")
	}
}

func TestArtifactDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"label_encoders.json", "scaler.json", "best_risk_model.json", "best_health_model.json"} {
		data, err := fsReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p, err := New(WithArtifactDir(dir), WithModelFormat("json"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer p.Close()
	if _, err := p.Predict(reference()); err != nil {
		t.Errorf("Predict() error: %v", err)
	}
}

func TestNewMissingArtifacts(t *testing.T) {
	_, err := New(WithFS(fstest.MapFS{}), WithModelFormat("json"))
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ConfigurationError", err)
	}

	if _, err := New(WithArtifactDir(filepath.Join(t.TempDir(), "absent"))); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestReload(t *testing.T) {
	fsys := fstest.MapFS{}
	for _, name := range []string{"label_encoders.json", "scaler.json", "best_risk_model.json", "best_health_model.json"} {
		data, err := fsReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		fsys[name] = &fstest.MapFile{Data: data}
	}
	p := newTestPredictor(t, WithFS(fsys), WithReloadGrace(time.Millisecond))

	before, err := p.Predict(reference())
	if err != nil {
		t.Fatal(err)
	}

	// A broken artifact must not replace the active set.
	good := fsys["scaler.json"]
	fsys["scaler.json"] = &fstest.MapFile{Data: []byte("{")}
	if err := p.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if got, err := p.Predict(reference()); err != nil || got != before {
		t.Errorf("after failed reload = %+v, %v", got, err)
	}

	// A constant health model changes only the health score.
	fsys["scaler.json"] = good
	fsys["best_health_model.json"] = &fstest.MapFile{Data: []byte(`{
		"features": ["Age","Gender","Ethnicity","Region","BMI","Hypertension","Diabetes","Omega_3_Intake","Vitamin_D_Intake","Protein_Intake","Genetic_Risk_Score","Diet_Type","Years_Followed"],
		"coef": [0,0,0,0,0,0,0,0,0,0,0,0,0],
		"intercept": 42.5
	}`)}
	if err := p.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	after, err := p.Predict(reference())
	if err != nil {
		t.Fatal(err)
	}
	if after.ProjectedRiskReduction != before.ProjectedRiskReduction || after.OutcomeHealthScore != 42.5 {
		t.Errorf("after reload = %+v", after)
	}
}

func fsReadFile(name string) ([]byte, error) {
	return fs.ReadFile(testdata.Artifacts(), name)
}

package regressor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crimson-sun/healthrisk/internal/model"
)

const testModelDir = "../../../models"

func skipIfNoModel(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(testModelDir, "best_risk_model.onnx"))
	if err != nil {
		t.Skip("ONNX model not available, skipping; export the regressors to models/ first")
	}
	if _, err := os.Stat(filepath.Join(testModelDir, "libonnxruntime.so")); err != nil {
		t.Skip("ONNX Runtime library not available, skipping")
	}
	return data
}

func TestONNXSessionLoad(t *testing.T) {
	data := skipIfNoModel(t)

	sess, err := NewONNX(data, filepath.Join(testModelDir, "libonnxruntime.so"))
	if err != nil {
		t.Fatalf("failed to load ONNX session: %v", err)
	}
	defer sess.Close()

	t.Logf("input: %s (double=%v), output: %s", sess.inputName, sess.double, sess.outputName)
}

func TestONNXPredictDeterministic(t *testing.T) {
	data := skipIfNoModel(t)

	sess, err := NewONNX(data, filepath.Join(testModelDir, "libonnxruntime.so"))
	if err != nil {
		t.Fatalf("failed to load ONNX session: %v", err)
	}
	defer sess.Close()

	x := model.FeatureVector{-0.5, 1, 1, 3, -0.1, 0, 0, 0.4, 0.5, 0.5, -0.8, 0, -1}
	first, err := sess.Predict(x)
	if err != nil {
		t.Fatalf("Predict() error: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := sess.Predict(x)
		if err != nil {
			t.Fatalf("Predict() error: %v", err)
		}
		if got != first {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
	t.Logf("prediction: %v", first)
}

func TestONNXRejectsGarbage(t *testing.T) {
	skipIfNoModel(t)

	if _, err := NewONNX([]byte("not a model"), filepath.Join(testModelDir, "libonnxruntime.so")); err == nil {
		t.Error("expected error for invalid model bytes")
	}
}

package regressor

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/crimson-sun/healthrisk/internal/model"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Only the first call has
// any effect; an empty libPath leaves library lookup to the system loader.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNX runs a regressor exported to ONNX (e.g. with skl2onnx). The model
// must take a single [batch, 13] float or double tensor and produce one
// value per row.
type ONNX struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	double     bool
}

// NewONNX creates an inference session from serialized model bytes.
func NewONNX(onnxData []byte, libPath string) (*ONNX, error) {
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(onnxData)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 input, got %d", len(inputs))
	}
	in := inputs[0]
	if len(in.Dimensions) != 2 || (in.Dimensions[1] != model.NumFeatures && in.Dimensions[1] != -1) {
		return nil, fmt.Errorf("onnx: expected input shape [batch, %d], got %v", model.NumFeatures, in.Dimensions)
	}
	var double bool
	switch in.DataType {
	case ort.TensorElementDataTypeFloat:
	case ort.TensorElementDataTypeDouble:
		double = true
	default:
		return nil, fmt.Errorf("onnx: unsupported input type %v", in.DataType)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("onnx: model has no outputs")
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(
		onnxData,
		[]string{in.Name},
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &ONNX{
		session:    session,
		inputName:  in.Name,
		outputName: outputs[0].Name,
		double:     double,
	}, nil
}

// Predict runs a single-row inference call.
func (s *ONNX) Predict(x model.FeatureVector) (float64, error) {
	input, err := s.inputTensor(x)
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	// A nil output is allocated by the runtime, so [1] and [1, 1] outputs
	// both work.
	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{input}, outputs); err != nil {
		return 0, fmt.Errorf("onnx: inference failed: %w", err)
	}
	defer outputs[0].Destroy()

	var v float64
	switch t := outputs[0].(type) {
	case *ort.Tensor[float32]:
		data := t.GetData()
		if len(data) != 1 {
			return 0, fmt.Errorf("onnx: expected 1 output value, got %d", len(data))
		}
		v = float64(data[0])
	case *ort.Tensor[float64]:
		data := t.GetData()
		if len(data) != 1 {
			return 0, fmt.Errorf("onnx: expected 1 output value, got %d", len(data))
		}
		v = data[0]
	default:
		return 0, fmt.Errorf("onnx: unexpected output %T", outputs[0])
	}
	return checkFinite(v)
}

func (s *ONNX) inputTensor(x model.FeatureVector) (ort.Value, error) {
	shape := ort.NewShape(1, model.NumFeatures)
	if s.double {
		return ort.NewTensor(shape, append([]float64(nil), x[:]...))
	}
	data := make([]float32, model.NumFeatures)
	for i, v := range x {
		data[i] = float32(v)
	}
	return ort.NewTensor(shape, data)
}

// Close releases the ONNX session resources.
func (s *ONNX) Close() error {
	return s.session.Destroy()
}

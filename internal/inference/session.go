// Package inference runs the exported price model through ONNX Runtime.
package inference

import (
	"fmt"
	"os"
	"sync"

	"StockPredictor/internal/tensor"

	ort "github.com/yalue/onnxruntime_go"
)

// Runner executes one forward pass and returns the scalar prediction.
type Runner interface {
	Run(in tensor.Input) (float32, error)
}

// Config describes where the model and the runtime library live.
type Config struct {
	ModelPath   string
	LibraryPath string // path to the onnxruntime shared library; empty uses the binding default
	InputName   string
	OutputName  string
}

// Session wraps a single ONNX Runtime session shared by all requests.
type Session struct {
	mu          sync.Mutex
	cfg         Config
	session     *ort.DynamicAdvancedSession
	inputShape  ort.Shape
	outputShape ort.Shape
}

// Runtime environment hooks, replaced in tests.
var (
	envInitialized = ort.IsInitialized
	initEnv        = ort.InitializeEnvironment
	destroyEnv     = ort.DestroyEnvironment
)

// Open initializes the runtime environment and loads the model. It is meant
// to be called once at startup. An environment initialized here is destroyed
// again if the model cannot be loaded.
func Open(cfg Config) (*Session, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	ownEnv := false
	if !envInitialized() {
		if err := initEnv(); err != nil {
			return nil, fmt.Errorf("init onnxruntime: %w", err)
		}
		ownEnv = true
	}

	s, err := newSession(cfg)
	if err != nil {
		if ownEnv {
			_ = destroyEnv()
		}
		return nil, err
	}
	return s, nil
}

func newSession(cfg Config) (*Session, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("inspect model: %w", err)
	}
	inShape, err := findShape(inputs, cfg.InputName)
	if err != nil {
		return nil, fmt.Errorf("model input: %w", err)
	}
	outShape, err := findShape(outputs, cfg.OutputName)
	if err != nil {
		return nil, fmt.Errorf("model output: %w", err)
	}

	sess, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Session{
		cfg:         cfg,
		session:     sess,
		inputShape:  inShape,
		outputShape: concreteShape(outShape),
	}, nil
}

// InputShape returns the input shape declared by the model; -1 marks a
// dynamic dimension.
func (s *Session) InputShape() []int64 {
	return append([]int64(nil), s.inputShape...)
}

// Run feeds in to the model and returns the first value of the output tensor.
func (s *Session) Run(in tensor.Input) (float32, error) {
	if s == nil {
		return 0, &InferenceError{Op: "run", Err: ErrNotInitialized}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return 0, &InferenceError{Op: "run", Err: ErrNotInitialized}
	}
	if err := checkShape(s.inputShape, in.Shape); err != nil {
		return 0, &InferenceError{Op: "shape", Err: err}
	}

	input, err := ort.NewTensor(ort.NewShape(in.Shape...), in.Data)
	if err != nil {
		return 0, &InferenceError{Op: "input tensor", Err: err}
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](s.outputShape)
	if err != nil {
		return 0, &InferenceError{Op: "output tensor", Err: err}
	}
	defer output.Destroy()

	if err := s.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return 0, &InferenceError{Op: "run", Err: err}
	}

	data := output.GetData()
	if len(data) == 0 {
		return 0, &InferenceError{Op: "run", Err: fmt.Errorf("output %q is empty", s.cfg.OutputName)}
	}
	return data[0], nil
}

// Close releases the session and the runtime environment.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	if envErr := destroyEnv(); err == nil {
		err = envErr
	}
	return err
}

func findShape(infos []ort.InputOutputInfo, name string) (ort.Shape, error) {
	for _, info := range infos {
		if info.Name == name {
			return info.Dimensions, nil
		}
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return nil, fmt.Errorf("no tensor named %q (have %v)", name, names)
}

// checkShape compares got against the model's declared shape, treating
// negative declared dimensions as dynamic.
func checkShape(want, got []int64) error {
	if len(want) == 0 {
		return nil
	}
	if len(want) != len(got) {
		return fmt.Errorf("input rank %d, model expects %d (%v)", len(got), len(want), want)
	}
	for i, d := range want {
		if d >= 0 && d != got[i] {
			return fmt.Errorf("input shape %v does not match model shape %v", got, want)
		}
	}
	return nil
}

// concreteShape replaces dynamic dimensions with 1, matching a batch of one.
func concreteShape(s ort.Shape) ort.Shape {
	if len(s) == 0 {
		return ort.NewShape(1, 1)
	}
	out := make(ort.Shape, len(s))
	for i, d := range s {
		if d < 0 {
			d = 1
		}
		out[i] = d
	}
	return out
}

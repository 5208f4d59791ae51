//go:build cgo

package onnx

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/witchbooru/witchbooru/tagger"
	ort "github.com/yalue/onnxruntime_go"
)

// InitRuntime loads the shared library and initializes the ONNX Runtime
// environment. Call DestroyRuntime on shutdown.
func InitRuntime() error {
	ort.SetSharedLibraryPath(LibPath())
	if ort.IsInitialized() {
		return nil
	}
	return ort.InitializeEnvironment()
}

func DestroyRuntime() {
	if err := ort.DestroyEnvironment(); err != nil {
		slog.Error("Failed to destroy ONNX Runtime environment", slog.String("error", err.Error()))
	}
}

type worker struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func (w *worker) destroy() {
	if w.session != nil {
		w.session.Destroy()
	}
	if w.input != nil {
		w.input.Destroy()
	}
	if w.output != nil {
		w.output.Destroy()
	}
}

// Engine runs the primary network. Each worker owns a session and its bound
// tensors; Run borrows one worker from the pool for the duration of a call.
type Engine struct {
	pool      chan *worker
	workers   []*worker
	outputLen int
}

var _ tagger.Engine = (*Engine)(nil)

// NewEngine builds an engine with the given number of workers from the raw
// bytes of an ONNX model.
func NewEngine(model []byte, workers int) (*Engine, error) {
	if workers <= 0 {
		workers = 1
	}
	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(model)
	if err != nil {
		return nil, &tagger.LoadError{Artifact: "neural net", Err: fmt.Errorf("failed to get model input/output info: %w", err)}
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, &tagger.LoadError{Artifact: "neural net", Err: errors.New("model has no inputs or outputs")}
	}
	in, out := inputs[0], outputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return nil, &tagger.LoadError{Artifact: "neural net", Err: fmt.Errorf("model input %q is %v, want float32", in.Name, in.DataType)}
	}
	if err := checkInputShape(in.Dimensions); err != nil {
		return nil, &tagger.LoadError{Artifact: "neural net", Err: err}
	}
	n, err := outputLen(out.Dimensions)
	if err != nil {
		return nil, &tagger.LoadError{Artifact: "neural net", Err: err}
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer opts.Destroy()

	e := &Engine{pool: make(chan *worker, workers), outputLen: n}
	for range workers {
		w, err := newWorker(model, in.Name, out.Name, n, opts)
		if err != nil {
			e.Destroy()
			return nil, &tagger.LoadError{Artifact: "neural net", Err: err}
		}
		e.workers = append(e.workers, w)
		e.pool <- w
	}
	slog.Info("Loaded neural net",
		slog.String("input", in.Name),
		slog.String("output", out.Name),
		slog.Int("classes", n),
		slog.Int("workers", workers))
	return e, nil
}

func newWorker(model []byte, inputName, outputName string, n int, opts *ort.SessionOptions) (*worker, error) {
	w := &worker{}
	var err error
	w.input, err = ort.NewEmptyTensor[float32](ort.NewShape(inputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	w.output, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(n)))
	if err != nil {
		w.destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	w.session, err = ort.NewAdvancedSessionWithONNXData(
		model,
		[]string{inputName},
		[]string{outputName},
		[]ort.Value{w.input},
		[]ort.Value{w.output},
		opts,
	)
	if err != nil {
		w.destroy()
		return nil, fmt.Errorf("failed to create ONNX Runtime session: %w", err)
	}
	return w, nil
}

func (e *Engine) OutputLen() int { return e.outputLen }

func (e *Engine) Run(input []float32) ([]float32, error) {
	w := <-e.pool
	defer func() { e.pool <- w }()

	data := w.input.GetData()
	if len(input) != len(data) {
		return nil, fmt.Errorf("input has %d values, want %d", len(input), len(data))
	}
	copy(data, input)
	if err := w.session.Run(); err != nil {
		return nil, err
	}
	return slices.Clone(w.output.GetData()), nil
}

// Destroy releases every session. The engine must not be used afterwards.
func (e *Engine) Destroy() {
	for _, w := range e.workers {
		w.destroy()
	}
	e.workers = nil
}

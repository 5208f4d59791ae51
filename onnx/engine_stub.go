//go:build !cgo

package onnx

import (
	"errors"

	"github.com/witchbooru/witchbooru/tagger"
)

// ErrCGORequired is returned when the engine is used without CGO support.
var ErrCGORequired = errors.New("onnx engine requires CGO support; rebuild with CGO_ENABLED=1")

func InitRuntime() error { return ErrCGORequired }

func DestroyRuntime() {}

type Engine struct{}

var _ tagger.Engine = (*Engine)(nil)

func NewEngine(model []byte, workers int) (*Engine, error) {
	return nil, &tagger.LoadError{Artifact: "neural net", Err: ErrCGORequired}
}

func (e *Engine) OutputLen() int { return 0 }

func (e *Engine) Run(input []float32) ([]float32, error) { return nil, ErrCGORequired }

func (e *Engine) Destroy() {}

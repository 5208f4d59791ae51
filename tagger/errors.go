package tagger

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTopK = errors.New("top-k must be positive")
	ErrEmptyImage  = errors.New("image has no pixels")
)

// LoadError reports a malformed or incompatible artifact.
type LoadError struct {
	Artifact string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Artifact, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigMismatchError reports artifacts whose sizes disagree with each other.
type ConfigMismatchError struct {
	Name string
	Want int
	Got  int
}

func (e *ConfigMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d, got %d", e.Name, e.Want, e.Got)
}

// InferenceError reports a failure inside a single Predict call. The
// classifier stays usable.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return "inference failed: " + e.Err.Error()
}

func (e *InferenceError) Unwrap() error { return e.Err }

// DecodeError reports image bytes that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode image: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

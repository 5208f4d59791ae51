package tagger

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/sbinet/npyio/npz"
)

// LinearModel is the secondary model that maps general-tag probabilities to
// character-tag logits: logits = probs·A + B.
type LinearModel struct {
	// A is stored row-major with Rows×Cols entries.
	A    []float32
	B    []float32
	Rows int
	Cols int
}

// NewLinearModel validates the shapes of a and b.
func NewLinearModel(a []float32, rows, cols int, b []float32) (*LinearModel, error) {
	if rows < 0 || cols < 0 || len(a) != rows*cols {
		return nil, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("matrix a has %d values, want %dx%d", len(a), rows, cols)}
	}
	if len(b) != cols {
		return nil, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("bias b has %d values, want %d", len(b), cols)}
	}
	return &LinearModel{A: a, B: b, Rows: rows, Cols: cols}, nil
}

// LoadLinearModel reads the matrix "a" and bias "b" from an .npz archive.
func LoadLinearModel(r io.ReaderAt, size int64) (*LinearModel, error) {
	zr, err := npz.NewReader(r, size)
	if err != nil {
		return nil, &LoadError{Artifact: "naive bayes", Err: err}
	}

	data, aShape, fortran, err := readArray(zr, "a")
	if err != nil {
		return nil, err
	}
	a, rows, cols, err := rowMajor(data, aShape, fortran)
	if err != nil {
		return nil, err
	}

	b, bShape, _, err := readArray(zr, "b")
	if err != nil {
		return nil, err
	}
	if len(bShape) != 1 {
		return nil, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("bias b has shape %v, want 1 dimension", bShape)}
	}
	return NewLinearModel(a, rows, cols, b)
}

func readArray(zr *npz.Reader, name string) ([]float32, []int, bool, error) {
	keys := zr.Keys()
	key := name + ".npy"
	if !slices.Contains(keys, key) {
		if !slices.Contains(keys, name) {
			return nil, nil, false, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("array %q not found", name)}
		}
		key = name
	}
	hdr := zr.Header(key)
	if hdr == nil {
		return nil, nil, false, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("array %q has no header", name)}
	}
	var data []float32
	if err := zr.Read(key, &data); err != nil {
		return nil, nil, false, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("read array %q: %w", name, err)}
	}
	return data, hdr.Descr.Shape, hdr.Descr.Fortran, nil
}

// rowMajor returns the 2-D array data laid out row by row. Column-major
// (Fortran-ordered) data is transposed.
func rowMajor(data []float32, shape []int, fortran bool) ([]float32, int, int, error) {
	if len(shape) != 2 {
		return nil, 0, 0, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("matrix a has shape %v, want 2 dimensions", shape)}
	}
	rows, cols := shape[0], shape[1]
	if len(data) != rows*cols {
		return nil, 0, 0, &LoadError{Artifact: "naive bayes", Err: fmt.Errorf("matrix a has %d values, want %dx%d", len(data), rows, cols)}
	}
	if fortran {
		data = transpose(data, cols, rows)
	}
	return data, rows, cols, nil
}

// transpose turns a rows×cols row-major matrix into cols×rows.
func transpose(m []float32, rows, cols int) []float32 {
	out := make([]float32, len(m))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = m[i*cols+j]
		}
	}
	return out
}

var errLinearInput = errors.New("probability vector does not match matrix rows")

// Apply computes probs·A + B. No activation is applied.
func (m *LinearModel) Apply(probs []float32) ([]float32, error) {
	if len(probs) != m.Rows {
		return nil, fmt.Errorf("%w: %d != %d", errLinearInput, len(probs), m.Rows)
	}
	out := make([]float32, m.Cols)
	for i, p := range probs {
		row := m.A[i*m.Cols : (i+1)*m.Cols]
		for j, a := range row {
			out[j] += p * a
		}
	}
	for j, b := range m.B {
		out[j] += b
	}
	return out, nil
}

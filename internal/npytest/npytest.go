// Package npytest builds NumPy .npz payloads for tests.
package npytest

import (
	"bytes"
	"sort"

	"github.com/sbinet/npyio/npz"
)

// NPZ writes each named value as a C-ordered array. Fixed-size arrays such
// as [3][2]float32 keep their shape; names are used as given.
func NPZ(arrays map[string]any) []byte {
	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := npz.NewWriter(&buf)
	for _, name := range names {
		if err := w.Write(name, arrays[name]); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

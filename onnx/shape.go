package onnx

import (
	"fmt"

	"github.com/witchbooru/witchbooru/tagger"
)

var inputShape = []int64{1, tagger.NumChannels, tagger.ImageSize, tagger.ImageSize}

// checkInputShape accepts (1, 3, 512, 512) with an optional dynamic batch.
func checkInputShape(dims []int64) error {
	if len(dims) != len(inputShape) {
		return fmt.Errorf("model input has shape %v, want %v", dims, inputShape)
	}
	for i, d := range dims {
		if i == 0 && d == -1 {
			continue
		}
		if d != inputShape[i] {
			return fmt.Errorf("model input has shape %v, want %v", dims, inputShape)
		}
	}
	return nil
}

// outputLen returns the number of scores per image for an output shaped
// (batch, classes). Workers bind a (1, classes) tensor, so any other rank is
// rejected.
func outputLen(dims []int64) (int, error) {
	if len(dims) != 2 {
		return 0, fmt.Errorf("model output has shape %v, want (batch, classes)", dims)
	}
	if dims[0] != 1 && dims[0] != -1 {
		return 0, fmt.Errorf("model output batch is %d, want 1", dims[0])
	}
	if dims[1] <= 0 {
		return 0, fmt.Errorf("model output has dynamic shape %v", dims)
	}
	return int(dims[1]), nil
}

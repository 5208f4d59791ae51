package tagger

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVocabulary(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"1girl\nsolo\nlong_hair\n", []string{"1girl", "solo", "long_hair"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nc", []string{"a", "", "c"}},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := ReadVocabulary(strings.NewReader(tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestDecodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	src.SetNRGBA(1, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())

	_, err = DecodeImage(strings.NewReader("definitely not an image"))
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}

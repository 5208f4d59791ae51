package tagger

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patternImage(w, h int, at func(x, y int) color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, at(x, y))
		}
	}
	return img
}

func pixel(img *image.NRGBA, x, y int) [3]uint8 {
	i := img.PixOffset(x, y)
	return [3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h   int
		nw, nh int
	}{
		{1024, 512, 512, 256},
		{512, 1024, 256, 512},
		{100, 50, 512, 256},
		{256, 512, 256, 512},
		{3, 1000, 2, 512},
		{1, 5000, 1, 512},
		{300, 300, 512, 512},
		// 700*512/999 = 358.76 rounds up
		{999, 700, 512, 359},
	}
	for _, tt := range tests {
		nw, nh := fitSize(tt.w, tt.h, ImageSize, ImageSize)
		assert.Equal(t, tt.nw, nw, "width for %dx%d", tt.w, tt.h)
		assert.Equal(t, tt.nh, nh, "height for %dx%d", tt.w, tt.h)
	}
}

func TestPreprocessIdentity(t *testing.T) {
	img := patternImage(ImageSize, ImageSize, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255}
	})

	out := Preprocess(img)
	require.Len(t, out, NumChannels*ImageSize*ImageSize)

	const plane = ImageSize * ImageSize
	for _, p := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {511, 511}, {300, 17}, {255, 256}} {
		px := pixel(img, p.X, p.Y)
		for c := 0; c < NumChannels; c++ {
			got := out[c*plane+p.Y*ImageSize+p.X]
			assert.InDelta(t, float32(px[c])/255, got, 1e-6, "channel %d at %v", c, p)
		}
	}
}

func TestPreprocessRange(t *testing.T) {
	img := patternImage(37, 91, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * 7), G: uint8(y * 3), B: 255, A: 255}
	})
	for _, v := range Preprocess(img) {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestPadHorizontal(t *testing.T) {
	// 256 wide fits without resampling, so every pixel is known
	src := patternImage(256, ImageSize, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x), G: uint8(y % 256), B: uint8(y / 256), A: 255}
	})
	out := resizeAndPad(src, ImageSize, ImageSize)
	require.Equal(t, image.Rect(0, 0, ImageSize, ImageSize), out.Bounds())

	margin := (ImageSize - 256) / 2
	for _, y := range []int{0, 1, 255, 256, 511} {
		for x := 0; x < ImageSize; x++ {
			var want [3]uint8
			switch {
			case x < margin:
				want = pixel(src, 0, y)
			case x < margin+256:
				want = pixel(src, x-margin, y)
			default:
				want = pixel(src, 255, y)
			}
			require.Equal(t, want, pixel(out, x, y), "pixel (%d, %d)", x, y)
		}
	}
}

func TestPadHorizontalOddMargin(t *testing.T) {
	// 512-201 is odd, so the right fill starts right after the copied columns
	src := patternImage(201, ImageSize, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x), G: uint8(y % 256), B: uint8(y / 256), A: 255}
	})
	out := resizeAndPad(src, ImageSize, ImageSize)

	margin := (ImageSize - 201) / 2
	assert.Equal(t, 155, margin)
	for _, y := range []int{0, 300} {
		assert.Equal(t, pixel(src, 0, y), pixel(out, margin-1, y))
		assert.Equal(t, pixel(src, 0, y), pixel(out, margin, y))
		assert.Equal(t, pixel(src, 200, y), pixel(out, margin+200, y))
		for x := margin + 201; x < ImageSize; x++ {
			assert.Equal(t, pixel(src, 200, y), pixel(out, x, y))
		}
	}
}

func TestPadVertical(t *testing.T) {
	for _, h := range []int{200, 201} {
		src := patternImage(ImageSize, h, func(x, y int) color.NRGBA {
			return color.NRGBA{R: uint8(x % 256), G: uint8(x / 256), B: uint8(y), A: 255}
		})
		out := resizeAndPad(src, ImageSize, ImageSize)

		margin := (ImageSize - h) / 2
		for y := 0; y < ImageSize; y++ {
			for _, x := range []int{0, 100, 511} {
				var want [3]uint8
				switch {
				case y < margin:
					want = pixel(src, x, 0)
				case y < margin+h:
					want = pixel(src, x, y-margin)
				default:
					want = pixel(src, x, h-1)
				}
				require.Equal(t, want, pixel(out, x, y), "h=%d pixel (%d, %d)", h, x, y)
			}
		}
	}
}

func TestPadAfterDownscale(t *testing.T) {
	src := patternImage(1024, 512, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255}
	})
	out := resizeAndPad(src, ImageSize, ImageSize)

	// resized to 512x256, so rows [0, 128) repeat row 128
	margin := (ImageSize - 256) / 2
	first := out.Pix[margin*out.Stride:][:out.Stride]
	last := out.Pix[(margin+255)*out.Stride:][:out.Stride]
	for y := 0; y < margin; y++ {
		assert.Equal(t, first, out.Pix[y*out.Stride:][:out.Stride], "row %d", y)
	}
	for y := ImageSize - margin - 1; y < ImageSize; y++ {
		assert.Equal(t, last, out.Pix[y*out.Stride:][:out.Stride], "row %d", y)
	}
}

func TestPreprocessDeterministic(t *testing.T) {
	src := patternImage(333, 120, func(x, y int) color.NRGBA {
		return color.NRGBA{R: uint8(x * y), G: uint8(x), B: uint8(y), A: 255}
	})
	assert.Equal(t, Preprocess(src), Preprocess(src))
}

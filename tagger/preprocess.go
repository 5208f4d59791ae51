package tagger

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const normScale = float32(1.0 / 255.0)

// Preprocess converts img into the model's channel-first input tensor of
// shape (1, 3, ImageSize, ImageSize) with values in [0, 1].
func Preprocess(img image.Image) []float32 {
	padded := resizeAndPad(img, ImageSize, ImageSize)

	const plane = ImageSize * ImageSize
	out := make([]float32, NumChannels*plane)
	for c := 0; c < NumChannels; c++ {
		base := c * plane
		for y := 0; y < ImageSize; y++ {
			row := padded.Pix[y*padded.Stride:]
			for x := 0; x < ImageSize; x++ {
				out[base+y*ImageSize+x] = float32(row[x*4+c]) * normScale
			}
		}
	}
	return out
}

// fitSize returns the largest dimensions with the aspect ratio of w×h that fit
// inside tw×th. One side always matches its target.
func fitSize(w, h, tw, th int) (int, int) {
	ratio := math.Min(float64(tw)/float64(w), float64(th)/float64(h))
	nw := max(int(math.Round(float64(w)*ratio)), 1)
	nh := max(int(math.Round(float64(h)*ratio)), 1)
	return nw, nh
}

// resizeAndPad scales img to fit tw×th and fills the remaining margin by
// repeating the edge pixels. The alpha channel of the result is not used.
func resizeAndPad(img image.Image, tw, th int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == tw && b.Dy() == th {
		return imaging.Clone(img)
	}

	nw, nh := fitSize(b.Dx(), b.Dy(), tw, th)
	src := imaging.Resize(img, nw, nh, imaging.CatmullRom)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == tw && h == th {
		return src
	}

	if w < tw && h < th {
		panic("tagger: resized image is smaller than the target on both axes")
	}

	out := image.NewNRGBA(image.Rect(0, 0, tw, th))
	switch {
	case w < tw:
		margin := (tw - w) / 2
		for y := 0; y < th; y++ {
			in := src.Pix[y*src.Stride:][:w*4]
			row := out.Pix[y*out.Stride:][:tw*4]

			first := in[:4]
			for x := 0; x < margin; x++ {
				copy(row[x*4:], first)
			}
			copy(row[margin*4:], in)
			// starts one column early and rewrites the last copied pixel
			last := in[(w-1)*4:]
			for x := tw - margin - 1; x < tw; x++ {
				copy(row[x*4:], last)
			}
		}
	case h < th:
		margin := (th - h) / 2
		lineLen := tw * 4
		first := src.Pix[:lineLen]
		last := src.Pix[(h-1)*src.Stride:][:lineLen]
		for y := 0; y < margin; y++ {
			copy(out.Pix[y*out.Stride:], first)
		}
		copy(out.Pix[margin*out.Stride:], src.Pix[:h*src.Stride])
		for y := th - margin - 1; y < th; y++ {
			copy(out.Pix[y*out.Stride:], last)
		}
	default:
		panic("tagger: resized image exceeds the target size")
	}
	return out
}

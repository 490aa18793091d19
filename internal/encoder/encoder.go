package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/kettek/apng"
	xdraw "golang.org/x/image/draw"
)

// Encoder turns the ordered capture sequence of one document into a single
// looping artifact. Frame order defines playback order.
type Encoder interface {
	Encode(w io.Writer, captures [][]byte, size int, delayMS float64) error
}

// APNG writes lossless, alpha-preserving animated PNGs with infinite loop.
type APNG struct{}

func (APNG) Encode(w io.Writer, captures [][]byte, size int, delayMS float64) error {
	if len(captures) == 0 {
		return fmt.Errorf("пустая последовательность кадров")
	}

	a := apng.APNG{
		Frames:    make([]apng.Frame, len(captures)),
		LoopCount: 0, // 0 = бесконечный цикл
	}

	for i, capture := range captures {
		img, err := png.Decode(bytes.NewReader(capture))
		if err != nil {
			return fmt.Errorf("кадр %d: %w", i, err)
		}
		a.Frames[i] = apng.Frame{
			Image:            normalize(img, size),
			DelayNumerator:   uint16(delayMS),
			DelayDenominator: 1000,
			DisposeOp:        apng.DISPOSE_OP_BACKGROUND,
			BlendOp:          apng.BLEND_OP_SOURCE,
		}
	}

	return apng.Encode(w, a)
}

// normalize rescales captures whose pixel bounds differ from the target size
// (device scale factor) and unifies the pixel format for encoding.
func normalize(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Dx() == size && b.Dy() == size {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

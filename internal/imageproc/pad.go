package imageproc

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// Pad scales the image to fit within width x height preserving aspect
// ratio, then centers it on a black canvas of exactly that size.
func Pad(r io.Reader, width, height int, format imaging.Format) (io.Reader, int64, error) {
	if r == nil {
		return nil, 0, errors.New("nil-reader provided to Pad")
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image in Pad: %w", err)
	}

	fitted := imaging.Fit(img, width, height, imaging.Lanczos)
	canvas := imaging.New(width, height, color.NRGBA{A: 0xFF})
	padded := imaging.PasteCenter(canvas, fitted)

	return encode(padded, format)
}

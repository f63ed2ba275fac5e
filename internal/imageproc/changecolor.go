package imageproc

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// ChangeColor blends a flat-color overlay onto the whole image at 50%
// opacity, tinting it with one of the palette colors.
func ChangeColor(r io.Reader, overlay color.NRGBA, format imaging.Format) (io.Reader, int64, error) {
	if r == nil {
		return nil, 0, errors.New("nil-reader provided to ChangeColor")
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image in ChangeColor: %w", err)
	}

	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), overlay)
	tinted := imaging.Overlay(img, flat, image.Pt(0, 0), 0.5)

	return encode(tinted, format)
}

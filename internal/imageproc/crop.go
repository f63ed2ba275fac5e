package imageproc

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// Crop cuts the validated rectangle out of the image. The result is
// always exactly (right-left)x(bottom-top): any part of the rectangle
// reaching past the image bounds comes back black.
func Crop(r io.Reader, left, top, right, bottom int, format imaging.Format) (io.Reader, int64, error) {
	if r == nil {
		return nil, 0, errors.New("nil-reader provided to Crop")
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image in Crop: %w", err)
	}

	box := image.Rect(left, top, right, bottom)
	canvas := imaging.New(box.Dx(), box.Dy(), color.NRGBA{A: 0xFF})

	if visible := box.Intersect(img.Bounds()); !visible.Empty() {
		part := imaging.Crop(img, visible)
		canvas = imaging.Paste(canvas, part, image.Pt(visible.Min.X-left, visible.Min.Y-top))
	}

	return encode(canvas, format)
}

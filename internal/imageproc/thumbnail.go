package imageproc

import (
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// thumbnail target box, fixed by the API contract
const thumbSide = 128

// Thumbnail shrinks the image to fit within 128x128 preserving the
// aspect ratio. Images already smaller than the box are left as-is.
func Thumbnail(r io.Reader, format imaging.Format) (io.Reader, int64, error) {
	if r == nil {
		return nil, 0, errors.New("nil-reader provided to Thumbnail")
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image in Thumbnail: %w", err)
	}

	if img.Bounds().Dx() > thumbSide || img.Bounds().Dy() > thumbSide {
		img = imaging.Fit(img, thumbSide, thumbSide, imaging.Lanczos)
	}

	return encode(img, format)
}

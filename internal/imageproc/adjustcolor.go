package imageproc

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// AdjustColor multiplies every channel by the brightness factor, then
// applies a contrast enhancement. A factor of 1.0 leaves the image
// unchanged, 0.0 gives a black (brightness) or solid gray (contrast)
// result, 2.0 doubles the effect.
func AdjustColor(r io.Reader, brightness, contrast float64, format imaging.Format) (io.Reader, int64, error) {
	if r == nil {
		return nil, 0, errors.New("nil-reader provided to AdjustColor")
	}

	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image in AdjustColor: %w", err)
	}

	adjusted := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		c.R = scaleChannel(c.R, brightness)
		c.G = scaleChannel(c.G, brightness)
		c.B = scaleChannel(c.B, brightness)
		return c
	})

	// imaging expects a percentage in [-100, 100], factor 1.0 maps to 0
	adjusted = imaging.AdjustContrast(adjusted, (contrast-1.0)*100)

	return encode(adjusted, format)
}

func scaleChannel(v uint8, factor float64) uint8 {
	scaled := float64(v) * factor
	if scaled > 255 {
		return 255
	}
	if scaled < 0 {
		return 0
	}
	return uint8(scaled + 0.5)
}

// Package imageproc provides the photo editing operations: crop, thumbnail,
// pad, color adjustment and flat-color overlay. Every operation decodes the
// original bytes, applies exactly one edit and re-encodes in the original
// format, so the stored photo is never mutated.
package imageproc

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// SniffFormat reads the container format of the encoded image once; the
// caller threads it through the pipeline so the derived image comes back
// in the same encoding as the original.
func SniffFormat(data []byte) (imaging.Format, error) {
	_, f, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return -1, err
	}

	format, err := imaging.FormatFromExtension(f)
	if err != nil {
		return -1, ErrUnsupportedFormat
	}

	switch format {
	case imaging.PNG, imaging.JPEG, imaging.GIF:
	default:
		return -1, ErrUnsupportedFormat
	}

	return format, nil
}

func encode(img image.Image, format imaging.Format) (*bytes.Buffer, int64, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, 0, err
	}
	return &buf, int64(buf.Len()), nil
}

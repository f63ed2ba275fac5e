// Package validate holds the pure request-validation layer: identifier
// checks and the per-operation parameter contracts. No I/O happens here,
// rejection is guaranteed before any storage access.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pixeltailor/pixeltailor/internal/model"
)

// Params is the raw "parameters" object of a process-image request.
// Numbers arrive as JSON floats; integer fields are truncated the same
// way the processing pipeline consumes them.
type Params struct {
	Left       *float64 `json:"left"`
	Top        *float64 `json:"top"`
	Right      *float64 `json:"right"`
	Bottom     *float64 `json:"bottom"`
	Width      *float64 `json:"width"`
	Height     *float64 `json:"height"`
	Brightness *float64 `json:"brightness"`
	Contrast   *float64 `json:"contrast"`
	Color      *string  `json:"color"`
}

// ParseID accepts a non-empty string of decimal digits and nothing else.
func ParseID(s string) (int64, error) {
	if s == "" {
		return 0, model.ErrIncorrectID
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, model.ErrIncorrectID
		}
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, model.ErrIncorrectID
	}
	return id, nil
}

// Operation checks the operation name and its parameter contract and
// returns a normalized TransformOp. Every failure names the offending
// field and its valid range.
func Operation(name string, params Params) (*model.TransformOp, error) {
	op := model.Operation(name)
	if !model.OperationsMap[op] {
		return nil, model.ErrIncorrectOp
	}

	res := &model.TransformOp{Kind: op}

	switch op {
	case model.OpCrop:
		left, err := intParam("left", params.Left, 0, 5000)
		if err != nil {
			return nil, err
		}
		top, err := intParam("top", params.Top, 0, 5000)
		if err != nil {
			return nil, err
		}
		right, err := intParam("right", params.Right, 0, 5000)
		if err != nil {
			return nil, err
		}
		bottom, err := intParam("bottom", params.Bottom, 0, 5000)
		if err != nil {
			return nil, err
		}
		if right <= left {
			return nil, fmt.Errorf("%w: right must be greater than left", model.ErrIncorrectParam)
		}
		if bottom <= top {
			return nil, fmt.Errorf("%w: bottom must be greater than top", model.ErrIncorrectParam)
		}
		res.Left, res.Top, res.Right, res.Bottom = left, top, right, bottom

	case model.OpThumbnail:
		// fixed 128x128 target, no parameters

	case model.OpPad:
		width, err := intParam("width", params.Width, 1, 5000)
		if err != nil {
			return nil, err
		}
		height, err := intParam("height", params.Height, 1, 5000)
		if err != nil {
			return nil, err
		}
		res.Width, res.Height = width, height

	case model.OpAdjustColor:
		brightness, err := floatParam("brightness", params.Brightness, 0.0, 2.0)
		if err != nil {
			return nil, err
		}
		contrast, err := floatParam("contrast", params.Contrast, 0.0, 2.0)
		if err != nil {
			return nil, err
		}
		res.Brightness, res.Contrast = brightness, contrast

	case model.OpChangeColor:
		if params.Color == nil {
			return nil, fmt.Errorf("%w: color is required", model.ErrIncorrectParam)
		}
		overlay, ok := model.ColorPalette[strings.ToLower(strings.TrimSpace(*params.Color))]
		if !ok {
			return nil, fmt.Errorf("%w: color must be one of %s", model.ErrIncorrectParam, paletteNames())
		}
		res.Overlay = overlay
	}

	return res, nil
}

func intParam(field string, v *float64, min, max int) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s is required and must be within [%d, %d]", model.ErrIncorrectParam, field, min, max)
	}
	val := int(*v)
	if *v < float64(min) || *v > float64(max) {
		return 0, fmt.Errorf("%w: %s must be within [%d, %d]", model.ErrIncorrectParam, field, min, max)
	}
	return val, nil
}

func floatParam(field string, v *float64, min, max float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s is required and must be within [%.1f, %.1f]", model.ErrIncorrectParam, field, min, max)
	}
	if *v < min || *v > max {
		return 0, fmt.Errorf("%w: %s must be within [%.1f, %.1f]", model.ErrIncorrectParam, field, min, max)
	}
	return *v, nil
}

func paletteNames() string {
	names := make([]string, 0, len(model.ColorPalette))
	for name := range model.ColorPalette {
		names = append(names, name)
	}
	sort.Strings(names) // map order is random, keep error text stable
	return strings.Join(names, ", ")
}

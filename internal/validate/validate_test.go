package validate

import (
	"image/color"
	"testing"

	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "plain number", in: "42", want: 42},
		{name: "zero", in: "0", want: 0},
		{name: "empty", in: "", wantErr: true},
		{name: "letters", in: "abc", wantErr: true},
		{name: "mixed", in: "12a", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
		{name: "spaces", in: " 7", wantErr: true},
		{name: "uuid", in: "550e8400-e29b-41d4-a716-446655440000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrIncorrectID)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, id)
		})
	}
}

func TestOperation_UnknownOp(t *testing.T) {
	_, err := Operation("rotate", Params{})
	require.ErrorIs(t, err, model.ErrIncorrectOp)
}

func TestOperation_Crop(t *testing.T) {
	tests := []struct {
		name                     string
		left, top, right, bottom *float64
		wantErr                  bool
	}{
		{name: "valid rect", left: fp(0), top: fp(0), right: fp(100), bottom: fp(50)},
		{name: "right equals left", left: fp(10), top: fp(0), right: fp(10), bottom: fp(50), wantErr: true},
		{name: "right one past left", left: fp(10), top: fp(0), right: fp(11), bottom: fp(50)},
		{name: "bottom equals top", left: fp(0), top: fp(20), right: fp(100), bottom: fp(20), wantErr: true},
		{name: "left out of range", left: fp(5001), top: fp(0), right: fp(5002), bottom: fp(50), wantErr: true},
		{name: "negative top", left: fp(0), top: fp(-1), right: fp(100), bottom: fp(50), wantErr: true},
		{name: "missing bottom", left: fp(0), top: fp(0), right: fp(100), wantErr: true},
		{name: "upper bound", left: fp(0), top: fp(0), right: fp(5000), bottom: fp(5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Operation("crop", Params{Left: tt.left, Top: tt.top, Right: tt.right, Bottom: tt.bottom})
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrIncorrectParam)
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.OpCrop, op.Kind)
			require.Equal(t, int(*tt.left), op.Left)
			require.Equal(t, int(*tt.bottom), op.Bottom)
		})
	}
}

func TestOperation_Thumbnail_NoParams(t *testing.T) {
	op, err := Operation("thumbnail", Params{})
	require.NoError(t, err)
	require.Equal(t, model.OpThumbnail, op.Kind)

	// extra fields are simply ignored for thumbnail
	op, err = Operation("thumbnail", Params{Width: fp(10)})
	require.NoError(t, err)
	require.NotNil(t, op)
}

func TestOperation_Pad(t *testing.T) {
	tests := []struct {
		name          string
		width, height *float64
		wantErr       bool
	}{
		{name: "valid", width: fp(640), height: fp(480)},
		{name: "minimum", width: fp(1), height: fp(1)},
		{name: "zero width", width: fp(0), height: fp(480), wantErr: true},
		{name: "too large", width: fp(640), height: fp(5001), wantErr: true},
		{name: "missing height", width: fp(640), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Operation("pad", Params{Width: tt.width, Height: tt.height})
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrIncorrectParam)
				return
			}
			require.NoError(t, err)
			require.Equal(t, int(*tt.width), op.Width)
			require.Equal(t, int(*tt.height), op.Height)
		})
	}
}

func TestOperation_AdjustColor(t *testing.T) {
	tests := []struct {
		name                 string
		brightness, contrast *float64
		wantErr              bool
	}{
		{name: "unchanged", brightness: fp(1.0), contrast: fp(1.0)},
		{name: "upper bound accepted", brightness: fp(2.0), contrast: fp(1.0)},
		{name: "just above upper bound", brightness: fp(2.0001), contrast: fp(1.0), wantErr: true},
		{name: "negative brightness", brightness: fp(-0.1), contrast: fp(1.0), wantErr: true},
		{name: "missing contrast", brightness: fp(1.0), wantErr: true},
		{name: "zero is allowed", brightness: fp(0.0), contrast: fp(0.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Operation("adjust_color", Params{Brightness: tt.brightness, Contrast: tt.contrast})
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrIncorrectParam)
				return
			}
			require.NoError(t, err)
			require.Equal(t, *tt.brightness, op.Brightness)
			require.Equal(t, *tt.contrast, op.Contrast)
		})
	}
}

func TestOperation_ChangeColor(t *testing.T) {
	tests := []struct {
		name    string
		color   *string
		want    color.NRGBA
		wantErr bool
	}{
		{name: "red maps to FF0000", color: sp("red"), want: color.NRGBA{R: 0xFF, A: 0xFF}},
		{name: "case insensitive", color: sp("Gray"), want: color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}},
		{name: "purple is not in palette", color: sp("purple"), wantErr: true},
		{name: "missing color", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := Operation("change_color", Params{Color: tt.color})
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrIncorrectParam)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, op.Overlay)
		})
	}
}

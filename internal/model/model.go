// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
)

type Operation string

const (
	OpCrop        Operation = "crop"
	OpThumbnail   Operation = "thumbnail"
	OpPad         Operation = "pad"
	OpAdjustColor Operation = "adjust_color"
	OpChangeColor Operation = "change_color"
)

var OperationsMap = map[Operation]bool{
	OpCrop:        true,
	OpThumbnail:   true,
	OpPad:         true,
	OpAdjustColor: true,
	OpChangeColor: true,
}

// TransformOp is a fully validated operation: only the fields relevant
// to Kind are set, and they are already range-checked.
type TransformOp struct {
	Kind Operation

	// crop
	Left, Top, Right, Bottom int

	// pad
	Width, Height int

	// adjust_color
	Brightness, Contrast float64

	// change_color
	Overlay color.NRGBA
}

//---------------------

type User struct {
	UserID       int64  `json:"userid"`
	Username     string `json:"username"`
	Password     string `json:"-"`
	BucketFolder string `json:"bucketfolder"`
}

type Photo struct {
	PhotoID      int64      `json:"photoid"`
	UserID       int64      `json:"userid"`
	OriginalName string     `json:"original_name"`
	BucketKey    string     `json:"-"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	RecognizedAt *time.Time `json:"-"`
}

type Label struct {
	LabelID    int64    `json:"labelid"`
	PhotoID    int64    `json:"photoid"`
	UserID     int64    `json:"userid"`
	Name       string   `json:"labelname"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// PhotoSummary is one row of the gallery "photos by label" answer.
type PhotoSummary struct {
	PhotoID      int64  `json:"photoid"`
	UserID       int64  `json:"userid"`
	OriginalName string `json:"original_name"`
	BucketKey    string `json:"bucketkey"`
	LabelName    string `json:"labelname"`
}

// DetectedLabel is what the recognition capability returns per label.
type DetectedLabel struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

//-------------------

// Expected-condition errors map to 400, ErrCommon500 and anything
// unrecognized map to 500. "Not found" deliberately covers both a
// nonexistent photo and a photo owned by someone else.
var (
	ErrCommon500      error = errors.New("something went wrong. Try again later")            // 500
	ErrIncorrectID    error = errors.New("identifier must be a non-empty decimal number")    // 400
	ErrNoSuchUser     error = errors.New("no such user")                                     // 400
	ErrPhotoNotFound  error = errors.New("photo not found or does not belong to user")       // 400
	ErrIncorrectOp    error = errors.New("operation is not supported")                       // 400
	ErrIncorrectParam error = errors.New("invalid operation parameters")                     // 400
	ErrEmptyUpload    error = errors.New("empty/incorrect photo data provided")              // 400
	ErrBadFilename    error = errors.New("filename is required and must carry an extension") // 400
	ErrRecognition    error = errors.New("label recognition failed")                         // logged, retried out-of-band
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
}

var GetCType = map[imaging.Format]string{
	imaging.JPEG: JPEG,
	imaging.GIF:  GIF,
	imaging.PNG:  PNG,
}

// Upload formats accepted by the app, matched case-insensitively
// against the original filename's extension.
var AllowedExtMap = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

//--------------------

// ColorPalette is the fixed set of change_color overlay colors.
var ColorPalette = map[string]color.NRGBA{
	"red":    {R: 0xFF, G: 0x00, B: 0x00, A: 0xFF},
	"green":  {R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
	"blue":   {R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
	"yellow": {R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
	"black":  {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	"white":  {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	"gray":   {R: 0x80, G: 0x80, B: 0x80, A: 0xFF},
}

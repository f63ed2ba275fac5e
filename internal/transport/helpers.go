package transport

import (
	"errors"

	"github.com/pixeltailor/pixeltailor/internal/model"
)

// errorCodeDefiner keeps the wire contract: 400 for everything the caller
// can fix (including not-found, which deliberately hides whether the photo
// exists under another owner), 500 for dependency failures.
func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500):
		return 500
	case errors.Is(err, model.ErrIncorrectID),
		errors.Is(err, model.ErrNoSuchUser),
		errors.Is(err, model.ErrPhotoNotFound),
		errors.Is(err, model.ErrIncorrectOp),
		errors.Is(err, model.ErrIncorrectParam),
		errors.Is(err, model.ErrEmptyUpload),
		errors.Is(err, model.ErrBadFilename):
		return 400
	default:
		return 500
	}
}

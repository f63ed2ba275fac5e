package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/pixeltailor/pixeltailor/internal/mwlogger"

	"github.com/disintegration/imaging"
)

// contentTypeForFilename maps the upload's extension to a content type,
// rejecting anything outside the allowed image formats before a single
// byte touches storage.
func contentTypeForFilename(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if filename == "" || ext == "" {
		return "", model.ErrBadFilename
	}
	if !model.AllowedExtMap[ext] {
		return "", fmt.Errorf("%w: only jpg, jpeg, png and gif are allowed", model.ErrBadFilename)
	}

	switch ext {
	case ".jpg", ".jpeg":
		return model.JPEG, nil
	case ".gif":
		return model.GIF, nil
	default:
		return model.PNG, nil
	}
}

// buildBucketKey derives a fresh blob key inside the owner's assigned
// folder. The folder is unique per user, the uuid is unique per upload,
// so keys never collide and never cross user boundaries.
func buildBucketKey(bucketFolder, contentType string) string {
	return bucketFolder + "/" + uuid.New().String() + model.GetImageFileExt[contentType]
}

func processedFilename(photoID int64, format imaging.Format) string {
	ext := strings.TrimPrefix(model.GetImageFileExt[model.GetCType[format]], ".")
	return fmt.Sprintf("processed_%d_%s.%s", photoID, uuid.New().String(), ext)
}

func newByteReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}

func closeFileFlow(ctx context.Context, res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Msg("Service failed to close fileflow")
	}
}

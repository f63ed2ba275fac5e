// Package service provides business-logic for the app
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pixeltailor/pixeltailor/internal/imageproc"
	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/pixeltailor/pixeltailor/internal/mwlogger"
	"github.com/pixeltailor/pixeltailor/internal/recognition"
	"github.com/pixeltailor/pixeltailor/internal/repository"
	"github.com/wb-go/wbf/retry"
)

// maxLabelsPerPhoto caps what we ask the recognition service for and
// therefore how many label rows a photo can ever have.
const maxLabelsPerPhoto = 5

type PhotoService struct {
	repo      repository.PhotoRepo
	publisher TaskPublisher
	storage   PhotoStorage
	detector  recognition.Detector
}

func NewPhotoService(rep repository.PhotoRepo, pub TaskPublisher, strg PhotoStorage, det recognition.Detector) *PhotoService {
	return &PhotoService{
		repo:      rep,
		publisher: pub,
		storage:   strg,
		detector:  det,
	}
}

// TaskPublisher dispatches the async recognition task for a freshly
// uploaded photo.
type TaskPublisher interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error
}

// PhotoStorage is the narrow blob-store contract the service relies on.
type PhotoStorage interface {
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}

var retryStrategy = retry.Strategy{
	Attempts: 5,
	Delay:    3 * time.Second,
	Backoff:  1.5,
}

func (c PhotoService) CreateUser(ctx context.Context, username, password, bucketFolder string) (int64, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if username == "" {
		return 0, fmt.Errorf("%w: username is required", model.ErrIncorrectParam)
	}
	if password == "" {
		return 0, fmt.Errorf("%w: password is required", model.ErrIncorrectParam)
	}
	if bucketFolder == "" {
		return 0, fmt.Errorf("%w: bucketfolder is required", model.ErrIncorrectParam)
	}

	id, err := c.repo.CreateUser(ctx, &model.User{
		Username:     username,
		Password:     password,
		BucketFolder: bucketFolder,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create user in DB")
		return 0, model.ErrCommon500
	}
	return id, nil
}

func (c PhotoService) ListUsers(ctx context.Context) ([]model.User, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	users, err := c.repo.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch users list from DB")
		return nil, model.ErrCommon500
	}
	return users, nil
}

// Upload pairs the blob write with the metadata insert. The object goes
// in first; if the row insert then fails, the object is deleted again
// before the error is returned, so neither half outlives the other.
func (c PhotoService) Upload(ctx context.Context, ownerID int64, filename string, data []byte) (*model.Photo, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	user, err := c.repo.GetUser(ctx, ownerID)
	if err != nil {
		if errors.Is(err, model.ErrNoSuchUser) {
			return nil, err
		}
		logger.Error().Err(err).Msg("Failed to fetch user from DB")
		return nil, model.ErrCommon500
	}

	contentType, err := contentTypeForFilename(filename)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, model.ErrEmptyUpload
	}

	key := buildBucketKey(user.BucketFolder, contentType)

	if err := c.storage.Put(ctx, key, int64(len(data)), contentType, newByteReader(data)); err != nil {
		logger.Error().Err(err).Msg("Failed to save photo in Storage")
		return nil, model.ErrCommon500
	}

	now := time.Now().UTC()
	newPhoto := &model.Photo{
		UserID:       ownerID,
		OriginalName: filename,
		BucketKey:    key,
		CreatedAt:    &now,
	}

	id, err := c.repo.CreatePhoto(ctx, newPhoto)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create photo in DB, rolling back blob")
		if delErr := c.storage.Delete(ctx, key); delErr != nil {
			logger.Error().Err(delErr).Msg(fmt.Sprintf("Failed to roll back orphaned blob %q", key))
		}
		return nil, model.ErrCommon500
	}
	newPhoto.PhotoID = id

	// recognition runs async; a failed dispatch must not undo an upload
	// that already committed, the recovery loop re-dispatches it later
	if err := c.publisher.SendWithRetry(ctx, retryStrategy, []byte(fmt.Sprint(id)), []byte(key)); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to publish recognition task for photo %d", id))
	}

	return newPhoto, nil
}

// Download returns the stored bytes only when the photo belongs to the
// requesting owner; a photo owned by someone else looks exactly like a
// missing one.
func (c PhotoService) Download(ctx context.Context, ownerID, photoID int64) ([]byte, string, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	photo, err := c.fetchOwned(ctx, ownerID, photoID)
	if err != nil {
		return nil, "", err
	}

	blob, _, err := c.storage.Get(ctx, photo.BucketKey)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch photo %d from Storage", photoID))
		return nil, "", model.ErrCommon500
	}
	defer closeFileFlow(ctx, blob)

	data, err := io.ReadAll(blob)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to read photo %d from Storage", photoID))
		return nil, "", model.ErrCommon500
	}

	return data, photo.OriginalName, nil
}

// Delete removes the blob object first and the metadata row second. When
// the object deletion fails the row is kept, leaving a stuck but
// consistent photo rather than a row pointing at nothing.
func (c PhotoService) Delete(ctx context.Context, ownerID, photoID int64) error {
	logger := mwlogger.LoggerFromContext(ctx)

	if _, err := c.repo.GetUser(ctx, ownerID); err != nil {
		if errors.Is(err, model.ErrNoSuchUser) {
			return err
		}
		logger.Error().Err(err).Msg("Failed to fetch user from DB")
		return model.ErrCommon500
	}

	photo, err := c.fetchOwned(ctx, ownerID, photoID)
	if err != nil {
		return err
	}

	if err := c.storage.Delete(ctx, photo.BucketKey); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to delete blob %q, keeping metadata row", photo.BucketKey))
		return model.ErrCommon500
	}

	if err := c.repo.DeletePhoto(ctx, ownerID, photoID); err != nil {
		logger.Error().Err(err).Msg("Failed to delete photo row from DB")
		return model.ErrCommon500
	}

	return nil
}

// Transform produces a derived image and returns it directly: nothing is
// written back to storage, the original row and object stay untouched.
func (c PhotoService) Transform(ctx context.Context, ownerID, photoID int64, op *model.TransformOp) ([]byte, string, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	photo, err := c.fetchOwned(ctx, ownerID, photoID)
	if err != nil {
		return nil, "", err
	}

	blob, _, err := c.storage.Get(ctx, photo.BucketKey)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch photo %d from Storage", photoID))
		return nil, "", model.ErrCommon500
	}
	defer closeFileFlow(ctx, blob)

	data, err := io.ReadAll(blob)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to read photo %d from Storage", photoID))
		return nil, "", model.ErrCommon500
	}

	format, err := imageproc.SniffFormat(data)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Stored photo %d is not a decodable image", photoID))
		return nil, "", model.ErrCommon500
	}

	var result io.Reader
	switch op.Kind {
	case model.OpCrop:
		result, _, err = imageproc.Crop(newByteReader(data), op.Left, op.Top, op.Right, op.Bottom, format)
	case model.OpThumbnail:
		result, _, err = imageproc.Thumbnail(newByteReader(data), format)
	case model.OpPad:
		result, _, err = imageproc.Pad(newByteReader(data), op.Width, op.Height, format)
	case model.OpAdjustColor:
		result, _, err = imageproc.AdjustColor(newByteReader(data), op.Brightness, op.Contrast, format)
	case model.OpChangeColor:
		result, _, err = imageproc.ChangeColor(newByteReader(data), op.Overlay, format)
	default:
		return nil, "", model.ErrIncorrectOp
	}
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to apply %q to photo %d", op.Kind, photoID))
		return nil, "", model.ErrCommon500
	}

	processed, err := io.ReadAll(result)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read processed image")
		return nil, "", model.ErrCommon500
	}

	return processed, processedFilename(photoID, format), nil
}

func (c PhotoService) ListPhotos(ctx context.Context, ownerID int64) ([]model.Photo, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if _, err := c.repo.GetUser(ctx, ownerID); err != nil {
		if errors.Is(err, model.ErrNoSuchUser) {
			return nil, err
		}
		logger.Error().Err(err).Msg("Failed to fetch user from DB")
		return nil, model.ErrCommon500
	}

	photos, err := c.repo.ListPhotos(ctx, ownerID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch photos list from DB")
		return nil, model.ErrCommon500
	}
	return photos, nil
}

// LabelsForUser returns the distinct label names of the user's photos in
// lexicographic order. An empty list is a valid answer.
func (c PhotoService) LabelsForUser(ctx context.Context, ownerID int64) ([]string, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	labels, err := c.repo.LabelsForUser(ctx, ownerID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch labels from DB")
		return nil, model.ErrCommon500
	}
	return labels, nil
}

func (c PhotoService) PhotosByLabel(ctx context.Context, ownerID int64, label string) ([]model.PhotoSummary, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if label == "" {
		return nil, fmt.Errorf("%w: label is required", model.ErrIncorrectParam)
	}

	photos, err := c.repo.PhotosByLabel(ctx, ownerID, label)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch photos by label from DB")
		return nil, model.ErrCommon500
	}
	return photos, nil
}

// RecognizeAndStore runs the recognition capability on a stored photo and
// persists at most 5 labels. Safe under at-least-once delivery: a photo
// already marked recognized is skipped, and label insertion upserts on
// (photoid, labelname).
func (c PhotoService) RecognizeAndStore(ctx context.Context, photoID int64) ([]model.Label, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	photo, err := c.repo.GetPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, model.ErrPhotoNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch photo %d from DB", photoID))
		return nil, model.ErrCommon500
	}

	if photo.RecognizedAt != nil {
		return nil, nil
	}

	blob, _, err := c.storage.Get(ctx, photo.BucketKey)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch photo %d from Storage", photoID))
		return nil, model.ErrCommon500
	}
	defer closeFileFlow(ctx, blob)

	data, err := io.ReadAll(blob)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to read photo %d from Storage", photoID))
		return nil, model.ErrCommon500
	}

	detected, err := c.detector.DetectLabels(ctx, data, maxLabelsPerPhoto)
	if err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Recognition failed for photo %d", photoID))
		return nil, fmt.Errorf("%w: %w", model.ErrRecognition, err)
	}

	if len(detected) > maxLabelsPerPhoto {
		detected = detected[:maxLabelsPerPhoto]
	}

	labels := make([]model.Label, 0, len(detected))
	for _, d := range detected {
		confidence := d.Confidence
		label := model.Label{
			PhotoID:    photoID,
			UserID:     photo.UserID,
			Name:       d.Name,
			Confidence: &confidence,
		}
		if err := c.repo.InsertLabel(ctx, &label); err != nil {
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to insert label %q for photo %d", d.Name, photoID))
			return nil, model.ErrCommon500
		}
		labels = append(labels, label)
	}

	// zero detected labels is a legitimate outcome, the photo is still done
	if err := c.repo.MarkRecognized(ctx, photoID); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to mark photo %d recognized", photoID))
		return nil, model.ErrCommon500
	}

	return labels, nil
}

// ReviveUnrecognized re-dispatches photos whose recognition never
// completed, e.g. because the original task publish or the detection
// itself failed.
func (c PhotoService) ReviveUnrecognized(ctx context.Context, limit int) {
	logger := mwlogger.LoggerFromContext(ctx)

	ids, err := c.repo.FetchUnrecognized(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load unrecognized photos from DB")
		return
	}

	for _, id := range ids {
		if err := c.publisher.SendWithRetry(ctx, retryStrategy, []byte(fmt.Sprint(id)), nil); err != nil {
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to re-publish recognition task for photo %d", id))
		}
	}
}

func (c PhotoService) fetchOwned(ctx context.Context, ownerID, photoID int64) (*model.Photo, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	photo, err := c.repo.GetPhoto(ctx, ownerID, photoID)
	if err != nil {
		if errors.Is(err, model.ErrPhotoNotFound) {
			return nil, err
		}
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch photo %d from DB", photoID))
		return nil, model.ErrCommon500
	}
	return photo, nil
}

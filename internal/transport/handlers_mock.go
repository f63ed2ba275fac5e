package transport

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pixeltailor/pixeltailor/internal/model"
)

type mockPhotoService struct {
	createUserFn    func(ctx context.Context, username, password, bucketFolder string) (int64, error)
	listUsersFn     func(ctx context.Context) ([]model.User, error)
	uploadFn        func(ctx context.Context, ownerID int64, filename string, data []byte) (*model.Photo, error)
	downloadFn      func(ctx context.Context, ownerID, photoID int64) ([]byte, string, error)
	deleteFn        func(ctx context.Context, ownerID, photoID int64) error
	transformFn     func(ctx context.Context, ownerID, photoID int64, op *model.TransformOp) ([]byte, string, error)
	listPhotosFn    func(ctx context.Context, ownerID int64) ([]model.Photo, error)
	labelsForUserFn func(ctx context.Context, ownerID int64) ([]string, error)
	photosByLabelFn func(ctx context.Context, ownerID int64, label string) ([]model.PhotoSummary, error)
}

func (m *mockPhotoService) CreateUser(ctx context.Context, username, password, bucketFolder string) (int64, error) {
	return m.createUserFn(ctx, username, password, bucketFolder)
}

func (m *mockPhotoService) ListUsers(ctx context.Context) ([]model.User, error) {
	return m.listUsersFn(ctx)
}

func (m *mockPhotoService) Upload(ctx context.Context, ownerID int64, filename string, data []byte) (*model.Photo, error) {
	return m.uploadFn(ctx, ownerID, filename, data)
}

func (m *mockPhotoService) Download(ctx context.Context, ownerID, photoID int64) ([]byte, string, error) {
	return m.downloadFn(ctx, ownerID, photoID)
}

func (m *mockPhotoService) Delete(ctx context.Context, ownerID, photoID int64) error {
	return m.deleteFn(ctx, ownerID, photoID)
}

func (m *mockPhotoService) Transform(ctx context.Context, ownerID, photoID int64, op *model.TransformOp) ([]byte, string, error) {
	return m.transformFn(ctx, ownerID, photoID, op)
}

func (m *mockPhotoService) ListPhotos(ctx context.Context, ownerID int64) ([]model.Photo, error) {
	return m.listPhotosFn(ctx, ownerID)
}

func (m *mockPhotoService) LabelsForUser(ctx context.Context, ownerID int64) ([]string, error) {
	return m.labelsForUserFn(ctx, ownerID)
}

func (m *mockPhotoService) PhotosByLabel(ctx context.Context, ownerID int64, label string) ([]model.PhotoSummary, error) {
	return m.photosByLabelFn(ctx, ownerID, label)
}

func init() {
	gin.SetMode(gin.TestMode)
}

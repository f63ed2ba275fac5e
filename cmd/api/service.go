package main

import (
	"context"

	"github.com/pixeltailor/pixeltailor/internal/model"
)

type PhotoAPIService interface {
	CreateUser(ctx context.Context, username, password, bucketFolder string) (int64, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	Upload(ctx context.Context, ownerID int64, filename string, data []byte) (*model.Photo, error)
	Download(ctx context.Context, ownerID, photoID int64) ([]byte, string, error)
	Delete(ctx context.Context, ownerID, photoID int64) error
	Transform(ctx context.Context, ownerID, photoID int64, op *model.TransformOp) ([]byte, string, error)
	ListPhotos(ctx context.Context, ownerID int64) ([]model.Photo, error)
	LabelsForUser(ctx context.Context, ownerID int64) ([]string, error)
	PhotosByLabel(ctx context.Context, ownerID int64, label string) ([]model.PhotoSummary, error)
	ReviveUnrecognized(ctx context.Context, limit int)
}

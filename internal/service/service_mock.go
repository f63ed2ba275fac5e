package service

import (
	"context"
	"io"

	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/wb-go/wbf/retry"
)

// MOCK REPOSITORY

type mockRepo struct {
	createUserFn        func(ctx context.Context, u *model.User) (int64, error)
	getUserFn           func(ctx context.Context, userID int64) (*model.User, error)
	listUsersFn         func(ctx context.Context) ([]model.User, error)
	createPhotoFn       func(ctx context.Context, p *model.Photo) (int64, error)
	getPhotoFn          func(ctx context.Context, userID, photoID int64) (*model.Photo, error)
	getPhotoByIDFn      func(ctx context.Context, photoID int64) (*model.Photo, error)
	deletePhotoFn       func(ctx context.Context, userID, photoID int64) error
	listPhotosFn        func(ctx context.Context, userID int64) ([]model.Photo, error)
	insertLabelFn       func(ctx context.Context, l *model.Label) error
	markRecognizedFn    func(ctx context.Context, photoID int64) error
	labelsForUserFn     func(ctx context.Context, userID int64) ([]string, error)
	photosByLabelFn     func(ctx context.Context, userID int64, label string) ([]model.PhotoSummary, error)
	fetchUnrecognizedFn func(ctx context.Context, limit int) ([]int64, error)
}

func (m *mockRepo) CreateUser(ctx context.Context, u *model.User) (int64, error) {
	return m.createUserFn(ctx, u)
}

func (m *mockRepo) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return m.getUserFn(ctx, userID)
}

func (m *mockRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	return m.listUsersFn(ctx)
}

func (m *mockRepo) CreatePhoto(ctx context.Context, p *model.Photo) (int64, error) {
	return m.createPhotoFn(ctx, p)
}

func (m *mockRepo) GetPhoto(ctx context.Context, userID, photoID int64) (*model.Photo, error) {
	return m.getPhotoFn(ctx, userID, photoID)
}

func (m *mockRepo) GetPhotoByID(ctx context.Context, photoID int64) (*model.Photo, error) {
	return m.getPhotoByIDFn(ctx, photoID)
}

func (m *mockRepo) DeletePhoto(ctx context.Context, userID, photoID int64) error {
	return m.deletePhotoFn(ctx, userID, photoID)
}

func (m *mockRepo) ListPhotos(ctx context.Context, userID int64) ([]model.Photo, error) {
	return m.listPhotosFn(ctx, userID)
}

func (m *mockRepo) InsertLabel(ctx context.Context, l *model.Label) error {
	return m.insertLabelFn(ctx, l)
}

func (m *mockRepo) MarkRecognized(ctx context.Context, photoID int64) error {
	return m.markRecognizedFn(ctx, photoID)
}

func (m *mockRepo) LabelsForUser(ctx context.Context, userID int64) ([]string, error) {
	return m.labelsForUserFn(ctx, userID)
}

func (m *mockRepo) PhotosByLabel(ctx context.Context, userID int64, label string) ([]model.PhotoSummary, error) {
	return m.photosByLabelFn(ctx, userID, label)
}

func (m *mockRepo) FetchUnrecognized(ctx context.Context, limit int) ([]int64, error) {
	return m.fetchUnrecognizedFn(ctx, limit)
}

// MOCK STORAGE

type mockStorage struct {
	putFn    func(ctx context.Context, key string, size int64, ct string, r io.Reader) error
	getFn    func(ctx context.Context, key string) (io.ReadCloser, string, error)
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	return m.putFn(ctx, key, size, ct, r)
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return m.getFn(ctx, key)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.deleteFn(ctx, key)
}

// MOCK PUBLISHER

type mockPublisher struct {
	sendFn func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error
}

func (m *mockPublisher) SendWithRetry(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
	return m.sendFn(ctx, s, key, v)
}

// MOCK DETECTOR

type mockDetector struct {
	detectFn func(ctx context.Context, image []byte, maxLabels int) ([]model.DetectedLabel, error)
}

func (m *mockDetector) DetectLabels(ctx context.Context, image []byte, maxLabels int) ([]model.DetectedLabel, error) {
	return m.detectFn(ctx, image, maxLabels)
}

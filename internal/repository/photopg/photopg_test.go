package photopg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"
)

func newRepoWithMock(t *testing.T) (PostgresRepo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	pg := &dbpg.DB{Master: db}

	repo := PostgresRepo{DB: pg}

	return repo, mock
}

// CREATE USER - ID COMES BACK FROM THE INSERT
func TestPostgresRepo_CreateUser_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("shuyi", "secret", "folder-7").
		WillReturnRows(sqlmock.NewRows([]string{"userid"}).AddRow(7))

	id, err := repo.CreateUser(context.Background(), &model.User{
		Username:     "shuyi",
		Password:     "secret",
		BucketFolder: "folder-7",
	})
	require.NoError(t, err)
	require.EqualValues(t, 7, id)
}

// GET USER - NOT FOUND
func TestPostgresRepo_GetUser_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT userid`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUser(context.Background(), 99)
	require.ErrorIs(t, err, model.ErrNoSuchUser)
}

// LIST USERS - SUCCESS
func TestPostgresRepo_ListUsers_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"userid", "username", "bucketfolder"}).
		AddRow(1, "shuyi", "folder-1").
		AddRow(2, "ziyue", "folder-2")

	mock.ExpectQuery(`SELECT userid, username, bucketfolder`).
		WillReturnRows(rows)

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "ziyue", users[1].Username)
}

// CREATE PHOTO - ID COMES BACK FROM THE INSERT
func TestPostgresRepo_CreatePhoto_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	photo := &model.Photo{
		UserID:       7,
		OriginalName: "cat.jpg",
		BucketKey:    "folder-7/abc.jpg",
		CreatedAt:    &now,
	}

	mock.ExpectQuery(`INSERT INTO photos`).
		WithArgs(photo.UserID, photo.OriginalName, photo.BucketKey, photo.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"photoid"}).AddRow(42))

	id, err := repo.CreatePhoto(context.Background(), photo)
	require.NoError(t, err)
	require.EqualValues(t, 42, id)
}

// GET PHOTO - OWNER AND ID MUST BOTH MATCH
func TestPostgresRepo_GetPhoto_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{
		"photoid", "userid", "original_name", "bucketkey", "created_at", "recognized_at",
	}).AddRow(42, 7, "cat.jpg", "folder-7/abc.jpg", time.Now(), nil)

	mock.ExpectQuery(`SELECT photoid`).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(rows)

	photo, err := repo.GetPhoto(context.Background(), 7, 42)
	require.NoError(t, err)
	require.EqualValues(t, 42, photo.PhotoID)
	require.Nil(t, photo.RecognizedAt)
}

// GET PHOTO - FOREIGN OWNER LOOKS LIKE NOT FOUND
func TestPostgresRepo_GetPhoto_ForeignOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT photoid`).
		WithArgs(int64(42), int64(8)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPhoto(context.Background(), 8, 42)
	require.ErrorIs(t, err, model.ErrPhotoNotFound)
}

// DELETE PHOTO - SUCCESS
func TestPostgresRepo_DeletePhoto_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`DELETE FROM photos`).
		WithArgs(int64(42), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	err := repo.DeletePhoto(context.Background(), 7, 42)
	require.NoError(t, err)
}

// DELETE PHOTO - DB FAILURE
func TestPostgresRepo_DeletePhoto_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(`DELETE FROM photos`).
		WillReturnError(dbErr)

	err := repo.DeletePhoto(context.Background(), 7, 42)
	require.ErrorIs(t, err, dbErr)
}

// LIST PHOTOS - SUCCESS
func TestPostgresRepo_ListPhotos_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{
		"photoid", "userid", "original_name", "bucketkey", "created_at", "recognized_at",
	}).
		AddRow(41, 7, "cat.jpg", "folder-7/a.jpg", time.Now(), time.Now()).
		AddRow(42, 7, "dog.png", "folder-7/b.png", time.Now(), nil)

	mock.ExpectQuery(`SELECT photoid`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	photos, err := repo.ListPhotos(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	require.NotNil(t, photos[0].RecognizedAt)
	require.Nil(t, photos[1].RecognizedAt)
}

// INSERT LABEL - UPSERT NEVER FAILS ON A DUPLICATE
func TestPostgresRepo_InsertLabel_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	confidence := 0.99
	label := &model.Label{PhotoID: 42, UserID: 7, Name: "Cat", Confidence: &confidence}

	mock.ExpectQuery(`INSERT INTO labels`).
		WithArgs(label.PhotoID, label.UserID, label.Name, label.Confidence).
		WillReturnRows(sqlmock.NewRows([]string{}))

	err := repo.InsertLabel(context.Background(), label)
	require.NoError(t, err)
}

// MARK RECOGNIZED - SUCCESS
func TestPostgresRepo_MarkRecognized_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE photos SET recognized_at`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	err := repo.MarkRecognized(context.Background(), 42)
	require.NoError(t, err)
}

// MARK RECOGNIZED - DB FAILURE PASSES THROUGH
func TestPostgresRepo_MarkRecognized_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(`UPDATE photos SET recognized_at`).
		WillReturnError(dbErr)

	err := repo.MarkRecognized(context.Background(), 42)
	require.ErrorIs(t, err, dbErr)
}

// LABELS FOR USER - DISTINCT SORTED NAMES
func TestPostgresRepo_LabelsForUser_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"labelname"}).
		AddRow("Animal").
		AddRow("Cat")

	mock.ExpectQuery(`SELECT DISTINCT labelname`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	labels, err := repo.LabelsForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, []string{"Animal", "Cat"}, labels)
}

// LABELS FOR USER - NO LABELS IS AN EMPTY LIST, NOT AN ERROR
func TestPostgresRepo_LabelsForUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT DISTINCT labelname`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"labelname"}))

	labels, err := repo.LabelsForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, labels)
	require.NotNil(t, labels)
}

// PHOTOS BY LABEL - JOINED GALLERY ROWS
func TestPostgresRepo_PhotosByLabel_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{
		"photoid", "userid", "original_name", "bucketkey", "labelname",
	}).AddRow(42, 7, "cat.jpg", "folder-7/abc.jpg", "Cat")

	mock.ExpectQuery(`SELECT p.photoid`).
		WithArgs(int64(7), "Cat").
		WillReturnRows(rows)

	photos, err := repo.PhotosByLabel(context.Background(), 7, "Cat")
	require.NoError(t, err)
	require.Len(t, photos, 1)
	require.Equal(t, "Cat", photos[0].LabelName)
}

// FETCH UNRECOGNIZED - IDS FOR THE RECOVERY LOOP
func TestPostgresRepo_FetchUnrecognized_OK(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	rows := sqlmock.NewRows([]string{"photoid"}).
		AddRow(3).
		AddRow(5)

	mock.ExpectQuery(`SELECT photoid`).
		WithArgs(20).
		WillReturnRows(rows)

	ids, err := repo.FetchUnrecognized(context.Background(), 20)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 5}, ids)
}

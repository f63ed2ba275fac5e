package photopg

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

type PostgresRepo struct {
	DB *dbpg.DB
}

// CreateUser returns the generated userid from the insert itself, so
// concurrent registrations never read each other's last-insert-id.
func (p PostgresRepo) CreateUser(ctx context.Context, u *model.User) (int64, error) {
	query := `INSERT INTO users (username, password, bucketfolder)
	VALUES ($1, $2, $3)
	RETURNING userid`

	var id int64
	if err := p.DB.QueryRowContext(ctx, query, u.Username, u.Password, u.BucketFolder).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (p PostgresRepo) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	query := `SELECT userid, username, password, bucketfolder
	FROM users
	WHERE userid = $1`

	var user model.User
	err := p.DB.QueryRowContext(ctx, query, userID).Scan(&user.UserID,
		&user.Username,
		&user.Password,
		&user.BucketFolder)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrNoSuchUser
		default:
			return nil, err // 500
		}
	}
	return &user, nil
}

func (p PostgresRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT userid, username, bucketfolder
	FROM users
	ORDER BY userid`

	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.UserID, &user.Username, &user.BucketFolder); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return users, nil
}

// CreatePhoto is the last step of the upload pair: it runs only after the
// blob write succeeded, and hands the generated id back from the insert.
func (p PostgresRepo) CreatePhoto(ctx context.Context, photo *model.Photo) (int64, error) {
	query := `INSERT INTO photos (userid, original_name, bucketkey, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING photoid`

	var id int64
	if err := p.DB.QueryRowContext(ctx, query, photo.UserID, photo.OriginalName, photo.BucketKey, photo.CreatedAt).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetPhoto requires both the id and the owner to match: a photo that
// exists under a different owner is reported exactly like a missing one.
func (p PostgresRepo) GetPhoto(ctx context.Context, userID, photoID int64) (*model.Photo, error) {
	query := `SELECT photoid, userid, original_name, bucketkey, created_at, recognized_at
	FROM photos
	WHERE photoid = $1 AND userid = $2`

	return p.scanPhoto(p.DB.QueryRowContext(ctx, query, photoID, userID))
}

func (p PostgresRepo) GetPhotoByID(ctx context.Context, photoID int64) (*model.Photo, error) {
	query := `SELECT photoid, userid, original_name, bucketkey, created_at, recognized_at
	FROM photos
	WHERE photoid = $1`

	return p.scanPhoto(p.DB.QueryRowContext(ctx, query, photoID))
}

func (p PostgresRepo) scanPhoto(row *sql.Row) (*model.Photo, error) {
	var photo model.Photo
	err := row.Scan(&photo.PhotoID,
		&photo.UserID,
		&photo.OriginalName,
		&photo.BucketKey,
		&photo.CreatedAt,
		&photo.RecognizedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrPhotoNotFound
		default:
			return nil, err // 500
		}
	}
	return &photo, nil
}

// DeletePhoto removes the metadata row; labels go with it via the
// ON DELETE CASCADE constraint. Existence and ownership are checked by
// the caller before this runs, so a zero-row delete is not an error.
func (p PostgresRepo) DeletePhoto(ctx context.Context, userID, photoID int64) error {
	query := `DELETE FROM photos
	WHERE photoid = $1 AND userid = $2`

	return p.DB.QueryRowContext(ctx, query, photoID, userID).Err()
}

func (p PostgresRepo) ListPhotos(ctx context.Context, userID int64) ([]model.Photo, error) {
	query := `SELECT photoid, userid, original_name, bucketkey, created_at, recognized_at
	FROM photos
	WHERE userid = $1
	ORDER BY photoid`

	rows, err := p.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	photos := make([]model.Photo, 0)
	for rows.Next() {
		var photo model.Photo
		if err := rows.Scan(&photo.PhotoID,
			&photo.UserID,
			&photo.OriginalName,
			&photo.BucketKey,
			&photo.CreatedAt,
			&photo.RecognizedAt); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return photos, nil
}

// InsertLabel is an upsert on (photoid, labelname): re-running the label
// pipeline for the same photo never produces duplicate names.
func (p PostgresRepo) InsertLabel(ctx context.Context, l *model.Label) error {
	query := `INSERT INTO labels (photoid, userid, labelname, confidence)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (photoid, labelname) DO NOTHING`

	return p.DB.QueryRowContext(ctx, query, l.PhotoID, l.UserID, l.Name, l.Confidence).Err()
}

func (p PostgresRepo) MarkRecognized(ctx context.Context, photoID int64) error {
	query := `UPDATE photos SET recognized_at = now() WHERE photoid = $1`

	return p.DB.QueryRowContext(ctx, query, photoID).Err()
}

func (p PostgresRepo) LabelsForUser(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT DISTINCT labelname
	FROM labels
	WHERE userid = $1
	ORDER BY labelname`

	rows, err := p.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	labels := make([]string, 0)
	for rows.Next() {
		name := ""
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		labels = append(labels, name)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return labels, nil
}

func (p PostgresRepo) PhotosByLabel(ctx context.Context, userID int64, label string) ([]model.PhotoSummary, error) {
	query := `SELECT p.photoid, p.userid, p.original_name, p.bucketkey, l.labelname
	FROM photos p
	JOIN labels l ON p.photoid = l.photoid AND p.userid = l.userid
	WHERE p.userid = $1 AND l.labelname = $2
	ORDER BY p.photoid`

	rows, err := p.DB.QueryContext(ctx, query, userID, label)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	photos := make([]model.PhotoSummary, 0)
	for rows.Next() {
		var summary model.PhotoSummary
		if err := rows.Scan(&summary.PhotoID,
			&summary.UserID,
			&summary.OriginalName,
			&summary.BucketKey,
			&summary.LabelName); err != nil {
			return nil, err
		}
		photos = append(photos, summary)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return photos, nil
}

// FetchUnrecognized finds photos whose label pipeline never completed so
// the recovery loop can re-dispatch them.
func (p PostgresRepo) FetchUnrecognized(ctx context.Context, limit int) ([]int64, error) {
	query := `SELECT photoid
	FROM photos
	WHERE recognized_at IS NULL
	AND created_at < now() - interval '10 minutes'
	LIMIT $1`

	rows, err := p.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return ids, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("Error while closing *sql.Rows after scanning: %v", err)
	}
}

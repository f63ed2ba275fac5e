// Package repository provides methods to work with DB
package repository

import (
	"context"
	"database/sql"
	"log"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/pixeltailor/pixeltailor/internal/repository/photopg"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type PhotoRepo interface {
	CreateUser(ctx context.Context, u *model.User) (int64, error)
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	CreatePhoto(ctx context.Context, p *model.Photo) (int64, error)
	GetPhoto(ctx context.Context, userID, photoID int64) (*model.Photo, error)
	GetPhotoByID(ctx context.Context, photoID int64) (*model.Photo, error)
	DeletePhoto(ctx context.Context, userID, photoID int64) error
	ListPhotos(ctx context.Context, userID int64) ([]model.Photo, error)

	InsertLabel(ctx context.Context, l *model.Label) error
	MarkRecognized(ctx context.Context, photoID int64) error
	LabelsForUser(ctx context.Context, userID int64) ([]string, error)
	PhotosByLabel(ctx context.Context, userID int64, label string) ([]model.PhotoSummary, error)
	FetchUnrecognized(ctx context.Context, limit int) ([]int64, error)
}

func NewPostgresPhotoRepo(dbconn *dbpg.DB) PhotoRepo {
	return photopg.PostgresRepo{DB: dbconn}
}

func ConnectWithRetries(appConfig *config.Config, retryCount int, idleTime time.Duration) *dbpg.DB {
	dbOptions := dbpg.Options{
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: 10 * time.Minute,
	}
	dsnLink := appConfig.GetString("POSTGRES_DSN")
	var dbConn *dbpg.DB
	var err error

	for attempt := 0; attempt < retryCount; attempt++ {
		dbConn, err = dbpg.New(dsnLink, nil, &dbOptions)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to PGDB: %s\nWaiting %v before next retry...", err, idleTime)
		time.Sleep(idleTime)
	}

	if err != nil {
		log.Fatal("Failed to connect to DB. Exiting the app...")
	}

	return dbConn
}

func MigrateWithRetries(db *sql.DB, migrationsPath string, retries int, idle time.Duration) {
	for i := 0; i < retries; i++ {
		log.Printf("Migration try #%d...", i)
		err := runMigrate(db, migrationsPath)
		if err == nil {
			break
		}
		switch i {
		case retries:
			log.Fatalln("Out of retries. Exiting...")
		default:
			log.Printf("Migration try #%d was unsuccessful. Waiting %v before next try...", i, idle)
			time.Sleep(idle)
		}
	}
}

func runMigrate(db *sql.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return err
	}

	sourceURL := "file://" + absPath
	log.Println("Running migrations from:", sourceURL)

	m, err := migrate.NewWithDatabaseInstance(
		sourceURL,
		"postgres",
		driver,
	)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	log.Println("Database migrations applied successfully")
	return nil
}

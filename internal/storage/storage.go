package storage

import (
	"log"
	"time"

	"github.com/pixeltailor/pixeltailor/internal/storage/miniostorage"
	"github.com/wb-go/wbf/config"
)

func NewPhotoStorage(cfg *config.Config, delay time.Duration) *miniostorage.MinioPhotoStorage {
	success := false
	var client *miniostorage.MinioPhotoStorage
	var err error

	for !success {
		log.Println("Connecting to photo-storage...")
		client, err = miniostorage.NewMinioClient(cfg)
		if err != nil {
			log.Printf("Failed to init connection to photo-storage: %v\nNext retry in %v...", err, delay)
			time.Sleep(delay)
			continue
		}
		log.Println("Successfully connected photo-storage!")
		success = true
	}

	return client
}

// Package main (in api-subfolder) launches the HTTP API of the photo service
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pixeltailor/pixeltailor/internal/kafka"
	"github.com/pixeltailor/pixeltailor/internal/mwlogger"
	"github.com/pixeltailor/pixeltailor/internal/repository"
	"github.com/pixeltailor/pixeltailor/internal/service"
	"github.com/pixeltailor/pixeltailor/internal/storage"
	"github.com/pixeltailor/pixeltailor/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	zlog.InitConsole()
	if err := zlog.SetLevel("info"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn := repository.ConnectWithRetries(appConfig, 5, 10*time.Second)
	repository.MigrateWithRetries(dbConn.Master, "./migrations", 10, 15*time.Second)

	strg := storage.NewPhotoStorage(appConfig, 10*time.Second)
	repo := repository.NewPostgresPhotoRepo(dbConn)

	broker := appConfig.GetString("KAFKA_BROKER")
	kafka.WaitKafkaReady(broker)
	topic := appConfig.GetString("KAFKA_TOPIC")
	kafka.InitKafkaTopics(ctx, broker, 10*time.Second, topic)
	pub := wbfkafka.NewProducer([]string{broker}, topic)

	// detector is nil here: recognition happens in cmd/worker, the API
	// only dispatches tasks
	var svc PhotoAPIService = service.NewPhotoService(repo, pub, strg, nil)
	handlers := transport.NewPhotoHandler(svc)

	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/adduser", handlers.AddUser)
	engine.GET("/users", handlers.ListUsers)
	engine.POST("/upload/:userid", handlers.Upload)
	engine.GET("/listphotos/:userid", handlers.ListPhotos)
	engine.GET("/download/:userid/:photoid", handlers.Download)
	engine.POST("/process-image/:userid/:photoid/:operation", handlers.Transform)
	engine.DELETE("/delete/:userid", handlers.Delete)
	engine.GET("/label/:userid", handlers.Labels)
	engine.GET("/labelphoto/:userid/:label", handlers.PhotosByLabel)

	srv := &http.Server{
		Addr:    ":" + appConfig.GetString("APP_PORT"),
		Handler: mwlogger.NewMWLogger(engine),
	}

	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// re-dispatch photos whose recognition never completed
	go recoveryLoop(ctx, svc)

	<-ctx.Done()

	shutdown(pub, dbConn)
	log.Println("Exiting api...")
}

func recoveryLoop(ctx context.Context, svc PhotoAPIService) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovery loop crashed:", r)
		}
	}()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.ReviveUnrecognized(context.Background(), 20)
		}
	}
}

func shutdown(pub *wbfkafka.Producer, dbConn *dbpg.DB) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	if err := pub.Close(); err != nil {
		log.Println("Failed to close Kafka-producer:", err)
	}
	log.Println("Kafka-producer connection closed.")

	if err := dbConn.Master.Close(); err != nil {
		log.Println("Failed to close DB-conn correctly:", err)
		return
	}
	log.Println("DBconn closed")
}

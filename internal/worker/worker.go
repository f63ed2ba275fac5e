// Package worker runs the label pipeline: it consumes recognition tasks
// from the queue and drives detection + label persistence for each photo.
package worker

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/pixeltailor/pixeltailor/internal/model"
	kafkago "github.com/segmentio/kafka-go"
	wbfkafka "github.com/wb-go/wbf/kafka"
)

type LabelService interface {
	RecognizeAndStore(ctx context.Context, photoID int64) ([]model.Label, error)
}

type Committer interface {
	Commit(ctx context.Context, msg kafkago.Message) error
}

type Worker struct {
	service  LabelService
	queue    <-chan kafkago.Message
	consumer Committer
}

func NewWorkerInstance(svc LabelService, q <-chan kafkago.Message, cons *wbfkafka.Consumer) *Worker {
	return &Worker{service: svc, queue: q, consumer: cons}
}

func (w *Worker) StartWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.queue:
			if !ok {
				log.Println("Queue channel closed, stopping worker...")
				return
			}
			if w.processMessage(ctx, msg) {
				if err := w.consumer.Commit(ctx, msg); err != nil {
					log.Printf("Failed to commit queue-message: %v", err)
				}
			}
		}
	}
}

// processMessage reports whether the message may be committed. Tasks that
// fail transiently stay uncommitted so the queue redelivers them; the
// label pipeline is idempotent, so redelivery is safe.
func (w *Worker) processMessage(ctx context.Context, msg kafkago.Message) bool {
	photoID, err := strconv.ParseInt(string(msg.Key), 10, 64)
	if err != nil {
		// unparseable task, committing is the only way to unblock the queue
		log.Printf("Dropping task with malformed photo id %q", string(msg.Key))
		return true
	}

	labels, err := w.service.RecognizeAndStore(ctx, photoID)
	switch {
	case err == nil:
		log.Printf("Photo %d recognized, %d label(s) stored", photoID, len(labels))
		return true
	case errors.Is(err, model.ErrPhotoNotFound):
		// deleted before recognition ran, nothing left to label
		log.Printf("Photo %d is gone, dropping its recognition task", photoID)
		return true
	default:
		log.Printf("Task for photo %d failed, leaving it for redelivery: %v", photoID, err)
		return false
	}
}

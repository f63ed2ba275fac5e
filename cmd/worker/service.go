package main

import (
	"context"

	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/wb-go/wbf/retry"
)

type LabelWorkerService interface {
	RecognizeAndStore(ctx context.Context, photoID int64) ([]model.Label, error)
}

// NoopPublisher satisfies the service's publisher dependency; the worker
// only consumes tasks and never enqueues new ones.
type NoopPublisher struct{}

func (NoopPublisher) SendWithRetry(ctx context.Context, strategy retry.Strategy, k []byte, v []byte) error {
	return nil
}

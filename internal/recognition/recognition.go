// Package recognition gives the label pipeline its view of the managed
// image-recognition service: bytes in, ranked (name, confidence) pairs out.
package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pixeltailor/pixeltailor/internal/model"
	"github.com/wb-go/wbf/config"
)

type Detector interface {
	DetectLabels(ctx context.Context, image []byte, maxLabels int) ([]model.DetectedLabel, error)
}

// HTTPDetector calls the recognition endpoint once per invocation. There
// is no retry here: a failed detection fails the whole task and the queue
// redelivers it.
type HTTPDetector struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPDetector(cfg *config.Config) *HTTPDetector {
	return &HTTPDetector{
		endpoint:   cfg.GetString("RECOGNITION_URL"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type detectRequest struct {
	Image     string `json:"image"`
	MaxLabels int    `json:"max_labels"`
}

type detectResponse struct {
	Labels []model.DetectedLabel `json:"labels"`
}

func (d *HTTPDetector) DetectLabels(ctx context.Context, image []byte, maxLabels int) ([]model.DetectedLabel, error) {
	payload, err := json.Marshal(detectRequest{
		Image:     base64.StdEncoding.EncodeToString(image),
		MaxLabels: maxLabels,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognition call failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition service returned status %d", resp.StatusCode)
	}

	var body detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode recognition response: %w", err)
	}

	if len(body.Labels) > maxLabels {
		body.Labels = body.Labels[:maxLabels]
	}
	return body.Labels, nil
}

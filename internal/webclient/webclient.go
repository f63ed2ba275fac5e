// Package webclient wraps outbound HTTP calls with the bounded-retry
// policy the app uses for flaky networks: at most 3 attempts, a linearly
// growing pause between them, and a fixed set of status codes treated as
// terminal. Callers always get the last response (or the transport error)
// back and branch on the status code, nothing is raised past this boundary.
package webclient

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

const maxAttempts = 3

// terminal response codes: anything else is considered transient and
// worth another attempt
var acceptedStatusMap = map[int]bool{
	200: true,
	400: true,
	480: true,
	481: true,
	482: true,
	500: true,
}

type Client struct {
	httpClient *http.Client
	sleep      func(time.Duration)
}

func New(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		sleep:      time.Sleep,
	}
}

// NewWithSleeper is used by tests to observe the backoff pauses.
func NewWithSleeper(httpClient *http.Client, sleep func(time.Duration)) *Client {
	return &Client{httpClient: httpClient, sleep: sleep}
}

func (c *Client) Get(url string) (*http.Response, error) {
	return c.do(http.MethodGet, url, "", nil)
}

func (c *Client) PostJSON(url string, body []byte) (*http.Response, error) {
	return c.do(http.MethodPost, url, "application/json", body)
}

func (c *Client) DeleteJSON(url string, body []byte) (*http.Response, error) {
	return c.do(http.MethodDelete, url, "application/json", body)
}

// do retries the call with a delay of attempt-number seconds between
// attempts. The request body is replayed from the buffered bytes, so
// every attempt sends the full payload.
func (c *Client) do(method, url, contentType string, body []byte) (*http.Response, error) {
	var lastResp *http.Response
	var lastErr error

	for attempt := 1; ; attempt++ {
		req, err := http.NewRequest(method, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && acceptedStatusMap[resp.StatusCode] {
			return resp, nil
		}

		lastResp, lastErr = resp, err
		if attempt == maxAttempts {
			break
		}
		if resp != nil {
			drainBody(resp)
		}

		c.sleep(time.Duration(attempt) * time.Second)
	}

	return lastResp, lastErr
}

// drainBody frees the connection of a response we are about to retry past.
func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

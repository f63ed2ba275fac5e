package webclient

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(statuses ...int) (*Client, *httptest.Server, *atomic.Int32, *[]time.Duration) {
	var calls atomic.Int32
	pauses := &[]time.Duration{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1))
		if n > len(statuses) {
			n = len(statuses)
		}
		w.WriteHeader(statuses[n-1])
	}))

	client := NewWithSleeper(srv.Client(), func(d time.Duration) {
		*pauses = append(*pauses, d)
	})

	return client, srv, &calls, pauses
}

func TestClient_TerminalStatusNoRetry(t *testing.T) {
	for _, status := range []int{200, 400, 480, 481, 482, 500} {
		client, srv, calls, _ := newTestClient(status)

		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		require.Equal(t, status, resp.StatusCode)
		require.Equal(t, int32(1), calls.Load())

		_ = resp.Body.Close()
		srv.Close()
	}
}

func TestClient_RetriesThenSucceeds(t *testing.T) {
	client, srv, calls, pauses := newTestClient(503, 503, 200)
	defer srv.Close()

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, int32(3), calls.Load())

	// linear backoff: 1s after the first failure, 2s after the second
	require.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *pauses)

	_ = resp.Body.Close()
}

func TestClient_GivesUpAfterThreeAttempts(t *testing.T) {
	client, srv, calls, _ := newTestClient(503, 503, 503, 503)
	defer srv.Close()

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	require.Equal(t, 503, resp.StatusCode) // last response is handed back
	require.Equal(t, int32(3), calls.Load())

	_ = resp.Body.Close()
}

func TestClient_TransportFailureReturnsError(t *testing.T) {
	client := NewWithSleeper(&http.Client{Timeout: 100 * time.Millisecond}, func(time.Duration) {})

	resp, err := client.Get("http://127.0.0.1:1/unreachable")
	require.Error(t, err)
	require.Nil(t, resp)
}

func TestClient_PostReplaysBodyOnRetry(t *testing.T) {
	var bodies []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		bodies = append(bodies, string(buf[:n]))
		if len(bodies) < 2 {
			w.WriteHeader(503)
			return
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	client := NewWithSleeper(srv.Client(), func(time.Duration) {})

	resp, err := client.PostJSON(srv.URL, []byte(`{"photoid":"7"}`))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, []string{`{"photoid":"7"}`, `{"photoid":"7"}`}, bodies)

	_ = resp.Body.Close()
}

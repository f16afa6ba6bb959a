package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"crypto-meanrev/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(baseURL string, policy RetryPolicy) *Fetcher {
	client := New(baseURL, 5*time.Second, "meanrev-test")
	return NewFetcher(client, policy, logger.Nop())
}

func TestFetchJSON_HonorsRetryAfterHint(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, RetryPolicy{
		MaxAttempts: 6,
		BackoffMin:  10 * time.Millisecond,
		BackoffMax:  5 * time.Second,
	})

	start := time.Now()
	var out map[string]bool
	err := fetcher.FetchJSON(context.Background(), "/", nil, nil, &out)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.True(t, out["ok"])
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	// Two waits of ~1s each, jittered by ±20%.
	assert.GreaterOrEqual(t, elapsed, 1600*time.Millisecond)
	assert.Less(t, elapsed, 3*time.Second)
}

func TestFetchJSON_NonRetryableFailsImmediately(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "no such coin", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, RetryPolicy{
		MaxAttempts: 6,
		BackoffMin:  time.Millisecond,
		BackoffMax:  10 * time.Millisecond,
	})

	err := fetcher.FetchJSON(context.Background(), "/", nil, nil, nil)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, 1, fetchErr.Attempts)
	assert.Contains(t, fetchErr.Body, "no such coin")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchJSON_ExhaustsRetryBudget(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, RetryPolicy{
		MaxAttempts: 3,
		BackoffMin:  time.Millisecond,
		BackoffMax:  5 * time.Millisecond,
	})

	err := fetcher.FetchJSON(context.Background(), "/", nil, nil, nil)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestFetchJSON_TransportErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close() // connection refused from here on

	fetcher := newTestFetcher(baseURL, RetryPolicy{
		MaxAttempts: 2,
		BackoffMin:  time.Millisecond,
		BackoffMax:  5 * time.Millisecond,
	})

	err := fetcher.FetchJSON(context.Background(), "/", nil, nil, nil)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 2, fetchErr.Attempts)
	assert.Error(t, fetchErr.Unwrap())
}

func TestFetchJSON_BadBodyFailsWithoutRetry(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, RetryPolicy{
		MaxAttempts: 4,
		BackoffMin:  time.Millisecond,
		BackoffMax:  5 * time.Millisecond,
	})

	var out map[string]any
	err := fetcher.FetchJSON(context.Background(), "/", nil, nil, &out)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchJSON_CancelledContextStopsWaiting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server.URL, RetryPolicy{
		MaxAttempts: 5,
		BackoffMin:  time.Millisecond,
		BackoffMax:  time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := fetcher.FetchJSON(ctx, "/", nil, nil, nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}

func TestJitterStaysInBounds(t *testing.T) {
	for i := 0; i < 200; i++ {
		d := Jitter(time.Second)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1200*time.Millisecond)
	}
}

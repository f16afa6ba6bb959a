package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"crypto-meanrev/pkg/logger"
)

const (
	backoffMultiplier = 1.7
	jitterLow         = 0.8
	jitterSpan        = 0.4
)

// RetryPolicy bounds the retry loop of a Fetcher.
type RetryPolicy struct {
	MaxAttempts int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
}

// Fetcher is a hardened JSON-over-HTTP GET primitive. It retries rate-limit
// and server errors with exponential backoff, honors Retry-After hints and
// knows nothing about what it is fetching.
type Fetcher struct {
	client HTTPClient
	policy RetryPolicy
	log    *logger.Logger
}

func NewFetcher(client HTTPClient, policy RetryPolicy, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		policy: policy,
		log:    log,
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryAfterHint parses the upstream "Retry-After: N" seconds form.
func retryAfterHint(headers http.Header) (time.Duration, bool) {
	raw := headers.Get("Retry-After")
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

func clampDuration(d, min, max time.Duration) time.Duration {
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// Jitter multiplies a duration by a random factor in [0.8, 1.2].
func Jitter(d time.Duration) time.Duration {
	factor := jitterLow + jitterSpan*rand.Float64()
	return time.Duration(float64(d) * factor)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FetchJSON performs a GET and decodes the 200 body into out. Retryable
// statuses (429, 500, 502, 503, 504) and transport errors are waited out
// with jittered exponential backoff; any other status fails immediately.
func (f *Fetcher) FetchJSON(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, out interface{}) error {
	backoff := f.policy.BackoffMin
	var lastErr error

	for attempt := 1; attempt <= f.policy.MaxAttempts; attempt++ {
		resp, err := f.client.Get(ctx, endpoint, queryParams, headers)

		if err == nil && resp.StatusCode == http.StatusOK {
			if out == nil {
				return nil
			}
			if decodeErr := json.Unmarshal(resp.Body, out); decodeErr != nil {
				return &FetchError{Endpoint: endpoint, Attempts: attempt, Err: fmt.Errorf("decode response: %w", decodeErr)}
			}
			return nil
		}

		wait := backoff
		switch {
		case err != nil:
			lastErr = err
		case isRetryableStatus(resp.StatusCode):
			lastErr = fmt.Errorf("upstream returned status %d", resp.StatusCode)
			if hint, ok := retryAfterHint(resp.Headers); ok {
				wait = hint
			}
		default:
			return &FetchError{
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode,
				Attempts:   attempt,
				Body:       truncateBody(resp.Body),
			}
		}

		if attempt == f.policy.MaxAttempts {
			break
		}

		wait = clampDuration(wait, f.policy.BackoffMin, f.policy.BackoffMax)
		f.log.Warn("Retrying upstream request",
			logger.StringField("endpoint", endpoint),
			logger.IntField("attempt", attempt),
			logger.DurationField("wait", wait),
			logger.ErrorField(lastErr),
		)
		if sleepErr := sleepCtx(ctx, Jitter(wait)); sleepErr != nil {
			return &FetchError{Endpoint: endpoint, Attempts: attempt, Err: sleepErr}
		}

		backoff = time.Duration(float64(backoff) * backoffMultiplier)
		if backoff > f.policy.BackoffMax {
			backoff = f.policy.BackoffMax
		}
	}

	return &FetchError{
		Endpoint: endpoint,
		Attempts: f.policy.MaxAttempts,
		Err:      lastErr,
	}
}

package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

type BaseResponse struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

type HTTPClient interface {
	Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string) (*BaseResponse, error)
}

const maxErrorBodyLen = 200

// FetchError is returned when a request could not be served: either a
// non-retryable status, or the retry budget ran out.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Attempts   int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", e.Endpoint, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBodyLen {
		return string(body[:maxErrorBodyLen])
	}
	return string(body)
}

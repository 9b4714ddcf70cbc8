package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	httpMaxRetries = 3
	httpMaxBody    = 256 << 20
)

// ErrTooLarge is returned when an artifact exceeds the store's size limit.
var ErrTooLarge = errors.New("artifact too large")

// StatusError is a non-2xx response from an artifact server.
type StatusError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) { s.client = c }
}

// WithBearerToken sends "Authorization: Bearer <token>" with every request.
func WithBearerToken(token string) HTTPOption {
	return func(s *HTTPStore) { s.token = token }
}

// WithBackoff sets the first retry delay; later retries double it.
// Default: 1s.
func WithBackoff(d time.Duration) HTTPOption {
	return func(s *HTTPStore) { s.backoff = d }
}

// WithMaxBodySize caps the size of a single artifact. Default: 256MiB.
func WithMaxBodySize(n int64) HTTPOption {
	return func(s *HTTPStore) { s.maxBody = n }
}

// HTTPStore reads artifacts as <base URL>/<name>, for artifact sets
// published to object storage or a static file server. 429 and 5xx
// responses are retried up to three times.
type HTTPStore struct {
	base    *url.URL
	token   string
	client  *http.Client
	backoff time.Duration
	maxBody int64
}

// NewHTTPStore creates a store rooted at baseURL.
func NewHTTPStore(baseURL string, opts ...HTTPOption) (*HTTPStore, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("artifact: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("artifact: unsupported url scheme %q", u.Scheme)
	}
	s := &HTTPStore{
		base:    u,
		client:  &http.Client{Timeout: 30 * time.Second},
		backoff: time.Second,
		maxBody: httpMaxBody,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPStore) Read(ctx context.Context, name string) ([]byte, error) {
	target := s.base.ResolveReference(&url.URL{Path: name}).String()

	var lastErr *StatusError
	for attempt := 0; attempt <= httpMaxRetries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(s.delay(attempt, lastErr))
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		body, err := s.get(ctx, target)
		if err == nil {
			return body, nil
		}
		var se *StatusError
		if !errors.As(err, &se) {
			return nil, fmt.Errorf("artifact: get %s: %w", name, err)
		}
		switch {
		case se.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s at %s", ErrNotFound, name, s.Describe())
		case se.StatusCode == http.StatusTooManyRequests, se.StatusCode >= 500:
			lastErr = se
			continue
		}
		return nil, fmt.Errorf("artifact: get %s: %w", name, se)
	}
	return nil, fmt.Errorf("artifact: get %s: %w", name, lastErr)
}

func (s *HTTPStore) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if int64(len(body)) > s.maxBody {
			return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, s.maxBody)
		}
		return body, nil
	}

	if len(body) > 512 {
		body = body[:512]
	}
	return nil, &StatusError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		retryAfter: resp.Header.Get("Retry-After"),
	}
}

// delay honours Retry-After on 429, otherwise backs off exponentially.
func (s *HTTPStore) delay(attempt int, last *StatusError) time.Duration {
	if last != nil && last.StatusCode == http.StatusTooManyRequests && last.retryAfter != "" {
		if secs, err := strconv.Atoi(last.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return s.backoff << (attempt - 1)
}

func (s *HTTPStore) Describe() string {
	u := *s.base
	u.User = nil
	return u.String()
}

package httputil

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/karfly/WeatherBletherBot/internal/metrics"
)

const (
	DefaultTimeout = 30 * time.Second
	// DefaultMaxElapsed bounds retries of rate-limited requests.
	DefaultMaxElapsed = 30 * time.Second
)

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}

// Fetcher performs GET requests against one upstream. Rate-limited responses
// are retried with exponential backoff; repeated failures open a circuit
// breaker so a dead upstream fails fast.
type Fetcher struct {
	name       string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
	maxElapsed time.Duration
	userAgent  string
}

// NewFetcher creates a fetcher for the named upstream.
func NewFetcher(name string, client *http.Client) *Fetcher {
	if client == nil {
		client = NewClient()
	}
	return &Fetcher{
		name:       name,
		client:     client,
		breaker:    newBreaker(name),
		maxElapsed: DefaultMaxElapsed,
		userAgent:  "WeatherBletherBot/1.0",
	}
}

// SetMaxElapsed changes how long rate-limited requests are retried.
func (f *Fetcher) SetMaxElapsed(d time.Duration) {
	f.maxElapsed = d
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("httputil: circuit breaker %q changed from %v to %v", name, from, to)
		},
	})
}

// Get fetches url and returns the response body of a 200 response.
func (f *Fetcher) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	start := time.Now()
	body, err := f.breaker.Execute(func() (interface{}, error) {
		return f.getWithRetry(ctx, url, header)
	})
	metrics.UpstreamLatency.WithLabelValues(f.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(f.name, "error").Inc()
		return nil, err
	}
	metrics.UpstreamCallsTotal.WithLabelValues(f.name, "ok").Inc()
	return body.([]byte), nil
}

func (f *Fetcher) getWithRetry(ctx context.Context, url string, header http.Header) ([]byte, error) {
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", f.userAgent)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("fetch %s: %w", f.name, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("rate limited: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", f.name, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = f.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// FormatFloat renders coordinates for query strings without trailing zeros.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

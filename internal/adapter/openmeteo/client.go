package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker/v2"
)

// RetryPolicy bounds retries of transient upstream failures (429 and 5xx).
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryPolicy returns the policy used for archive requests.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		MinWait:    200 * time.Millisecond,
		MaxWait:    5 * time.Second,
	}
}

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = errors.New("archive circuit breaker open")

// resilientClient wraps an *http.Client with a circuit breaker and retries.
type resilientClient struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	policy  RetryPolicy
	sleep   func(ctx context.Context, d time.Duration) error
	onRetry func()
}

func newResilientClient(httpClient *http.Client, policy RetryPolicy) *resilientClient {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "openmeteo-archive",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})
	return &resilientClient{
		http:    httpClient,
		breaker: cb,
		policy:  policy,
		sleep:   sleepContext,
		onRetry: func() {},
	}
}

// do executes a GET-style request, retrying 429/5xx and transport errors.
// Non-retryable responses (2xx-4xx except 429) are returned as-is; the caller
// closes the body.
func (c *resilientClient) do(req *http.Request) (*http.Response, error) {
	attempts := 1 + c.policy.MaxRetries
	var lastErr error

	for attempt := range attempts {
		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, err := c.http.Do(req)
			if err != nil {
				return nil, err
			}
			if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
				return r, fmt.Errorf("upstream returned %d", r.StatusCode)
			}
			return r, nil
		})
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}

		wait := c.backoff(attempt, resp)
		if resp != nil {
			resp.Body.Close()
		}
		if attempt == attempts-1 {
			break
		}
		c.onRetry()
		if err := c.sleep(req.Context(), wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("archive request failed after %d attempts: %w", attempts, lastErr)
}

// backoff honours a numeric Retry-After header, otherwise uses exponential
// backoff with jitter clamped to [MinWait, MaxWait].
func (c *resilientClient) backoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
			return min(time.Duration(s)*time.Second, c.policy.MaxWait)
		}
	}
	base := float64(c.policy.MinWait) * math.Pow(2, float64(attempt))
	base = math.Min(base, float64(c.policy.MaxWait))
	lo := float64(c.policy.MinWait)
	if base <= lo {
		return c.policy.MinWait
	}
	return time.Duration(lo + rand.Float64()*(base-lo))
}

// state reports the breaker state.
func (c *resilientClient) state() gobreaker.State {
	return c.breaker.State()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

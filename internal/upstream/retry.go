package upstream

import (
	"bikeprice/internal/models"
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"
)

type RetryConfig struct {
	// MaxAttempts includes the first call.
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// IsRetryable accepts network failures and transient HTTP statuses. Anything
// else, including an open breaker, fails the fetch immediately.
func IsRetryable(err error) bool {
	var e *models.Error
	if !errors.As(err, &e) || e.Kind != models.KindTransport {
		return false
	}
	if status, ok := e.Context["status"].(int); ok {
		return retryableStatuses[status]
	}
	if e.Cause == nil || errors.Is(e.Cause, errBreakerOpen) || errors.Is(e.Cause, context.Canceled) {
		return false
	}
	return true
}

// backoff grows exponentially from InitialBackoff, capped at MaxBackoff, and
// returns a full-jitter value in [0, cap).
func (rc RetryConfig) backoff(attempt int) time.Duration {
	d := rc.InitialBackoff
	for i := 1; i < attempt && d < rc.MaxBackoff; i++ {
		d *= 2
	}
	if rc.MaxBackoff > 0 && d > rc.MaxBackoff {
		d = rc.MaxBackoff
	}
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d)))
}

// do runs op until it succeeds, returns a non-retryable error, or runs out of
// attempts. It reports how many attempts were made.
func (rc RetryConfig) do(ctx context.Context, op func(ctx context.Context) ([]byte, error)) ([]byte, int, error) {
	attempts := max(rc.MaxAttempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, models.TransportError(0, "", err)
		}

		body, err := op(ctx)
		if err == nil {
			return body, attempt, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == attempts {
			return nil, attempt, err
		}

		timer := time.NewTimer(rc.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, attempt, models.TransportError(0, "", ctx.Err())
		case <-timer.C:
		}
	}
	return nil, attempts, lastErr
}

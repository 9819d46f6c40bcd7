package upstream

import (
	"bikeprice/internal/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"shape error", models.ShapeError("bad"), false},
		{"network failure", models.TransportError(0, "", errors.New("reset")), true},
		{"408", models.TransportError(408, "", nil), true},
		{"429", models.TransportError(429, "", nil), true},
		{"500", models.TransportError(500, "", nil), true},
		{"503", models.TransportError(503, "", nil), true},
		{"404", models.TransportError(404, "", nil), false},
		{"401", models.TransportError(401, "", nil), false},
		{"breaker open", models.TransportError(0, "", errBreakerOpen), false},
		{"cancelled", models.TransportError(0, "", context.Canceled), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.err))
		})
	}
}

func TestBackoff_FullJitterWithinCap(t *testing.T) {
	rc := RetryConfig{MaxAttempts: 5, InitialBackoff: 10 * time.Millisecond, MaxBackoff: 40 * time.Millisecond}
	for attempt := 1; attempt <= 6; attempt++ {
		for i := 0; i < 50; i++ {
			d := rc.backoff(attempt)
			assert.GreaterOrEqual(t, d, time.Duration(0))
			assert.Less(t, d, 40*time.Millisecond)
		}
	}
	assert.Equal(t, time.Duration(0), RetryConfig{}.backoff(3))
}

func TestRetryDo_StopsOnSuccess(t *testing.T) {
	rc := RetryConfig{MaxAttempts: 4, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	calls := 0
	body, attempts, err := rc.do(context.Background(), func(ctx context.Context) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, models.TransportError(500, "", nil)
		}
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)
	assert.Equal(t, 2, attempts)
}

func TestRetryDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, attempts, err := RetryConfig{}.do(context.Background(), func(ctx context.Context) ([]byte, error) {
		calls++
		return nil, models.TransportError(500, "", nil)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, attempts)
}

package upstream

import (
	"bikeprice/internal/models"
	"bikeprice/internal/providers"
	"errors"
	"github.com/sony/gobreaker"
	"sync"
	"time"
)

var errBreakerOpen = errors.New("circuit breaker open")

type BreakerConfig struct {
	// Failures is the consecutive failure count that opens a breaker. Zero
	// disables breaking.
	Failures uint32
	Timeout  time.Duration
}

// breakers keeps one gobreaker per upstream host.
type breakers struct {
	mu     sync.Mutex
	conf   BreakerConfig
	logger providers.Logger
	byHost map[string]*gobreaker.CircuitBreaker
}

func newBreakers(conf BreakerConfig, logger providers.Logger) *breakers {
	return &breakers{
		conf:   conf,
		logger: logger,
		byHost: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (b *breakers) forHost(host string) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.byHost[host]; ok {
		return cb
	}
	threshold := b.conf.Failures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Timeout:     b.conf.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// client errors say nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || !IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warnf(providers.TypeUpstream, "Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	b.byHost[host] = cb
	return cb
}

func (b *breakers) execute(host string, op func() ([]byte, error)) ([]byte, error) {
	if b.conf.Failures == 0 {
		return op()
	}
	result, err := b.forHost(host).Execute(func() (interface{}, error) {
		return op()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, models.TransportError(0, "", errBreakerOpen)
	}
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (b *breakers) state(host string) gobreaker.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.byHost[host]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}

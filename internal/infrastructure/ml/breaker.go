package ml

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gobreaker "github.com/sony/gobreaker/v2"

	"NewsGenie/internal/config"
	"NewsGenie/internal/domain"
	"NewsGenie/internal/metrics"
	"NewsGenie/internal/ports"
)

// BreakerSummarizer guards a Summarizer with a circuit breaker. While the
// circuit is open calls fail fast with domain.ErrUpstreamUnavailable.
type BreakerSummarizer struct {
	next ports.Summarizer
	cb   *gobreaker.CircuitBreaker[string]
	name string
	log  *slog.Logger
}

var _ ports.Summarizer = (*BreakerSummarizer)(nil)

// NewBreakerSummarizer wraps next. The circuit opens once at least
// MinRequests calls in the interval failed at FailureRatio or worse.
func NewBreakerSummarizer(name string, next ports.Summarizer, cfg config.BreakerConfig, log *slog.Logger) *BreakerSummarizer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	b := &BreakerSummarizer{next: next, name: name, log: log}
	b.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
	return b
}

// Summarize forwards to the wrapped summarizer unless the circuit is open.
func (b *BreakerSummarizer) Summarize(ctx context.Context, text string, maxLength int) (string, error) {
	summary, err := b.cb.Execute(func() (string, error) {
		return b.next.Summarize(ctx, text, maxLength)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return "", fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, b.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return "", err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return summary, nil
}

// State reports the breaker state, mostly for tests and health output.
func (b *BreakerSummarizer) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"movie-recommender/internal/metrics"
	"movie-recommender/internal/models"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("movie provider temporarily unavailable")

// BreakerSettings tunes WithCircuitBreaker.
type BreakerSettings struct {
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	Timeout      time.Duration
}

// DefaultBreakerSettings opens after 60% failures over at least 10 requests.
var DefaultBreakerSettings = BreakerSettings{
	MinRequests:  10,
	FailureRatio: 0.6,
	Interval:     time.Minute,
	Timeout:      30 * time.Second,
}

type breakerProvider struct {
	next MovieProvider
	cb   *gobreaker.CircuitBreaker[any]
}

// WithCircuitBreaker wraps p so that a failing backend is short-circuited
// instead of being hammered by every candidate lookup. ErrNotFound does not
// count as a failure.
func WithCircuitBreaker(p MovieProvider, s BreakerSettings) MovieProvider {
	name := p.Name() + "-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= s.FailureRatio {
				slog.Warn("opening circuit breaker", "name", name, "failures", counts.TotalFailures, "failure_ratio", ratio)
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Info("circuit breaker state transition", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})

	return &breakerProvider{next: p, cb: cb}
}

func (b *breakerProvider) Name() string { return b.next.Name() }

func (b *breakerProvider) SearchByTitle(ctx context.Context, query string) ([]models.MovieSummary, error) {
	return execute(b, "search_title", func() ([]models.MovieSummary, error) {
		return b.next.SearchByTitle(ctx, query)
	})
}

func (b *breakerProvider) SearchByTerm(ctx context.Context, term string, page int) ([]models.MovieSummary, error) {
	return execute(b, "search_term", func() ([]models.MovieSummary, error) {
		return b.next.SearchByTerm(ctx, term, page)
	})
}

func (b *breakerProvider) GetDetails(ctx context.Context, id string) (models.Movie, error) {
	return execute(b, "details", func() (models.Movie, error) {
		return b.next.GetDetails(ctx, id)
	})
}

func execute[T any](b *breakerProvider, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	metrics.UpstreamDuration.WithLabelValues(b.Name(), op).Observe(time.Since(start).Seconds())

	var zero T
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.UpstreamRequests.WithLabelValues(b.Name(), op, "rejected").Inc()
			return zero, ErrUnavailable
		}
		outcome := "failure"
		if errors.Is(err, ErrNotFound) {
			outcome = "not_found"
		}
		metrics.UpstreamRequests.WithLabelValues(b.Name(), op, outcome).Inc()
		return zero, err
	}

	metrics.UpstreamRequests.WithLabelValues(b.Name(), op, "success").Inc()
	typed, _ := res.(T)
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	pkgfetch "github.com/goliatone/go-graphview/pkg/fetch"
)

// ErrCircuitOpen is returned while the breaker rejects fetches.
var ErrCircuitOpen = errors.New("fetch: circuit open")

// WithBreaker wraps src in a circuit breaker. Not-found answers and caller
// cancellations count as successes so a missing node cannot open the
// circuit. Settings with zero MaxFailures return src unchanged.
func WithBreaker(src pkgfetch.Source, settings pkgfetch.BreakerSettings, logger *zap.Logger) pkgfetch.Source {
	if settings.MaxFailures == 0 {
		return src
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	name := settings.Name
	if name == "" {
		name = "graphview-fetch"
	}
	maxFailures := settings.MaxFailures

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, pkgfetch.ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})

	return pkgfetch.SourceFunc(func(ctx context.Context, id string) ([]byte, error) {
		out, err := cb.Execute(func() (any, error) {
			return src.FetchRaw(ctx, id)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if err != nil {
			return nil, err
		}
		data, _ := out.([]byte)
		return data, nil
	})
}

// WithRateLimit throttles src to rps fetches per second. Non-positive rps
// returns src unchanged.
func WithRateLimit(src pkgfetch.Source, rps float64, burst int) pkgfetch.Source {
	if rps <= 0 {
		return src
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return pkgfetch.SourceFunc(func(ctx context.Context, id string) ([]byte, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch: rate limit: %w", err)
		}
		return src.FetchRaw(ctx, id)
	})
}

// WithLogging records every fetch at debug level and failures at warn.
func WithLogging(src pkgfetch.Source, logger *zap.Logger) pkgfetch.Source {
	if logger == nil {
		return src
	}
	return pkgfetch.SourceFunc(func(ctx context.Context, id string) ([]byte, error) {
		started := time.Now()
		data, err := src.FetchRaw(ctx, id)
		fields := []zap.Field{
			zap.String("id", id),
			zap.Duration("duration", time.Since(started)),
		}
		switch {
		case err == nil:
			logger.Debug("fetched node", append(fields, zap.Int("bytes", len(data)))...)
		case IsNotFound(err):
			logger.Info("node not found", fields...)
		default:
			logger.Warn("fetch failed", append(fields, zap.Error(err))...)
		}
		return data, err
	})
}

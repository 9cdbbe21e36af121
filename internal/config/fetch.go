package config

import (
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-graphview/pkg/fetch"
)

// FetchOptions translates the source and resilience sections into fetch
// options.
func (c *Config) FetchOptions(logger *zap.Logger) []fetch.Option {
	opts := []fetch.Option{
		fetch.WithLimit(c.Source.Limit),
		fetch.WithTimeout(c.Source.Timeout),
		fetch.WithValidation(c.Source.Validate),
		fetch.WithRateLimit(c.Resilience.RateLimit, c.Resilience.Burst),
		fetch.WithBreaker(fetch.BreakerSettings{
			Name:        "graphview-source",
			MaxRequests: 1,
			Timeout:     c.Resilience.BreakerTimeout,
			MaxFailures: c.Resilience.BreakerFailures,
		}),
		fetch.WithLogger(logger),
	}
	switch {
	case c.Source.Endpoint != "":
		opts = append(opts, fetch.WithEndpoint(c.Source.Endpoint))
	case c.Source.WebSocket != "":
		opts = append(opts, fetch.WithWebSocket(c.Source.WebSocket))
	case c.Source.Dir != "":
		opts = append(opts, fetch.WithFileSystem(os.DirFS(c.Source.Dir)))
	case c.Source.Snapshot != "":
		opts = append(opts, fetch.WithSnapshot(c.Source.Snapshot))
	}
	return opts
}

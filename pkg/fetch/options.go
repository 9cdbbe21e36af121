package fetch

import (
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// BreakerSettings configures the circuit breaker wrapped around remote
// sources. A zero MaxFailures disables the breaker.
type BreakerSettings struct {
	Name string
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval clears the failure counts while closed. Zero keeps them.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// MaxFailures consecutive failures trip the breaker.
	MaxFailures uint32
}

// Options configures how node payloads are fetched. Exactly one of Endpoint,
// WebSocketURL, FileSystem or SnapshotPath selects the source; the first set
// in that order wins.
type Options struct {
	// Endpoint is the GraphQL HTTP endpoint, e.g. http://localhost:8080/graphql.
	Endpoint string
	// WebSocketURL is the GraphQL websocket endpoint, e.g.
	// ws://localhost:8080/graphqlws.
	WebSocketURL string
	// FileSystem serves `<id>.json` payload files.
	FileSystem fs.FS
	// SnapshotPath is a SQLite snapshot database.
	SnapshotPath string

	HTTPClient *http.Client
	Timeout    time.Duration
	// Limit caps every list in the query. Defaults to DefaultLimit.
	Limit int
	// Validate runs the payload schema before decoding.
	Validate bool

	// RateLimit is the sustained requests per second; zero disables limiting.
	RateLimit float64
	Burst     int

	Breaker BreakerSettings
	Logger  *zap.Logger
}

// Option mutates Options prior to construction.
type Option func(*Options)

// WithEndpoint selects the GraphQL HTTP source.
func WithEndpoint(url string) Option {
	return func(opts *Options) {
		opts.Endpoint = url
	}
}

// WithWebSocket selects the GraphQL websocket source.
func WithWebSocket(url string) Option {
	return func(opts *Options) {
		opts.WebSocketURL = url
	}
}

// WithFileSystem selects payload files in files.
func WithFileSystem(files fs.FS) Option {
	return func(opts *Options) {
		opts.FileSystem = files
	}
}

// WithSnapshot selects a SQLite snapshot database.
func WithSnapshot(path string) Option {
	return func(opts *Options) {
		opts.SnapshotPath = path
	}
}

// WithHTTPClient injects the client used for HTTP requests.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}

// WithTimeout caps each fetch.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithLimit overrides the list limit.
func WithLimit(limit int) Option {
	return func(opts *Options) {
		if limit > 0 {
			opts.Limit = limit
		}
	}
}

// WithValidation toggles payload schema validation.
func WithValidation(enabled bool) Option {
	return func(opts *Options) {
		opts.Validate = enabled
	}
}

// WithRateLimit limits outgoing fetches to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(opts *Options) {
		opts.RateLimit = rps
		opts.Burst = burst
	}
}

// WithBreaker wraps remote sources in a circuit breaker.
func WithBreaker(settings BreakerSettings) Option {
	return func(opts *Options) {
		opts.Breaker = settings
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// NewOptions applies options over the defaults.
func NewOptions(options ...Option) Options {
	cfg := Options{
		Limit:   DefaultLimit,
		Timeout: 10 * time.Second,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

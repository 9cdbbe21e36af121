package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	pkgfetch "github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/graph"
)

// Client implements pkgfetch.Fetcher on top of a Source: it fetches the raw
// payload, optionally validates it against the payload schema and decodes it
// into a node.
type Client struct {
	source   pkgfetch.Source
	options  pkgfetch.Options
	closer   io.Closer
	logger   *zap.Logger
	validate bool
}

var _ pkgfetch.Fetcher = (*Client)(nil)

// NewClient wraps an existing source.
func NewClient(src pkgfetch.Source, options pkgfetch.Options) (*Client, error) {
	if src == nil {
		return nil, errors.New("fetch: source is nil")
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{source: src, options: options, logger: logger, validate: options.Validate}, nil
}

// New resolves the source selected by options, wraps it in the configured
// decorators and returns a client over it.
func New(options pkgfetch.Options) (*Client, error) {
	src, closer, err := NewSource(options)
	if err != nil {
		return nil, err
	}
	client, err := NewClient(src, options)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	client.closer = closer
	return client, nil
}

// NewSource builds the decorated source selected by options. The closer is
// non-nil when the source holds resources (snapshots).
func NewSource(options pkgfetch.Options) (pkgfetch.Source, io.Closer, error) {
	var (
		src    pkgfetch.Source
		closer io.Closer
		remote bool
		err    error
	)

	switch {
	case options.Endpoint != "":
		src, err = NewHTTPSource(options.Endpoint, options.HTTPClient, options.Limit)
		remote = true
	case options.WebSocketURL != "":
		src, err = NewWebSocketSource(options.WebSocketURL, options.Timeout, options.Limit)
		remote = true
	case options.FileSystem != nil:
		src, err = NewFSSource(options.FileSystem)
	case options.SnapshotPath != "":
		var snap *Snapshot
		snap, err = OpenSnapshot(options.SnapshotPath)
		src, closer = snap, snap
	default:
		err = errors.New("fetch: no source configured")
	}
	if err != nil {
		return nil, nil, err
	}

	if remote {
		src = WithRateLimit(src, options.RateLimit, options.Burst)
		src = WithBreaker(src, options.Breaker, options.Logger)
	}
	src = WithLogging(src, options.Logger)
	return src, closer, nil
}

// Source exposes the decorated source, e.g. for mirroring.
func (c *Client) Source() pkgfetch.Source {
	return c.source
}

// Fetch returns the decoded node for id.
func (c *Client) Fetch(ctx context.Context, id string) (graph.Node, error) {
	if id == "" {
		return graph.Node{}, pkgfetch.ErrMissingID
	}
	if c.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.options.Timeout)
		defer cancel()
	}

	raw, err := c.source.FetchRaw(ctx, id)
	if err != nil {
		return graph.Node{}, err
	}
	if c.validate {
		if err := graph.Validate(raw); err != nil {
			return graph.Node{}, fmt.Errorf("fetch: %s: %w", id, err)
		}
	}
	node, err := graph.Decode(raw)
	if err != nil {
		c.logger.Warn("payload rejected", zap.String("id", id), zap.Error(err))
		return graph.Node{}, fmt.Errorf("fetch: %s: %w", id, err)
	}
	return node, nil
}

// Close releases resources held by the source.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

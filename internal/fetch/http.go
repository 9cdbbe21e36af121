package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	pkgfetch "github.com/goliatone/go-graphview/pkg/fetch"
)

const maxResponseBytes = 8 << 20

// HTTPSource posts the thing query to a GraphQL HTTP endpoint.
type HTTPSource struct {
	endpoint string
	client   *http.Client
	limit    int
}

var _ pkgfetch.Source = (*HTTPSource)(nil)

// NewHTTPSource constructs an HTTP source. A nil client uses a fresh client
// with no timeout; callers bound requests through the context.
func NewHTTPSource(endpoint string, client *http.Client, limit int) (*HTTPSource, error) {
	if endpoint == "" {
		return nil, errors.New("fetch: http endpoint is required")
	}
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSource{endpoint: endpoint, client: client, limit: limit}, nil
}

// FetchRaw returns the thing payload for id.
func (s *HTTPSource) FetchRaw(ctx context.Context, id string) ([]byte, error) {
	body, err := json.Marshal(pkgfetch.NewRequest(id, s.limit))
	if err != nil {
		return nil, fmt.Errorf("fetch: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: post %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("fetch: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// GraphQL servers may report errors with a non-2xx status and a body.
		var gqlErrs pkgfetch.GraphQLErrors
		if _, decodeErr := pkgfetch.DecodeResponse(data); errors.As(decodeErr, &gqlErrs) {
			return nil, decodeErr
		}
		return nil, fmt.Errorf("fetch: unexpected status %d from %s", resp.StatusCode, s.endpoint)
	}
	return pkgfetch.DecodeResponse(data)
}

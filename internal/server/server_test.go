package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-graphview/internal/config"
	source "github.com/goliatone/go-graphview/internal/fetch"
	"github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/graph"
	"github.com/goliatone/go-graphview/pkg/testsupport"
	"github.com/goliatone/go-graphview/pkg/viewer"
)

var errUpstream = errors.New("upstream exploded")

func fixtureFetcher(t *testing.T) fetch.Fetcher {
	t.Helper()
	names := testsupport.ThingIDs()
	return fetch.FetcherFunc(func(_ context.Context, id string) (graph.Node, error) {
		switch id {
		case "/broken":
			return graph.Node{}, errUpstream
		case "/tripped":
			return graph.Node{}, source.ErrCircuitOpen
		}
		name, ok := names[id]
		if !ok {
			return graph.Node{}, fetch.ErrNotFound
		}
		return testsupport.MustNode(t, name), nil
	})
}

func newTestServer(t *testing.T, cfg config.ServerConfig, options ...Option) *Server {
	t.Helper()
	v := viewer.New(
		viewer.WithFetcher(fixtureFetcher(t)),
		viewer.WithLinkPrefix(cfg.LinkPrefix),
	)
	return New(v, cfg, options...)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	rec := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRenderNode(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})

	rec := get(t, s.Handler(), "/relation/r1?renderer=text")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "ready", rec.Header().Get(StateHeader))
	assert.Contains(t, rec.Body.String(), "A relationship between Ada [Person] and Bob [Person].")

	rec = get(t, s.Handler(), "/person/ada")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `href="/person/bob"`)
}

func TestRenderStatusMapping(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})

	cases := []struct {
		target string
		status int
		body   string
	}{
		{"/nobody?renderer=text", http.StatusNotFound, "Error :("},
		{"/broken?renderer=text", http.StatusBadGateway, "Error :("},
		{"/tripped?renderer=text", http.StatusServiceUnavailable, "Error :("},
		{"/person/ada?renderer=pdf", http.StatusBadRequest, "unknown renderer"},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			rec := get(t, s.Handler(), tc.target)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}

	rec := get(t, s.Handler(), "/nobody?renderer=json")
	assert.Equal(t, "failed", rec.Header().Get(StateHeader))
	assert.Contains(t, rec.Body.String(), `"state": "failed"`)
}

func TestLinkPrefixAndRoot(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{LinkPrefix: "/view"}, WithStartID("/person/ada"))

	rec := get(t, s.Handler(), "/view/person/ada")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/view/person/bob"`)

	rec = get(t, s.Handler(), "/view?renderer=text")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/view/person/ada?renderer=text", rec.Header().Get("Location"))

	plain := newTestServer(t, config.ServerConfig{})
	rec = get(t, plain.Handler(), "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssets(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	rec := get(t, s.Handler(), "/assets/graphview.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "body"))
}

func TestMetricsCountRenders(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{})
	get(t, s.Handler(), "/person/ada?renderer=text")
	get(t, s.Handler(), "/nobody?renderer=text")

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `graphview_renders_total{renderer="text",state="ready"} 1`)
	assert.Contains(t, body, `graphview_renders_total{renderer="text",state="failed"} 1`)
	assert.Contains(t, body, `graphview_http_requests_total{method="GET",status="404"} 1`)
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := newTestServer(t, config.ServerConfig{}, WithLogger(zap.New(core)))

	get(t, s.Handler(), "/person/bob?renderer=json")

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/person/bob", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{AllowedOrigins: []string{"https://graph.example"}})
	req := httptest.NewRequest(http.MethodGet, "/person/ada?renderer=text", nil)
	req.Header.Set("Origin", "https://graph.example")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "https://graph.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := newTestServer(t, config.ServerConfig{ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

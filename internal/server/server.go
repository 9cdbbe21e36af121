// Package server exposes the viewer over HTTP. Every path below the link
// prefix names a node: GET /person/ada renders the node with id
// "/person/ada". The renderer, theme and variant can be picked per request
// with the query parameters of the same names.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/goliatone/go-graphview/internal/config"
	source "github.com/goliatone/go-graphview/internal/fetch"
	"github.com/goliatone/go-graphview/pkg/fetch"
	"github.com/goliatone/go-graphview/pkg/render"
	"github.com/goliatone/go-graphview/pkg/renderers/html"
	"github.com/goliatone/go-graphview/pkg/viewer"
)

// StateHeader carries the load state of the rendered page.
const StateHeader = "X-Graphview-State"

// Option customises the server.
type Option func(*Server)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics replaces the default collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithStartID redirects the root path to id.
func WithStartID(id string) Option {
	return func(s *Server) {
		s.startID = id
	}
}

// Server serves rendered pages.
type Server struct {
	viewer  *viewer.Viewer
	cfg     config.ServerConfig
	logger  *zap.Logger
	metrics *Metrics
	startID string
	router  chi.Router
}

// New builds the server and its routes.
func New(v *viewer.Viewer, cfg config.ServerConfig, options ...Option) *Server {
	s := &Server{
		viewer:  v,
		cfg:     cfg,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(s.metrics.Middleware)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{StateHeader, "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(html.AssetsFS()))))

	prefix := strings.TrimSuffix(s.cfg.LinkPrefix, "/")
	if prefix != "" {
		r.Get(prefix, s.handleRoot)
	}
	r.Get(prefix+"/", s.handleRoot)
	r.Get(prefix+"/*", s.handleNode)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if s.startID == "" {
		http.Error(w, "no node requested", http.StatusNotFound)
		return
	}
	target := render.RenderOptions{LinkPrefix: s.cfg.LinkPrefix}.Href(s.startID)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id := "/" + strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	query := r.URL.Query()

	out, err := s.viewer.Generate(r.Context(), viewer.Request{
		ID:       id,
		Renderer: query.Get("renderer"),
		Theme:    query.Get("theme"),
		Variant:  query.Get("variant"),
	})
	if err != nil && !errors.Is(err, viewer.ErrFetch) {
		s.writeError(w, id, err)
		return
	}

	s.metrics.ObserveRender(out.Renderer, out.State.String())
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set(StateHeader, out.State.String())
	w.WriteHeader(statusFor(err))
	if _, werr := w.Write(out.Body); werr != nil {
		s.logger.Debug("write response", zap.String("id", id), zap.Error(werr))
	}
}

func (s *Server) writeError(w http.ResponseWriter, id string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", zap.String("id", id), zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

// statusFor maps a Generate error onto an HTTP status. Load failures keep
// the rendered error page as their body.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, render.ErrUnknownRenderer):
		return http.StatusBadRequest
	case errors.Is(err, fetch.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fetch.ErrMissingID):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, viewer.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

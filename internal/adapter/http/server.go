package http

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dashboard"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the view source behind the page and API routes.
type Dashboard interface {
	sharedobs.ReadinessChecker
	ParseRange(start, end string) (forecast.DateRange, error)
	Recompute(ctx context.Context, r forecast.DateRange) (dashboard.Views, error)
}

// staticDirs are the asset subdirectories served under /static/. Templates
// at the asset root stay private.
var staticDirs = []string{"js", "css"}

// Server exposes the dashboard page, its JSON/SVG endpoints, and the
// health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	pages      *pages
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	assets fs.FS
	reload bool
}

// WithAssets serves templates and static files from assets instead of the
// embedded copy.
func WithAssets(assets fs.FS) Option {
	return func(o *serverOptions) { o.assets = assets }
}

// WithTemplateReload re-parses the page template on every request.
func WithTemplateReload(reload bool) Option {
	return func(o *serverOptions) { o.reload = reload }
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(addr string, dash Dashboard, logger *slog.Logger, opts ...Option) (*Server, error) {
	o := serverOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.assets == nil {
		o.assets = embeddedAssets()
	}

	p, err := newPages(o.assets, o.reload)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		pages:  p,
		logger: logger,
	}

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/api/views", s.handleViews).Methods(http.MethodGet)
	router.HandleFunc("/charts/line.svg", s.handleLineChart).Methods(http.MethodGet)
	router.HandleFunc("/charts/categories.svg", s.handleCategoryChart).Methods(http.MethodGet)
	static := http.StripPrefix("/static/", http.FileServer(http.FS(o.assets)))
	for _, dir := range staticDirs {
		router.PathPrefix("/static/" + dir + "/").Handler(static).Methods(http.MethodGet)
	}

	router.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	router.HandleFunc("/readyz", sharedobs.ReadinessHandler(dash)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return s, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeJSONError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

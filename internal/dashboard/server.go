// Package dashboard serves the interactive top-10 view over HTTP.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/KaramelBytes/mbtiscope/internal/ranking"
	"github.com/KaramelBytes/mbtiscope/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures the dashboard.
type Options struct {
	// DataFile is the default dataset; empty means the bundled sample.
	DataFile       string
	TopN           int
	Chart          render.ChartOptions
	Load           dataset.Options
	MaxUploadBytes int64
	SessionTTL     time.Duration
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		TopN:           ranking.DefaultN,
		Chart:          render.DefaultChartOptions(),
		Load:           dataset.DefaultOptions(),
		MaxUploadBytes: 50 << 20,
		SessionTTL:     time.Hour,
	}
}

// Server is the dashboard HTTP application.
type Server struct {
	opt      Options
	cache    *dataset.Cache
	sessions *sessionStore
	router   *chi.Mux
	tmpl     *template.Template
}

// New builds a dashboard. cache may be shared with other callers; nil
// creates a private one.
func New(opt Options, cache *dataset.Cache) (*Server, error) {
	if opt.TopN <= 0 {
		opt.TopN = ranking.DefaultN
	}
	if opt.MaxUploadBytes <= 0 {
		opt.MaxUploadBytes = 50 << 20
	}
	if cache == nil {
		cache = dataset.NewCache(opt.Load)
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"percent": render.FormatPercent,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{
		opt:      opt,
		cache:    cache,
		sessions: newSessionStore(opt.SessionTTL),
		router:   chi.NewRouter(),
		tmpl:     tmpl,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Post("/upload", s.handleUpload)
	s.router.Post("/reset", s.handleReset)
	s.router.Get("/chart.{format}", s.handleChart)
	s.router.Get("/api/types", s.handleTypes)
	s.router.Get("/api/top", s.handleTop)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Idle sessions are pruned in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("dashboard listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if n := s.sessions.prune(); n > 0 {
					slog.Debug("pruned idle sessions", "count", n)
				}
			}
		}
	})
	return g.Wait()
}

// datasetFor returns the session's upload or the default dataset.
func (s *Server) datasetFor(sess *session) (*dataset.Dataset, bool, error) {
	if ds := s.sessions.dataset(sess); ds != nil {
		return ds, true, nil
	}
	ds, err := s.cache.Load(s.opt.DataFile)
	return ds, false, err
}

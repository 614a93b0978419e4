package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/appengine-ltd/agrodm/internal/account"
	"github.com/appengine-ltd/agrodm/internal/logging"
)

type Server struct {
	accounts *account.Service
	sessions *Sessions
	tips     []string
	pick     func(n int) int
	router   chi.Router
}

type Options struct {
	Sessions *Sessions
	// Pick chooses a tip index in [0, n). Defaults to math/rand.
	Pick func(n int) int
}

func NewServer(accounts *account.Service, opts Options) *Server {
	s := &Server{
		accounts: accounts,
		sessions: opts.Sessions,
		tips:     farmingTips,
		pick:     opts.Pick,
	}
	if s.sessions == nil {
		s.sessions = NewSessions(DefaultSessionTTL, nil)
	}
	if s.pick == nil {
		s.pick = defaultPick
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(metricsMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", HandleHealthz())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/profile", s.handleProfile)
			r.Put("/settings", s.handleSettings)
			r.Get("/projects", s.handleListProjects)
			r.Post("/projects", s.handleCreateProject)
			r.Put("/projects/{index}", s.handleUpdateProject)
			r.Delete("/projects/{index}", s.handleDeleteProject)
			r.Get("/tips/random", s.handleRandomTip)
		})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrMsgMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrMsgNotFound)
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/healthz") || strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ctx := logging.WithRequestID(r.Context(), logging.NewRequestID())
		r = r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logging.FromContext(ctx).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

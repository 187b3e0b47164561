package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.trai.ch/baler/asset"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/zerr"
)

// Server serves an asset table over HTTP. The table is swapped atomically
// on rebuilds; a published table is never mutated, so in-flight requests
// always see a consistent build.
type Server struct {
	addr   string
	logger ports.Logger
	table  atomic.Pointer[asset.Table]
}

// New creates a Server for the initial table.
func New(addr string, initial *asset.Table, logger ports.Logger) *Server {
	s := &Server{
		addr:   addr,
		logger: logger,
	}
	s.table.Store(initial)
	return s
}

// Swap publishes a new table. Subsequent requests are served from it;
// requests already in flight finish against the previous one.
func (s *Server) Swap(t *asset.Table) {
	s.table.Store(t)
}

// Table returns the currently published table.
func (s *Server) Table() *asset.Table {
	return s.table.Load()
}

// Handler returns the HTTP handler tree: chi with request IDs, panic
// recovery and request logging around the asset handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		asset.Handler(s.table.Load()).ServeHTTP(w, req)
	}))
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("dev server listening on " + s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return zerr.Wrap(err, "failed to shut down dev server")
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return zerr.Wrap(err, "dev server failed")
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info(fmt.Sprintf("%s %s %d %dB %s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start).Round(time.Microsecond)))
	})
}

// Package metricsserver exposes a prometheus registry over HTTP.
package metricsserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"go.nposlab.org/elections/logger"
)

type Server struct {
	registry *prometheus.Registry
}

func New() *Server {
	return &Server{
		registry: prometheus.NewRegistry(),
	}
}

// Registry is the registerer collectors should attach to.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Server) Handler() http.Handler {
	log := logger.NewStdLog("prom http", nil)

	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog:          log,
		Registry:          s.registry,
		EnableOpenMetrics: true,
	})
}

// ListenAndServe serves /metrics on the given port until ctx is
// canceled, then shuts the listener down cleanly.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	log := logger.FromContext(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  240 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Package httpapi exposes the user account and token operations over
// HTTP+JSON. It is a thin layer: every authentication decision is delegated
// to the user service.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mkalinin/userkeeper/internal/logging"
)

type HTTPServer struct {
	address string
	logger  logging.Logger
	handler http.Handler
}

func NewHTTPServer(a string, l logging.Logger, us UserService) *HTTPServer {
	logger := l.With("module", "http_server")
	h := NewHandler(us, logger)
	return &HTTPServer{
		address: a,
		logger:  logger,
		handler: NewServeMux(h, logger),
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.handler,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

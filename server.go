package routing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Server builds an http.Server for handler from the router config. A nil
// handler serves the router itself.
func (r *Router) Server(handler http.Handler) *http.Server {
	if handler == nil {
		handler = r
	}
	return &http.Server{
		Addr:              r.config.Address,
		Handler:           handler,
		ReadTimeout:       r.config.ReadTimeout,
		WriteTimeout:      r.config.WriteTimeout,
		IdleTimeout:       r.config.IdleTimeout,
		ReadHeaderTimeout: r.config.ReadHeaderTimeout,
		MaxHeaderBytes:    r.config.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(r.logger.Handler(), slog.LevelError),
	}
}

// Run serves handler and shuts down gracefully when ctx is canceled.
func (r *Router) Run(ctx context.Context, handler http.Handler) error {
	server := r.Server(handler)
	errCh := make(chan error, 1)

	go func() {
		r.logger.Info("server starting", slog.String("address", server.Addr), slog.Int("routes", len(r.list)))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		r.logger.Info("server stopped")
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// RunWithSignals runs until SIGINT or SIGTERM.
func (r *Router) RunWithSignals(ctx context.Context, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Run(ctx, handler)
}

package serviceutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"
)

// Returns a context that will live until Ctrl+C is pressed or SIGTERM is received.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

// StartHttpServer listens on all interfaces and serves until ctx is done.
func StartHttpServer(ctx context.Context, port int, handler http.Handler, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	slog.Info("listening to http...", "port", port)
	return Serve(ctx, ln, handler, shutdownTimeout)
}

// Serve runs an h2c capable server on `ln`. Once ctx is done it stops
// accepting connections and waits up to `shutdownTimeout` for in-flight
// requests, after that the remaining connections are closed forcefully and
// the returned error says so.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts end with ctx so long lived event streams let go
		// of their connection when shutdown starts.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down http server", "timeout", shutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			srv.Close()
			return fmt.Errorf("forced shutdown after %s: %w", shutdownTimeout, err)
		}
		return nil
	})

	return g.Wait()
}

// WriteJSON writes `body` with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to write json response", "err", err)
	}
}

// Recover turns a panicking handler into a JSON 500 response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}
			slog.ErrorContext(
				r.Context(), "handler panicked",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", recovered,
				"stack", string(debug.Stack()),
			)
			WriteJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "Internal server error",
			})
		}()
		next.ServeHTTP(w, r)
	})
}

// Chain applies middleware so that the first one listed is the outermost.
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

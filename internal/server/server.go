package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const _defaultShutdownTimeout = 10 * time.Second

type HTTPServer struct {
	s               *http.Server
	shutdownTimeout time.Duration
}

// NewHTTPServer serves handler on port. Requests inherit ctx, so long-lived
// streams end when ctx is cancelled.
func NewHTTPServer(ctx context.Context, port string, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		s: &http.Server{
			Handler:           handler,
			Addr:              ":" + port,
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext: func(listener net.Listener) context.Context {
				return ctx
			},
		},
		shutdownTimeout: _defaultShutdownTimeout,
	}
}

func (s *HTTPServer) WithShutdownTimeout(d time.Duration) *HTTPServer {
	if d > 0 {
		s.shutdownTimeout = d
	}
	return s
}

func (s *HTTPServer) Start() error {
	return s.s.ListenAndServe()
}

func (s *HTTPServer) Serve(l net.Listener) error {
	return s.s.Serve(l)
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.s.Shutdown(ctx)
}

func (s *HTTPServer) Run(ctx context.Context) error {
	return s.run(ctx, s.Start)
}

// RunListener is Run on an already bound listener.
func (s *HTTPServer) RunListener(ctx context.Context, l net.Listener) error {
	return s.run(ctx, func() error { return s.Serve(l) })
}

func (s *HTTPServer) run(ctx context.Context, serve func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- serve()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ErrShutdownTimeout is returned by Run when connections did not drain in time.
var ErrShutdownTimeout = errors.New("openframe: shutdown timed out")

// Serve accepts connections on ln until ctx ends, running each on its own
// goroutine and frame. It closes ln and returns after every connection
// finished.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	// In-flight requests finish even when ctx ends.
	connCtx := context.WithoutCancel(ctx)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				a.logger.WarnContext(ctx, "accept failed", slog.Any("error", err))
				time.Sleep(10 * time.Millisecond)
				continue
			}
			return err
		}

		wg.Go(func() {
			a.serveConn(connCtx, conn)
		})
	}
}

func (a *App) serveConn(ctx context.Context, conn net.Conn) {
	f, err := a.Start(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "frame start failed", slog.Any("error", err))
		_ = conn.Close()
		return
	}
	defer f.Terminate()

	if a.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(a.readTimeout))
	}
	raw, err := readRequest(conn, a.maxRequestBytes)
	if err != nil && len(raw) == 0 {
		a.logger.DebugContext(ctx, "connection read failed",
			slog.String("remote", conn.RemoteAddr().String()),
			slog.Any("error", err),
		)
		_ = conn.Close()
		return
	}
	if len(raw) == 0 {
		_ = conn.Close()
		return
	}

	_ = a.Handle(ctx, f, conn, raw)
}

// Run listens on addr and serves until SIGINT, SIGTERM or the base context
// ends, then drains connections, runs shutdown hooks and closes the
// coordinator when it implements io.Closer.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if addr == "" {
		addr = ":8080"
	}

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range cfg.startupHooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		errCh <- a.Serve(serveCtx, ln)
	}()

	served := false
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		served = true
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	stopServe()

	var errs []error
	if !served {
		select {
		case err := <-errCh:
			if err != nil {
				errs = append(errs, err)
			}
		case <-shutdownCtx.Done():
			errs = append(errs, ErrShutdownTimeout)
		}
	}

	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			a.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if c, ok := a.coordinator.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		a.logger.Error("shutdown completed with errors", slog.Any("error", errors.Join(errs...)))
		return errors.Join(errs...)
	}

	a.logger.Info("shutdown completed")
	return nil
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package server accepts TCP connections and hands each one to a connection handler.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/z5labs/ziphttpd/pkg/noop"
	"github.com/z5labs/ziphttpd/pkg/slogfield"

	"golang.org/x/sync/errgroup"
)

// ConnHandler serves a single accepted connection. It is responsible
// for closing the connection.
type ConnHandler interface {
	Handle(context.Context, net.Conn)
}

// ConnHandlerFunc is a func variant of the [ConnHandler] interface.
type ConnHandlerFunc func(context.Context, net.Conn)

// Handle implements the [ConnHandler] interface.
func (f ConnHandlerFunc) Handle(ctx context.Context, conn net.Conn) {
	f(ctx, conn)
}

type runtimeOptions struct {
	addr    string
	backlog int
	workers int
	log     *slog.Logger
}

// RuntimeOption configures a [Runtime].
type RuntimeOption func(*runtimeOptions)

// ListenOn sets the address the Runtime binds to.
//
// Default address is 0.0.0.0:8080.
func ListenOn(addr string) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.addr = addr
	}
}

// Backlog sets the pending connection queue length passed to listen(2).
//
// Default is 10.
func Backlog(n int) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.backlog = n
	}
}

// Workers sets how many connections may be handled at once. Any
// value below 2 handles connections one at a time, fully finishing
// each before the next accept.
//
// Default is 1.
func Workers(n int) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.workers = n
	}
}

// LogHandler sets the handler for listener level records.
func LogHandler(h slog.Handler) RuntimeOption {
	return func(ro *runtimeOptions) {
		ro.log = slog.New(h)
	}
}

// Runtime is the accept loop.
type Runtime struct {
	addr    string
	backlog int
	workers int
	listen  func(addr string, backlog int) (net.Listener, error)

	h   ConnHandler
	log *slog.Logger
}

// NewRuntime returns a Runtime which passes connections to h.
func NewRuntime(h ConnHandler, opts ...RuntimeOption) *Runtime {
	ro := &runtimeOptions{
		addr:    "0.0.0.0:8080",
		backlog: 10,
		workers: 1,
		log:     noop.Logger(),
	}
	for _, opt := range opts {
		opt(ro)
	}

	return &Runtime{
		addr:    ro.addr,
		backlog: ro.backlog,
		workers: ro.workers,
		listen:  listenTCP,
		h:       h,
		log:     ro.log,
	}
}

// ListenError is returned by [Runtime.Run] when the listening socket
// cannot be set up.
type ListenError struct {
	Addr  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ListenError) Error() string {
	return fmt.Sprintf("failed to listen on %s: %s", e.Addr, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ListenError) Unwrap() error {
	return e.Cause
}

// AcceptError is returned by [Runtime.Run] when accepting fails for
// any reason other than shutdown.
type AcceptError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e AcceptError) Error() string {
	return fmt.Sprintf("failed to accept connection: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e AcceptError) Unwrap() error {
	return e.Cause
}

// Run binds the listening socket and accepts connections until ctx is
// cancelled, in which case nil is returned once in-flight connections
// are done. Any listener failure closes the listener and is returned.
func (rt *Runtime) Run(ctx context.Context) error {
	ls, err := rt.listen(rt.addr, rt.backlog)
	if err != nil {
		rt.log.ErrorContext(ctx, "failed to listen for connections", slogfield.String("addr", rt.addr), slogfield.Error(err))
		return ListenError{Addr: rt.addr, Cause: err}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()

		rt.log.InfoContext(ctx, "shutting down server")
		return ls.Close()
	})
	g.Go(func() error {
		rt.log.InfoContext(
			ctx,
			"server listening",
			slogfield.String("addr", ls.Addr().String()),
			slogfield.Int("backlog", rt.backlog),
			slogfield.Int("workers", rt.workers),
		)
		return rt.serve(gctx, ls)
	})

	err = g.Wait()
	if err == nil {
		rt.log.InfoContext(ctx, "server shut down")
		return nil
	}
	rt.log.ErrorContext(ctx, "server encountered unexpected error", slogfield.Error(err))
	return err
}

func (rt *Runtime) serve(ctx context.Context, ls net.Listener) error {
	pool := new(errgroup.Group)
	if rt.workers > 1 {
		pool.SetLimit(rt.workers)
	}
	defer pool.Wait()

	for {
		conn, err := ls.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return AcceptError{Cause: err}
		}
		rt.log.InfoContext(ctx, "accepted connection", slogfield.RemoteAddr(conn.RemoteAddr()))

		if rt.workers <= 1 {
			rt.h.Handle(ctx, conn)
			continue
		}
		pool.Go(func() error {
			rt.h.Handle(ctx, conn)
			return nil
		})
	}
}

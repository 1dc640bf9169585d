// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/z5labs/ziphttpd/httpwire"
	"github.com/z5labs/ziphttpd/internal/try"
	"github.com/z5labs/ziphttpd/pkg/noop"
	"github.com/z5labs/ziphttpd/pkg/slogfield"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Router builds the response for a request target.
type Router interface {
	Serve(ctx context.Context, target string) *httpwire.Response
}

type handlerOptions struct {
	log          *slog.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
	bufferSize   int
}

// HandlerOption configures a [Handler].
type HandlerOption func(*handlerOptions)

// Logger sets the logger used for per connection records.
func Logger(log *slog.Logger) HandlerOption {
	return func(ho *handlerOptions) {
		ho.log = log
	}
}

// ReadTimeout bounds the single read of the request. Zero disables the deadline.
//
// Default is 2 seconds.
func ReadTimeout(d time.Duration) HandlerOption {
	return func(ho *handlerOptions) {
		ho.readTimeout = d
	}
}

// WriteTimeout bounds writing the response. Zero disables the deadline.
//
// Default is 2 seconds.
func WriteTimeout(d time.Duration) HandlerOption {
	return func(ho *handlerOptions) {
		ho.writeTimeout = d
	}
}

// BufferSize is the maximum number of request bytes read. Anything
// beyond it is never looked at.
//
// Default is 1024.
func BufferSize(n int) HandlerOption {
	return func(ho *handlerOptions) {
		ho.bufferSize = n
	}
}

// Handler owns a single accepted connection from the first read until close.
type Handler struct {
	router Router
	log    *slog.Logger
	tracer trace.Tracer

	readTimeout  time.Duration
	writeTimeout time.Duration
	bufferSize   int
}

// NewHandler returns a Handler which answers requests with router.
func NewHandler(router Router, opts ...HandlerOption) *Handler {
	ho := &handlerOptions{
		log:          noop.Logger(),
		readTimeout:  2 * time.Second,
		writeTimeout: 2 * time.Second,
		bufferSize:   1024,
	}
	for _, opt := range opts {
		opt(ho)
	}
	if ho.bufferSize <= 0 {
		ho.bufferSize = 1024
	}

	return &Handler{
		router:       router,
		log:          ho.log,
		tracer:       otel.Tracer("github.com/z5labs/ziphttpd/server"),
		readTimeout:  ho.readTimeout,
		writeTimeout: ho.writeTimeout,
		bufferSize:   ho.bufferSize,
	}
}

// ReadError wraps a failure to read the request off the connection.
type ReadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ReadError) Error() string {
	return fmt.Sprintf("failed to read request: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ReadError) Unwrap() error {
	return e.Cause
}

// WriteError wraps a failure to write the response to the connection.
type WriteError struct {
	Status int
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e WriteError) Error() string {
	return fmt.Sprintf("failed to write %d response: %s", e.Status, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e WriteError) Unwrap() error {
	return e.Cause
}

// Handle reads one request from conn, answers it and closes conn.
// Failures, including panics, are logged and never escape.
func (h *Handler) Handle(ctx context.Context, conn net.Conn) {
	spanCtx, span := h.tracer.Start(
		ctx,
		"ziphttpd.conn",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("net.peer.addr", remoteAddr(conn))),
	)
	defer span.End()
	defer h.close(spanCtx, conn)

	err := h.handle(spanCtx, span, conn)
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	h.log.ErrorContext(
		spanCtx,
		"failed to handle connection",
		slogfield.RemoteAddr(conn.RemoteAddr()),
		slogfield.Error(err),
	)
}

func (h *Handler) handle(ctx context.Context, span trace.Span, conn net.Conn) (err error) {
	defer try.Recover(&err)

	if h.readTimeout > 0 {
		err = conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		if err != nil {
			return ReadError{Cause: err}
		}
	}

	buf := make([]byte, h.bufferSize)
	n, err := conn.Read(buf)
	if n == 0 {
		return h.emptyRead(ctx, conn, err)
	}

	req, err := httpwire.ParseRequest(buf[:n])
	if err != nil {
		h.log.WarnContext(ctx, "received invalid request", slogfield.RemoteAddr(conn.RemoteAddr()), slogfield.Error(err))
		return h.respond(ctx, span, conn, httpwire.NewResponse(http.StatusBadRequest).Empty())
	}

	span.SetAttributes(attribute.String("http.target", req.Target))
	h.log.InfoContext(ctx, "received request", slogfield.RemoteAddr(conn.RemoteAddr()), slogfield.Target(req.Target))

	resp := h.router.Serve(ctx, req.Target)
	return h.respond(ctx, span, conn, resp)
}

func (h *Handler) emptyRead(ctx context.Context, conn net.Conn, err error) error {
	var nerr net.Error
	switch {
	case err == nil || errors.Is(err, io.EOF):
		h.log.InfoContext(ctx, "client sent no data", slogfield.RemoteAddr(conn.RemoteAddr()))
		return nil
	case errors.As(err, &nerr) && nerr.Timeout():
		h.log.WarnContext(
			ctx,
			"timed out reading request",
			slogfield.RemoteAddr(conn.RemoteAddr()),
			slogfield.Duration("timeout", h.readTimeout),
		)
		return nil
	default:
		return ReadError{Cause: err}
	}
}

func (h *Handler) respond(ctx context.Context, span trace.Span, conn net.Conn, resp *httpwire.Response) error {
	span.SetAttributes(attribute.Int("http.status_code", resp.Status))

	if h.writeTimeout > 0 {
		err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err != nil {
			return WriteError{Status: resp.Status, Cause: err}
		}
	}

	_, err := resp.WriteTo(conn)
	if err != nil {
		return WriteError{Status: resp.Status, Cause: err}
	}
	h.log.InfoContext(ctx, "sent response", slogfield.RemoteAddr(conn.RemoteAddr()), slogfield.Status(resp.Status))
	return nil
}

func (h *Handler) close(ctx context.Context, conn net.Conn) {
	err := conn.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		h.log.WarnContext(ctx, "failed to close connection", slogfield.RemoteAddr(conn.RemoteAddr()), slogfield.Error(err))
		return
	}
	h.log.InfoContext(ctx, "closed connection", slogfield.RemoteAddr(conn.RemoteAddr()))
}

func remoteAddr(conn net.Conn) string {
	addr := conn.RemoteAddr()
	if addr == nil {
		return ""
	}
	return addr.String()
}

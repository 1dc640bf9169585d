// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otelslog provides a OpenTelemetry aware slog.Handler implementation.
package otelslog

import (
	"context"
	"log/slog"

	"github.com/z5labs/ziphttpd/pkg/slogfield"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Handler is an slog.Handler which correlates log records with the
// span active in the record's context. The trace and span ids are added
// under an "otel" group and records at or above the event level are also
// attached to the span as events.
type Handler struct {
	slog       slog.Handler
	eventLevel slog.Level
}

// HandlerOption configures a [Handler].
type HandlerOption func(*Handler)

// EventLevel sets the minimum level at which records are recorded as span events.
// The default is slog.LevelWarn.
func EventLevel(lvl slog.Level) HandlerOption {
	return func(h *Handler) {
		h.eventLevel = lvl
	}
}

// NewHandler wraps h.
func NewHandler(h slog.Handler, opts ...HandlerOption) *Handler {
	oh := &Handler{
		slog:       h,
		eventLevel: slog.LevelWarn,
	}
	for _, opt := range opts {
		opt(oh)
	}
	return oh
}

// New provides a simple wrapper for slog.New(NewHandler(h)).
func New(h slog.Handler, opts ...HandlerOption) *slog.Logger {
	return slog.New(NewHandler(h, opts...))
}

// Enabled implements the slog.Handler interface.
func (h *Handler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return h.slog.Handle(ctx, record)
	}

	if record.Level >= h.eventLevel && span.IsRecording() {
		span.AddEvent(record.Message, trace.WithAttributes(
			attribute.String("log.severity", record.Level.String()),
		))
	}

	r := record.Clone()
	r.AddAttrs(
		slog.Group(
			"otel",
			slogfield.String("trace_id", spanCtx.TraceID().String()),
			slogfield.String("span_id", spanCtx.SpanID().String()),
		),
	)
	return h.slog.Handle(ctx, r)
}

// WithAttrs implements the slog.Handler interface.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		slog:       h.slog.WithAttrs(attrs),
		eventLevel: h.eventLevel,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		slog:       h.slog.WithGroup(name),
		eventLevel: h.eventLevel,
	}
}

// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otelslog

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type otelRecord struct {
	Message string `json:"msg"`
	OTel    struct {
		TraceID string `json:"trace_id"`
		SpanID  string `json:"span_id"`
	} `json:"otel"`
}

func TestHandler_Handle(t *testing.T) {
	t.Run("will not add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is invalid", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			log.InfoContext(ctx, "accepted connection")

			var record otelRecord
			err := json.Unmarshal(buf.Bytes(), &record)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "accepted connection", record.Message) {
				return
			}
			if !assert.Empty(t, record.OTel.TraceID) {
				return
			}
			if !assert.Empty(t, record.OTel.SpanID) {
				return
			}
		})
	})

	t.Run("will add trace id and span id", func(t *testing.T) {
		t.Run("if the span context is valid", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

			tp := sdktrace.NewTracerProvider()
			defer tp.Shutdown(context.Background())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			spanCtx, span := tp.Tracer("otelslog").Start(ctx, "test")
			defer span.End()
			if !assert.True(t, span.SpanContext().IsValid()) {
				return
			}

			log.InfoContext(spanCtx, "accepted connection")

			var record otelRecord
			err := json.Unmarshal(buf.Bytes(), &record)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "accepted connection", record.Message) {
				return
			}
			if !assert.Equal(t, span.SpanContext().TraceID().String(), record.OTel.TraceID) {
				t.Log(buf.String())
				return
			}
			if !assert.Equal(t, span.SpanContext().SpanID().String(), record.OTel.SpanID) {
				t.Log(buf.String())
				return
			}
		})
	})

	t.Run("will record a span event", func(t *testing.T) {
		t.Run("if the record level is at least the event level", func(t *testing.T) {
			var buf bytes.Buffer
			log := New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}))

			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
			defer tp.Shutdown(context.Background())

			spanCtx, span := tp.Tracer("otelslog").Start(context.Background(), "test")
			log.InfoContext(spanCtx, "accepted connection")
			log.WarnContext(spanCtx, "timed out reading request")
			span.End()

			spans := sr.Ended()
			if !assert.Len(t, spans, 1) {
				return
			}
			events := spans[0].Events()
			if !assert.Len(t, events, 1) {
				return
			}
			if !assert.Equal(t, "timed out reading request", events[0].Name) {
				return
			}
		})
	})

	t.Run("will keep the event level", func(t *testing.T) {
		t.Run("if attributes or groups are added", func(t *testing.T) {
			var buf bytes.Buffer
			var h slog.Handler = NewHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{}), EventLevel(slog.LevelInfo))
			h = h.WithAttrs([]slog.Attr{slog.String("a", "b")}).WithGroup("n")

			sr := tracetest.NewSpanRecorder()
			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
			defer tp.Shutdown(context.Background())

			spanCtx, span := tp.Tracer("otelslog").Start(context.Background(), "test")
			slog.New(h).InfoContext(spanCtx, "served file")
			span.End()

			spans := sr.Ended()
			if !assert.Len(t, spans, 1) {
				return
			}
			if !assert.Len(t, spans[0].Events(), 1) {
				return
			}
		})
	})
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/z5labs/ziphttpd/pkg/otelslog"
)

// UnknownLogFormatError is returned for any format other than text or json.
type UnknownLogFormatError struct {
	Format string
}

// Error implements the [builtin.error] interface.
func (e UnknownLogFormatError) Error() string {
	return fmt.Sprintf("unknown log format: %q", e.Format)
}

// logHandler returns the handler described by cfg along with the file
// it writes to, if any. The caller owns closing the file.
func (cfg LoggingConfig) logHandler() (slog.Handler, io.Closer, error) {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closer = f
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		if closer != nil {
			closer.Close()
		}
		return nil, nil, UnknownLogFormatError{Format: cfg.Format}
	}
	return otelslog.NewHandler(h), closer, nil
}

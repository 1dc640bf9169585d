// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides the slog attributes used across the server's logs.
package slogfield

import (
	"log/slog"
	"net"
	"time"
)

// Any returns an slog.Attr for the supplied value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Error returns an slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// RemoteAddr identifies the peer of a connection.
func RemoteAddr(addr net.Addr) slog.Attr {
	if addr == nil {
		return slog.String("remote_addr", "")
	}
	return slog.String("remote_addr", addr.String())
}

// Target is the raw request target as it appeared on the request line.
func Target(target string) slog.Attr {
	return slog.String("target", target)
}

// Status is the HTTP status code written to the client.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Entry names a file inside the served archive.
func Entry(name string) slog.Attr {
	return slog.String("entry", name)
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpwire reads HTTP/1.1 request lines off the wire and writes
// complete HTTP/1.1 responses back.
package httpwire

import (
	"errors"
	"strings"
	"unicode"
)

// ErrMalformedRequest is returned for any request which is not a
// well-formed GET request line.
var ErrMalformedRequest = errors.New("malformed request")

// Request is the parsed request line.
type Request struct {
	Method  string
	Target  string
	Version string
}

// ParseRequest validates the first line of b and extracts the request target.
//
// Bytes which are not valid UTF-8 are dropped before parsing. The target is
// returned exactly as it appeared on the wire, no percent-decoding is applied.
func ParseRequest(b []byte) (Request, error) {
	s := strings.ToValidUTF8(string(b), "")
	if len(s) == 0 {
		return Request{}, ErrMalformedRequest
	}

	fields := strings.FieldsFunc(firstLine(s), isSpace)
	if len(fields) != 3 {
		return Request{}, ErrMalformedRequest
	}

	req := Request{
		Method:  fields[0],
		Target:  fields[1],
		Version: fields[2],
	}
	if req.Method != "GET" {
		return Request{}, ErrMalformedRequest
	}
	if !strings.HasPrefix(req.Version, "HTTP/") {
		return Request{}, ErrMalformedRequest
	}
	return req, nil
}

func firstLine(s string) string {
	i := strings.IndexFunc(s, isLineBoundary)
	if i < 0 {
		return s
	}
	return s[:i]
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	default:
		return false
	}
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || ('\x1c' <= r && r <= '\x1f')
}

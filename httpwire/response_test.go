// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpwire

import (
	"bytes"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type writeFunc func([]byte) (int, error)

func (f writeFunc) Write(b []byte) (int, error) {
	return f(b)
}

func TestResponse_WriteTo(t *testing.T) {
	t.Run("will write the status line, headers and body", func(t *testing.T) {
		t.Run("if the response has a body", func(t *testing.T) {
			resp := NewResponse(http.StatusOK).WithBody("text/plain", []byte("The area is: 12"))

			var buf bytes.Buffer
			n, err := resp.WriteTo(&buf)
			if !assert.Nil(t, err) {
				return
			}

			expected := "HTTP/1.1 200 OK\r\n" +
				"Content-Type: text/plain\r\n" +
				"Content-Length: 15\r\n" +
				"\r\n" +
				"The area is: 12"
			if !assert.Equal(t, expected, buf.String()) {
				return
			}
			if !assert.Equal(t, int64(len(expected)), n) {
				return
			}
		})

		t.Run("if the response is empty", func(t *testing.T) {
			resp := NewResponse(http.StatusNotFound).Empty()

			var buf bytes.Buffer
			_, err := resp.WriteTo(&buf)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n", buf.String()) {
				return
			}
		})
	})

	t.Run("will preserve header insertion order", func(t *testing.T) {
		resp := NewResponse(http.StatusFound).
			AddHeader("Location", "/index.html").
			Empty()

		var buf bytes.Buffer
		_, err := resp.WriteTo(&buf)
		if !assert.Nil(t, err) {
			return
		}
		expected := "HTTP/1.1 302 Found\r\nLocation: /index.html\r\nContent-Length: 0\r\n\r\n"
		if !assert.Equal(t, expected, buf.String()) {
			return
		}

		loc, ok := resp.HeaderValue("Location")
		if !assert.True(t, ok) {
			return
		}
		if !assert.Equal(t, "/index.html", loc) {
			return
		}
	})

	t.Run("will write binary bodies verbatim", func(t *testing.T) {
		body := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
		resp := NewResponse(http.StatusOK).WithBody("image/png", body)

		var buf bytes.Buffer
		_, err := resp.WriteTo(&buf)
		if !assert.Nil(t, err) {
			return
		}
		if !assert.True(t, bytes.HasSuffix(buf.Bytes(), append([]byte("\r\n\r\n"), body...))) {
			return
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the underlying writer fails", func(t *testing.T) {
			writeErr := errors.New("broken pipe")
			w := writeFunc(func(b []byte) (int, error) {
				return 0, writeErr
			})

			resp := NewResponse(http.StatusForbidden).Empty()
			n, err := resp.WriteTo(w)
			if !assert.ErrorIs(t, err, writeErr) {
				return
			}
			if !assert.Equal(t, int64(0), n) {
				return
			}
		})
	})
}

func TestResponse_HeaderValue(t *testing.T) {
	resp := NewResponse(http.StatusOK)

	_, ok := resp.HeaderValue("Content-Type")
	if !assert.False(t, ok) {
		return
	}
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpwire

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Field is a single response header.
type Field struct {
	Name  string
	Value string
}

// Response is a complete HTTP/1.1 response. Headers are written in the
// order they were added.
type Response struct {
	Status int
	Header []Field
	Body   []byte
}

// NewResponse returns a Response with the given status and no headers.
func NewResponse(status int) *Response {
	return &Response{Status: status}
}

// AddHeader appends a header field.
func (r *Response) AddHeader(name, value string) *Response {
	r.Header = append(r.Header, Field{Name: name, Value: value})
	return r
}

// HeaderValue returns the value of the first header called name.
func (r *Response) HeaderValue(name string) (string, bool) {
	for _, f := range r.Header {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// WithBody sets the body along with its Content-Type and Content-Length headers.
// An empty contentType leaves the Content-Type header out.
func (r *Response) WithBody(contentType string, body []byte) *Response {
	if contentType != "" {
		r.AddHeader("Content-Type", contentType)
	}
	r.AddHeader("Content-Length", strconv.Itoa(len(body)))
	r.Body = body
	return r
}

// Empty marks the response as carrying no body.
func (r *Response) Empty() *Response {
	return r.WithBody("", nil)
}

// Reason returns the reason phrase for the status code.
func (r *Response) Reason() string {
	return http.StatusText(r.Status)
}

// WriteTo implements the [io.WriterTo] interface. The whole response is
// flushed to w before WriteTo returns.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", r.Status, r.Reason())
	for _, f := range r.Header {
		fmt.Fprintf(bw, "%s: %s\r\n", f.Name, f.Value)
	}
	bw.WriteString("\r\n")
	bw.Write(r.Body)

	err := bw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.n += int64(n)
	return n, err
}

// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/z5labs/ziphttpd/internal/try"

	"github.com/stretchr/testify/assert"
)

type readFunc func([]byte) (int, error)

func (f readFunc) Read(b []byte) (int, error) {
	return f(b)
}

type readCloser struct {
	io.Reader
	close func() error
}

func (rc readCloser) Close() error {
	return rc.close()
}

func TestYaml_Apply(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the underlying io.Reader fails", func(t *testing.T) {
			readErr := errors.New("failed to read")
			src := FromYaml(readFunc(func(b []byte) (int, error) {
				return 0, readErr
			}))

			err := src.Apply(make(Map))
			if !assert.ErrorIs(t, err, readErr) {
				return
			}
		})

		t.Run("if the underlying io.Reader contains invalid yaml", func(t *testing.T) {
			src := FromYaml(strings.NewReader("hello: [world"))

			err := src.Apply(make(Map))

			var yerr InvalidYamlError
			if !assert.ErrorAs(t, err, &yerr) {
				return
			}
			if !assert.NotEmpty(t, yerr.Error()) {
				return
			}
		})

		t.Run("if the underlying io.ReadCloser fails to close", func(t *testing.T) {
			closeErr := errors.New("failed to close")
			src := FromYaml(readCloser{
				Reader: strings.NewReader("hello: world"),
				close: func() error {
					return closeErr
				},
			})

			err := src.Apply(make(Map))

			var cerr try.CloseError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.ErrorIs(t, err, closeErr) {
				return
			}
		})
	})

	t.Run("will close the underlying io.Reader", func(t *testing.T) {
		t.Run("if it implements io.Closer", func(t *testing.T) {
			closed := false
			src := FromYaml(readCloser{
				Reader: strings.NewReader("hello: world"),
				close: func() error {
					closed = true
					return nil
				},
			})

			err := src.Apply(make(Map))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, closed) {
				return
			}
		})
	})
}

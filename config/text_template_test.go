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

	"github.com/stretchr/testify/assert"
)

func TestTextTemplateRenderer_Read(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the underlying io.Reader fails", func(t *testing.T) {
			readErr := errors.New("failed to read")
			r := readFunc(func(b []byte) (int, error) {
				return 0, readErr
			})

			ttr := RenderTextTemplate(r)
			_, err := io.ReadAll(ttr)
			if !assert.ErrorIs(t, err, readErr) {
				return
			}
		})

		t.Run("if the underlying io.Reader contains an invalid text/template", func(t *testing.T) {
			r := strings.NewReader(`{{ hello`)

			ttr := RenderTextTemplate(r)
			_, err := io.ReadAll(ttr)

			var ierr TextTemplateParseError
			if !assert.ErrorAs(t, err, &ierr) {
				return
			}
			if !assert.NotEmpty(t, ierr.Error()) {
				return
			}
			if !assert.Error(t, ierr.Unwrap()) {
				return
			}
		})

		t.Run("if the parsed text/template fails to execute", func(t *testing.T) {
			r := strings.NewReader(`{{ hello }}`)

			ttr := RenderTextTemplate(
				r,
				TemplateFunc("hello", func() (string, error) {
					return "", errors.New("ahhhh")
				}),
			)
			_, err := io.ReadAll(ttr)

			var ierr TextTemplateExecError
			if !assert.ErrorAs(t, err, &ierr) {
				return
			}
			if !assert.NotEmpty(t, ierr.Error()) {
				return
			}
		})
	})

	t.Run("will render the template", func(t *testing.T) {
		t.Run("if custom funcs and delims are provided", func(t *testing.T) {
			r := strings.NewReader(`addr: <% addr %>`)

			ttr := RenderTextTemplate(
				r,
				TemplateDelims("<%", "%>"),
				TemplateFunc("addr", func() string {
					return "0.0.0.0:8080"
				}),
			)
			b, err := io.ReadAll(ttr)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "addr: 0.0.0.0:8080", string(b)) {
				return
			}
		})

		t.Run("so it can be used as a yaml source", func(t *testing.T) {
			r := strings.NewReader(`backlog: {{ backlog }}`)

			src := FromYaml(RenderTextTemplate(
				r,
				TemplateFunc("backlog", func() int { return 10 }),
			))

			m, err := Read(src)
			if !assert.Nil(t, err) {
				return
			}

			var cfg struct {
				Backlog int `config:"backlog"`
			}
			err = m.Unmarshal(&cfg)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 10, cfg.Backlog) {
				return
			}
		})
	})
}

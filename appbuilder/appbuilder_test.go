// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appbuilder

import (
	"context"
	"errors"
	"testing"

	"github.com/z5labs/ziphttpd"
	"github.com/z5labs/ziphttpd/internal/try"

	"github.com/stretchr/testify/assert"
)

func TestRecover(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the underlying AppBuilder returns an error", func(t *testing.T) {
			buildErr := errors.New("failed to build")
			builder := Recover(ziphttpd.AppBuilderFunc[struct{}](func(ctx context.Context, cfg struct{}) (ziphttpd.App, error) {
				return nil, buildErr
			}))

			_, err := builder.Build(context.Background(), struct{}{})
			if !assert.Equal(t, buildErr, err) {
				return
			}
		})

		t.Run("if the underlying AppBuilder panics with an error value", func(t *testing.T) {
			buildErr := errors.New("failed to build")
			builder := Recover(ziphttpd.AppBuilderFunc[struct{}](func(ctx context.Context, cfg struct{}) (ziphttpd.App, error) {
				panic(buildErr)
			}))

			_, err := builder.Build(context.Background(), struct{}{})
			if !assert.ErrorIs(t, err, buildErr) {
				return
			}
		})

		t.Run("if the underlying AppBuilder panics with a non-error value", func(t *testing.T) {
			builder := Recover(ziphttpd.AppBuilderFunc[struct{}](func(ctx context.Context, cfg struct{}) (ziphttpd.App, error) {
				panic("hello world")
			}))

			_, err := builder.Build(context.Background(), struct{}{})

			var perr try.PanicError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.Equal(t, "hello world", perr.Value) {
				return
			}
		})
	})
}

// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package appbuilder provides middleware for [ziphttpd.AppBuilder]s.
package appbuilder

import (
	"context"

	"github.com/z5labs/ziphttpd"
	"github.com/z5labs/ziphttpd/internal/try"
)

// Recover will wrap the given [ziphttpd.AppBuilder] with panic recovery.
func Recover[T any](builder ziphttpd.AppBuilder[T]) ziphttpd.AppBuilder[T] {
	return ziphttpd.AppBuilderFunc[T](func(ctx context.Context, cfg T) (_ ziphttpd.App, err error) {
		defer try.Recover(&err)

		return builder.Build(ctx, cfg)
	})
}

// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appbuilder

import (
	"context"
	"errors"

	"github.com/z5labs/ziphttpd"
	"github.com/z5labs/ziphttpd/app"

	"go.opentelemetry.io/otel"
)

// OTelInitializer represents anything which can initialize the OTel SDK.
type OTelInitializer interface {
	InitializeOTel(context.Context) error
}

// OTel is a [ziphttpd.AppBuilder] middleware which initializes the OTel SDK.
// It also ensures that the OTel SDK is properly shutdown when the built [ziphttpd.App]
// stops running.
func OTel[T OTelInitializer](builder ziphttpd.AppBuilder[T]) ziphttpd.AppBuilder[T] {
	return ziphttpd.AppBuilderFunc[T](func(ctx context.Context, cfg T) (ziphttpd.App, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		err := cfg.InitializeOTel(ctx)
		if err != nil {
			return nil, err
		}

		onPostRun := app.MultiHook(
			tryShutdown(otel.GetTracerProvider()),
			tryShutdown(otel.GetMeterProvider()),
		)

		base, err := builder.Build(ctx, cfg)
		if err != nil {
			shutdownErr := onPostRun.Run(ctx)
			if shutdownErr == nil {
				return nil, err
			}
			return nil, errors.Join(err, shutdownErr)
		}

		return app.PostRun(base, onPostRun), nil
	})
}

type shutdowner interface {
	Shutdown(context.Context) error
}

func tryShutdown(v any) app.HookFunc {
	return func(ctx context.Context) error {
		if v == nil {
			return nil
		}

		s, ok := v.(shutdowner)
		if !ok {
			return nil
		}
		return s.Shutdown(ctx)
	}
}

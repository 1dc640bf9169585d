// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package service assembles the archive, router and listener from a [Config].
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/z5labs/ziphttpd"
	"github.com/z5labs/ziphttpd/app"
	"github.com/z5labs/ziphttpd/appbuilder"
	"github.com/z5labs/ziphttpd/archive"
	"github.com/z5labs/ziphttpd/pkg/slogfield"
	"github.com/z5labs/ziphttpd/route"
	"github.com/z5labs/ziphttpd/server"
)

// Serve returns the builder for the HTTP server. The OTel SDK is
// initialized before the server is built and shut down after it stops.
func Serve() ziphttpd.AppBuilder[Config] {
	return appbuilder.Recover(
		appbuilder.OTel(
			ziphttpd.AppBuilderFunc[Config](BuildServer),
		),
	)
}

// BuildServer wires the archive reader, router, connection handler and
// listener together. The log file, if any, is closed after the server stops.
func BuildServer(ctx context.Context, cfg Config) (ziphttpd.App, error) {
	h, logFile, err := cfg.Logging.logHandler()
	if err != nil {
		return nil, err
	}
	log := slog.New(h)

	zr := archive.New(cfg.Archive.Path, log)
	router := route.New(cfg.Routes, zr, log)
	handler := server.NewHandler(
		router,
		server.Logger(log),
		server.ReadTimeout(cfg.Server.ReadTimeout),
		server.WriteTimeout(cfg.Server.WriteTimeout),
		server.BufferSize(cfg.Server.BufferSize),
	)
	rt := server.NewRuntime(
		handler,
		server.ListenOn(cfg.Server.Addr),
		server.Backlog(cfg.Server.Backlog),
		server.Workers(cfg.Server.Workers),
		server.LogHandler(h),
	)

	log.InfoContext(
		ctx,
		"serving archive",
		slogfield.String("archive", cfg.Archive.Path),
		slogfield.String("default_document", cfg.Routes.DefaultDocument),
		slogfield.Int("redirects", len(cfg.Routes.Redirects)),
	)
	return app.PostRun(rt, closeHook(logFile)), nil
}

// ListEntries returns the builder for an app which prints the name of
// every file in the configured archive to w, one per line.
func ListEntries(w io.Writer) ziphttpd.AppBuilder[Config] {
	return appbuilder.Recover(
		ziphttpd.AppBuilderFunc[Config](func(ctx context.Context, cfg Config) (ziphttpd.App, error) {
			h, logFile, err := cfg.Logging.logHandler()
			if err != nil {
				return nil, err
			}

			a := entriesApp{
				zip: archive.New(cfg.Archive.Path, slog.New(h)),
				w:   w,
			}
			return app.PostRun(a, closeHook(logFile)), nil
		}),
	)
}

type entriesApp struct {
	zip *archive.Zip
	w   io.Writer
}

func (a entriesApp) Run(ctx context.Context) error {
	names, err := a.zip.Entries(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		_, err := fmt.Fprintln(a.w, name)
		if err != nil {
			return err
		}
	}
	return nil
}

func closeHook(c io.Closer) app.Hook {
	if c == nil {
		return nil
	}
	return app.HookFunc(func(_ context.Context) error {
		return c.Close()
	})
}

// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"io"
	"os"
	"syscall"

	"github.com/z5labs/ziphttpd"
	"github.com/z5labs/ziphttpd/app"
	"github.com/z5labs/ziphttpd/config"
	"github.com/z5labs/ziphttpd/internal/service"

	"github.com/spf13/cobra"
)

func newRootCmd(out io.Writer) *cobra.Command {
	var cfgPath string

	serve := func(cmd *cobra.Command, args []string) error {
		srcs, err := configSources(cfgPath)
		if err != nil {
			return err
		}
		return ziphttpd.Run(cmd.Context(), signalAware(service.Serve()), srcs...)
	}

	root := &cobra.Command{
		Use:           "ziphttpd",
		Short:         "Serve the files of a ZIP archive over HTTP/1.1",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file layered over the built in defaults")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Accept connections until interrupted (default)",
			Args:  cobra.NoArgs,
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "entries",
			Short: "List the files in the configured archive",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				srcs, err := configSources(cfgPath)
				if err != nil {
					return err
				}
				return ziphttpd.Run(cmd.Context(), service.ListEntries(out), srcs...)
			},
		},
	)
	root.SetOut(out)
	return root
}

func configSources(path string) ([]config.Source, error) {
	srcs := []config.Source{service.DefaultConfig()}
	if path == "" {
		return srcs, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return append(srcs, config.FromYaml(f)), nil
}

// signalAware cancels the running server on SIGINT or SIGTERM and
// turns any panic into an error.
func signalAware(builder ziphttpd.AppBuilder[service.Config]) ziphttpd.AppBuilder[service.Config] {
	return ziphttpd.AppBuilderFunc[service.Config](func(ctx context.Context, cfg service.Config) (ziphttpd.App, error) {
		a, err := builder.Build(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return app.Recover(app.WithSignalNotifications(a, os.Interrupt, syscall.SIGTERM)), nil
	})
}

// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package app provides helpers for common ziphttpd.App implementation patterns.
package app

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/z5labs/ziphttpd"
	"github.com/z5labs/ziphttpd/internal/try"
)

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Recover will wrap the give [ziphttpd.App] with panic recovery.
// The recovered value is returned as a [try.PanicError].
func Recover(app ziphttpd.App) ziphttpd.App {
	return runFunc(func(ctx context.Context) (err error) {
		defer try.Recover(&err)

		return app.Run(ctx)
	})
}

// WithSignalNotifications wraps a given [ziphttpd.App] in an implementation
// that cancels the [context.Context] that's passed to app.Run if an [os.Signal]
// is received by the running process.
func WithSignalNotifications(app ziphttpd.App, signals ...os.Signal) ziphttpd.App {
	return runFunc(func(ctx context.Context) error {
		sigCtx, cancel := signal.NotifyContext(ctx, signals...)
		defer cancel()

		return app.Run(sigCtx)
	})
}

// Hook represents functionality that needs to be performed
// after [ziphttpd.App.Run] returns.
type Hook interface {
	Run(context.Context) error
}

// HookFunc is a func variant of the [Hook] interface.
type HookFunc func(context.Context) error

// Run implements the [Hook] interface.
func (f HookFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type multiHook []Hook

func (mh multiHook) Run(ctx context.Context) error {
	errs := make([]error, 0, len(mh))
	for _, h := range mh {
		if h == nil {
			continue
		}
		err := h.Run(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// MultiHook returns a [Hook] that's the logical concatenation
// of the provided [Hook]s. Every hook runs, even after an earlier
// one fails, and all failures are returned together.
func MultiHook(hooks ...Hook) Hook {
	return multiHook(hooks)
}

// PostRun wraps app so that hook always runs once app.Run returns,
// including when it panics. The hook receives a context which is
// not cancelled along with the apps context so shutdown work can
// still complete after a signal.
func PostRun(app ziphttpd.App, hook Hook) ziphttpd.App {
	return runFunc(func(ctx context.Context) (err error) {
		defer runPostRunHook(context.WithoutCancel(ctx), hook, &err)
		defer try.Recover(&err)

		return app.Run(ctx)
	})
}

func runPostRunHook(ctx context.Context, hook Hook, err *error) {
	if hook == nil {
		return
	}

	hookErr := hook.Run(ctx)

	// errors.Join will not return an error if both
	// *err and hookErr are nil.
	*err = errors.Join(*err, hookErr)
}

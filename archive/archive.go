// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package archive reads files out of a read-only ZIP archive.
//
// The archive is opened and closed on every lookup so replacing the file
// on disk takes effect on the next request without a restart.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/z5labs/ziphttpd/internal/try"
	"github.com/z5labs/ziphttpd/pkg/slogfield"
)

// ErrEntryUnavailable is matched by every lookup failure.
var ErrEntryUnavailable = errors.New("archive entry unavailable")

// ErrNotFound is the cause used when no regular file entry has the requested name.
var ErrNotFound = errors.New("no such entry")

// EntryUnavailableError reports why Name could not be read.
type EntryUnavailableError struct {
	Name  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e *EntryUnavailableError) Error() string {
	return fmt.Sprintf("archive entry unavailable: %s: %s", e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e *EntryUnavailableError) Unwrap() error {
	return e.Cause
}

// Is reports true for [ErrEntryUnavailable].
func (e *EntryUnavailableError) Is(target error) bool {
	return target == ErrEntryUnavailable
}

// Zip serves entries from the ZIP file at a fixed path.
type Zip struct {
	path string
	log  *slog.Logger
}

// New returns a Zip for the archive located at path.
func New(path string, log *slog.Logger) *Zip {
	return &Zip{
		path: path,
		log:  log,
	}
}

// Path returns the location of the archive on disk.
func (z *Zip) Path() string {
	return z.path
}

// ReadFile returns the full uncompressed content of the entry called name.
// Leading "/" separators are removed from name before the lookup and the
// remainder must match an entry name exactly.
func (z *Zip) ReadFile(ctx context.Context, name string) ([]byte, error) {
	entry := strings.TrimLeft(name, "/")

	b, err := z.readFile(entry)
	if err != nil {
		z.log.WarnContext(
			ctx,
			"failed to read archive entry",
			slogfield.Entry(entry),
			slogfield.Error(err),
		)
		return nil, &EntryUnavailableError{
			Name:  entry,
			Cause: err,
		}
	}
	return b, nil
}

func (z *Zip) readFile(name string) (_ []byte, err error) {
	zr, err := zip.OpenReader(z.path)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, zr)

	f := lookup(zr.File, name)
	if f == nil {
		return nil, ErrNotFound
	}

	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, rc)

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func lookup(files []*zip.File, name string) *zip.File {
	if name == "" {
		return nil
	}
	for _, f := range files {
		if f.Name != name {
			continue
		}
		if f.FileInfo().IsDir() {
			return nil
		}
		return f
	}
	return nil
}

// Entries lists the names of every regular file in the archive in
// the order they are stored.
func (z *Zip) Entries(ctx context.Context) (_ []string, err error) {
	zr, err := zip.OpenReader(z.path)
	if err != nil {
		z.log.ErrorContext(ctx, "failed to open archive", slogfield.String("path", z.path), slogfield.Error(err))
		return nil, err
	}
	defer try.Close(&err, zr)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names, nil
}

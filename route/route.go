// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package route decides how a request target is answered and builds the response.
//
// A target is resolved to exactly one [Decision], checked in this order:
//
//  1. [Redirect], the path is in the redirection table
//  2. [Forbidden], the path is the forbidden path
//  3. [Compute], the path contains the compute marker
//  4. [StaticFile], everything else
package route

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/z5labs/ziphttpd/httpwire"
	"github.com/z5labs/ziphttpd/pkg/slogfield"
)

// ErrInvalidParameters is returned when a compute request carries a
// width or height which is not a non-negative integer.
var ErrInvalidParameters = errors.New("invalid parameters")

// Decision is one of [Redirect], [Forbidden], [Compute] or [StaticFile].
type Decision interface {
	decision()
}

// Redirect answers with a 302 pointing at Location.
type Redirect struct {
	Location string
}

// Forbidden answers with a 403.
type Forbidden struct{}

// Compute multiplies Width by Height.
type Compute struct {
	Width  string
	Height string
}

// StaticFile serves Path out of the archive.
type StaticFile struct {
	Path string
}

func (Redirect) decision()   {}
func (Forbidden) decision()  {}
func (Compute) decision()    {}
func (StaticFile) decision() {}

// Config holds the routing table.
type Config struct {
	DefaultDocument string            `config:"defaultDocument"`
	Forbidden       string            `config:"forbidden"`
	ComputeMarker   string            `config:"computeMarker"`
	Redirects       map[string]string `config:"redirects"`
}

// FileReader returns the bytes of a named file.
type FileReader interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// Router maps request targets to responses.
type Router struct {
	cfg   Config
	files FileReader
	log   *slog.Logger
}

// New returns a Router. The redirection table is copied so later
// changes to cfg.Redirects are not observed.
func New(cfg Config, files FileReader, log *slog.Logger) *Router {
	redirects := make(map[string]string, len(cfg.Redirects))
	for src, dst := range cfg.Redirects {
		redirects[src] = dst
	}
	cfg.Redirects = redirects

	return &Router{
		cfg:   cfg,
		files: files,
		log:   log,
	}
}

// Decide resolves target to a [Decision]. It never touches the archive.
func (r *Router) Decide(target string) Decision {
	p, query := splitTarget(target)
	if p == "" || p == "/" {
		p = r.cfg.DefaultDocument
	}

	if dst, ok := r.cfg.Redirects[p]; ok {
		return Redirect{Location: dst}
	}
	if p == r.cfg.Forbidden {
		return Forbidden{}
	}
	if r.cfg.ComputeMarker != "" && strings.Contains(p, r.cfg.ComputeMarker) {
		return Compute{
			Width:  queryValue(query, "width", "0"),
			Height: queryValue(query, "height", "0"),
		}
	}
	return StaticFile{Path: p}
}

// Serve builds the response for target.
func (r *Router) Serve(ctx context.Context, target string) *httpwire.Response {
	switch d := r.Decide(target).(type) {
	case Redirect:
		r.log.InfoContext(ctx, "redirected request", slogfield.Target(target), slogfield.String("location", d.Location))
		return httpwire.NewResponse(http.StatusFound).
			AddHeader("Location", d.Location).
			Empty()
	case Forbidden:
		r.log.InfoContext(ctx, "access forbidden", slogfield.Target(target))
		return httpwire.NewResponse(http.StatusForbidden).Empty()
	case Compute:
		return r.compute(ctx, d)
	case StaticFile:
		return r.staticFile(ctx, d)
	default:
		panic(fmt.Sprintf("route: unknown decision type %T", d))
	}
}

func (r *Router) compute(ctx context.Context, d Compute) *httpwire.Response {
	area, err := Area(d.Width, d.Height)
	if err != nil {
		r.log.WarnContext(
			ctx,
			"invalid parameters for area computation",
			slogfield.String("width", d.Width),
			slogfield.String("height", d.Height),
			slogfield.Error(err),
		)
		return httpwire.NewResponse(http.StatusBadRequest).
			WithBody("text/plain", []byte("Invalid parameters"))
	}

	r.log.InfoContext(ctx, "computed area", slogfield.String("area", area.String()))
	return httpwire.NewResponse(http.StatusOK).
		WithBody("text/plain", []byte("The area is: "+area.String()))
}

func (r *Router) staticFile(ctx context.Context, d StaticFile) *httpwire.Response {
	b, err := r.files.ReadFile(ctx, d.Path)
	if err != nil {
		r.log.WarnContext(ctx, "file not found", slogfield.Entry(d.Path), slogfield.Error(err))
		return httpwire.NewResponse(http.StatusNotFound).Empty()
	}

	contentType := ContentType(d.Path)
	r.log.InfoContext(
		ctx,
		"served file",
		slogfield.Entry(d.Path),
		slogfield.String("content_type", contentType),
		slogfield.Int("size", len(b)),
	)
	return httpwire.NewResponse(http.StatusOK).WithBody(contentType, b)
}

// ContentType guesses the MIME type from the extension of p.
// Unknown extensions are served as application/octet-stream.
func ContentType(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return "application/octet-stream"
	}
	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return "application/octet-stream"
	}
	return typ
}

// Area multiplies width by height. Both must be non-empty strings of
// ASCII digits and may be arbitrarily large.
func Area(width, height string) (*big.Int, error) {
	w, ok := parseDigits(width)
	if !ok {
		return nil, fmt.Errorf("width %q: %w", width, ErrInvalidParameters)
	}
	h, ok := parseDigits(height)
	if !ok {
		return nil, fmt.Errorf("height %q: %w", height, ErrInvalidParameters)
	}
	return new(big.Int).Mul(w, h), nil
}

func parseDigits(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, false
		}
	}
	return new(big.Int).SetString(s, 10)
}

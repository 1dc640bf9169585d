// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package service

import (
	"bytes"
	_ "embed"
	"log/slog"
	"time"

	"github.com/z5labs/ziphttpd/config"
	"github.com/z5labs/ziphttpd/config/configtmpl"
	"github.com/z5labs/ziphttpd/route"
)

//go:embed default_config.yaml
var defaultConfig []byte

// DefaultConfig returns the built in config. Every server, logging and
// archive setting can be overridden with a ZIPHTTPD_* environment variable.
func DefaultConfig() config.Source {
	return config.FromYaml(
		config.RenderTextTemplate(
			bytes.NewReader(defaultConfig),
			config.TemplateFunc("env", configtmpl.Env),
			config.TemplateFunc("default", configtmpl.Default),
		),
	)
}

// LoggingConfig selects where and how log records are written.
type LoggingConfig struct {
	// File is appended to. An empty value logs to stderr.
	File   string     `config:"file"`
	Level  slog.Level `config:"level"`
	Format string     `config:"format"`
}

// OTelConfig selects the trace exporter. OTLP takes precedence over stdout
// and tracing is disabled when neither is set.
type OTelConfig struct {
	ServiceName string `config:"serviceName"`
	Stdout      struct {
		File string `config:"file"`
	} `config:"stdout"`
	OTLP struct {
		Target string `config:"target"`
	} `config:"otlp"`
}

// ServerConfig configures the listener and per connection limits.
type ServerConfig struct {
	Addr         string        `config:"addr"`
	Backlog      int           `config:"backlog"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	BufferSize   int           `config:"bufferSize"`
	Workers      int           `config:"workers"`
}

// Config is the complete service configuration.
type Config struct {
	Logging LoggingConfig `config:"logging"`
	OTel    OTelConfig    `config:"otel"`
	Server  ServerConfig  `config:"server"`
	Archive struct {
		Path string `config:"path"`
	} `config:"archive"`
	Routes route.Config `config:"routes"`
}

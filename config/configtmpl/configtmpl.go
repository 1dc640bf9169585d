// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package configtmpl provides template functions for use in config source templates.
package configtmpl

import (
	"os"
	"reflect"
)

// Env returns the environment variable value for the given key
// or an empty string, if the environment variable does not exist.
//
// The environment is read on every call so values set after process
// start, e.g. by tests, are honored.
func Env(key string) string {
	return os.Getenv(key)
}

// Default returns the provided def value if v is either nil or the zero value for its type.
// The argument order allows it to be used at the end of a pipeline:
//
//	{{ env "ZIPHTTPD_ADDR" | default "0.0.0.0:8080" }}
func Default(def, v any) any {
	if v == nil {
		return def
	}
	val := reflect.ValueOf(v)
	if val.IsZero() {
		return def
	}
	return v
}

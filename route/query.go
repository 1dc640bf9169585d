// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package route

import (
	"net/url"
	"strings"
)

// splitTarget splits a request target on the first "?".
func splitTarget(target string) (path, query string) {
	path, query, _ = strings.Cut(target, "?")
	return path, query
}

// queryValue returns the first non-blank value for name in query, or def
// when there is none. Pairs without "=" and pairs with an empty value are
// ignored. Names and values are form-decoded; a value which fails to decode
// is used as is.
func queryValue(query, name, def string) string {
	for _, pair := range strings.Split(query, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || v == "" {
			continue
		}
		if formDecode(k) != name {
			continue
		}
		return formDecode(v)
	}
	return def
}

func formDecode(s string) string {
	d, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return d
}

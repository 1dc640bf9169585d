// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd)

package server

import "net"

// listenTCP falls back to the standard listener where the backlog
// cannot be set directly.
func listenTCP(addr string, _ int) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

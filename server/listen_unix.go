// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package server

import (
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// listenTCP creates the listening socket by hand so the backlog reaches
// listen(2) unchanged. net.Listen always uses the system maximum.
func listenTCP(addr string, backlog int) (_ net.Listener, err error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	family, sa, err := sockaddr(tcpAddr)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Socket(family, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	f := os.NewFile(uintptr(fd), "tcp:"+addr)
	defer f.Close()
	unix.CloseOnExec(fd)

	err = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if err != nil {
		return nil, os.NewSyscallError("setsockopt", err)
	}
	err = unix.Bind(fd, sa)
	if err != nil {
		return nil, os.NewSyscallError("bind", err)
	}
	err = unix.Listen(fd, backlog)
	if err != nil {
		return nil, os.NewSyscallError("listen", err)
	}

	// the listener holds its own duplicate of fd
	return net.FileListener(f)
}

func sockaddr(addr *net.TCPAddr) (int, unix.Sockaddr, error) {
	if addr.IP == nil || addr.IP.To4() != nil {
		sa := &unix.SockaddrInet4{Port: addr.Port}
		if addr.IP != nil {
			copy(sa.Addr[:], addr.IP.To4())
		}
		return unix.AF_INET, sa, nil
	}

	sa := &unix.SockaddrInet6{Port: addr.Port}
	copy(sa.Addr[:], addr.IP.To16())
	if addr.Zone != "" {
		ifi, err := net.InterfaceByName(addr.Zone)
		if err != nil {
			return 0, nil, err
		}
		sa.ZoneId = uint32(ifi.Index)
	}
	return unix.AF_INET6, sa, nil
}

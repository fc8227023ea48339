package main

import (
	"net"

	"golang.org/x/sys/unix"
)

// setReuseAddr mirrors kissnet.go's connect_listen_thread: restarting the
// bridge right after a crash would otherwise find the UDP port still
// TIME_WAIT-bound. net.UDPConn doesn't expose SO_REUSEADDR directly, so the
// raw fd is reached via SyscallConn, same as the teacher reaching for the
// listener's File() to call syscall.SetsockoptInt.
func setReuseAddr(conn *net.UDPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if ctrlErr != nil {
		return ctrlErr
	}
	return sockErr
}

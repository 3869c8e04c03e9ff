package circuit

import (
	"net"
	"syscall"

	"github.com/example/viewer-circuit/internal/logctx"
	"golang.org/x/sys/unix"
)

// tuneSocketBuffers grows the UDP socket's receive/send buffers past
// the OS default so a burst of simulator datagrams (asset data, object
// updates on a busy region) doesn't get dropped before Run reads it.
// Best-effort: failures are logged, never fatal, since the circuit
// still works correctly at the default buffer size.
func tuneSocketBuffers(conn *net.UDPConn, bytes int) {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		logctx.Log.Warningf("circuit: SyscallConn for buffer tuning: %v", err)
		return
	}

	var ctrlErr error
	err = rawConn.Control(func(fd uintptr) {
		if e := unix.SetsockoptInt(int(fd), syscall.SOL_SOCKET, unix.SO_RCVBUF, bytes); e != nil {
			ctrlErr = e
			return
		}
		if e := unix.SetsockoptInt(int(fd), syscall.SOL_SOCKET, unix.SO_SNDBUF, bytes); e != nil {
			ctrlErr = e
			return
		}
	})
	if err != nil {
		logctx.Log.Warningf("circuit: rawConn.Control for buffer tuning: %v", err)
		return
	}
	if ctrlErr != nil {
		logctx.Log.Warningf("circuit: setsockopt buffer size: %v", ctrlErr)
	}
}

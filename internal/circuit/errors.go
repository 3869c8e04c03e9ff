package circuit

import "errors"

// ErrCircuitClosed is returned by Send once the circuit has been torn
// down — all producer sends after logout() fail with this. Logout on a
// closed circuit returns nil.
var ErrCircuitClosed = errors.New("circuit: closed")

// ErrReliableTimeout is reported on the circuit's Errors channel for a
// reliable send that was never acknowledged within the retry budget.
var ErrReliableTimeout = errors.New("circuit: reliable packet abandoned, no ACK")

// ErrHandshakeTimeout means Connecting..Landed did not complete within
// the configured handshake window.
var ErrHandshakeTimeout = errors.New("circuit: handshake did not complete in time")

// ErrUnknownMessage wraps an inbound wire ID that matches no registered
// schema; logged by the receive loop, never returned to a caller.
var ErrUnknownMessage = errors.New("circuit: unknown message")

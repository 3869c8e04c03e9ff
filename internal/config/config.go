// Package config centralises the tunables the circuit's timers run
// against, following the teacher's Config/loadConfig split (one
// struct, one constructor with sane defaults, no external config
// file format since spec.md names none).
package config

import (
	"time"

	"github.com/example/viewer-circuit/internal/wire"
)

// Config holds every timing and throttle constant the circuit state
// machine consults. All durations are as specified; nothing here is
// derived from a remote handshake.
type Config struct {
	// RetransmitInterval is how long a reliable packet waits unacked
	// before it is resent with the S flag.
	RetransmitInterval time.Duration
	// MaxRetransmitAttempts caps retries before ReliableTimeout.
	MaxRetransmitAttempts int
	// MaxRetransmitWindow caps total retry time before ReliableTimeout,
	// whichever of the two limits is hit first.
	MaxRetransmitWindow time.Duration

	// AckFlushInterval is the maximum time pending_acks sits undrained
	// before a dedicated PacketAck is sent.
	AckFlushInterval time.Duration

	// AgentUpdateInterval is the keep-alive/handshake-poke cadence.
	AgentUpdateInterval time.Duration

	// HandshakeTimeout bounds the Connecting->Landed sequence.
	HandshakeTimeout time.Duration

	// LogoutTimeout bounds how long logout() waits for an ACK or
	// CloseCircuit before closing the socket unconditionally.
	LogoutTimeout time.Duration

	// ReceiveTimeout is the blocking-read deadline that drives the
	// timer wheel when no datagram arrives.
	ReceiveTimeout time.Duration

	// AgentThrottle holds the seven bits-per-second throttle categories
	// sent once on entering Landed: resend, land, wind, cloud, task,
	// texture, asset.
	AgentThrottle ThrottleCategories
}

// ThrottleCategories is the AgentThrottle payload's seven float32
// categories, in wire order.
type ThrottleCategories struct {
	Resend  float32
	Land    float32
	Wind    float32
	Cloud   float32
	Task    float32
	Texture float32
	Asset   float32
}

// Bytes packs the seven categories into the 28-byte little-endian
// payload AgentThrottle's Throttles field carries.
func (t ThrottleCategories) Bytes() []byte {
	w := wire.NewWriter(28)
	w.F32(t.Resend)
	w.F32(t.Land)
	w.F32(t.Wind)
	w.F32(t.Cloud)
	w.F32(t.Task)
	w.F32(t.Texture)
	w.F32(t.Asset)
	return w.Bytes()
}

// Default returns the configuration spec.md's worked examples assume.
func Default() Config {
	return Config{
		RetransmitInterval:    1 * time.Second,
		MaxRetransmitAttempts: 6,
		MaxRetransmitWindow:   10 * time.Second,
		AckFlushInterval:      1 * time.Second,
		AgentUpdateInterval:   500 * time.Millisecond,
		HandshakeTimeout:      45 * time.Second,
		LogoutTimeout:         2 * time.Second,
		ReceiveTimeout:        1 * time.Second,
		AgentThrottle: ThrottleCategories{
			Resend:  150000,
			Land:    170000,
			Wind:    34000,
			Cloud:   34000,
			Task:    446000,
			Texture: 446000,
			Asset:   220000,
		},
	}
}

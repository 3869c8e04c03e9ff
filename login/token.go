// Package login models the result handed back by the XML-RPC login
// collaborator (spec.md §6.1). The RPC itself is out of scope — the
// transport that produces a Token is external code; this package only
// validates and carries that result into the circuit layer.
package login

import (
	"fmt"
	"net"

	"github.com/blang/semver"

	"github.com/example/viewer-circuit/internal/wire"
)

// MinProtocolVersion is the oldest simulator protocol release this
// circuit implementation is willing to talk to. Grounded on
// kryptco-kr's CURRENT_VERSION/semver.LT update-gate pattern,
// repurposed from "is my client stale" to "is the region too old for
// this wire format."
var MinProtocolVersion = semver.MustParse("1.0.0")

// Token is the subset of the login RPC's response this module
// consumes: enough to open a Circuit and know where to send the
// first UseCircuitCode.
type Token struct {
	Login           string // "true" or "false"
	Message         string
	AgentID         wire.UUID
	SessionID       wire.UUID
	CircuitCode     uint32
	SimIP           net.IP
	SimPort         uint16
	RegionX         uint32
	RegionY         uint32
	SeedCapability  string
	ProtocolVersion semver.Version
}

// Validate returns ErrLoginRefused if the RPC reported failure, and a
// plain error if the simulator's protocol version predates what this
// client can speak.
func (t Token) Validate() error {
	if t.Login != "true" {
		return &ErrLoginRefused{Message: t.Message}
	}
	if t.ProtocolVersion.LT(MinProtocolVersion) {
		return fmt.Errorf("login: simulator protocol %s is older than minimum supported %s",
			t.ProtocolVersion, MinProtocolVersion)
	}
	return nil
}

// Endpoint returns the simulator's UDP address the Circuit should dial.
func (t Token) Endpoint() *net.UDPAddr {
	return &net.UDPAddr{IP: t.SimIP, Port: int(t.SimPort)}
}

package wire

import (
	"net"

	uuid "github.com/satori/go.uuid"
)

// Vector3 is a 3-float vector (position, velocity, ...).
type Vector3 struct {
	X, Y, Z float32
}

// Vector3d is a 3-double vector, used for the handful of fields the
// protocol carries at double precision (global position).
type Vector3d struct {
	X, Y, Z float64
}

// Vector4 is a 4-float vector.
type Vector4 struct {
	X, Y, Z, W float32
}

// Quaternion is a 4-float rotation, wire-identical to Vector4 but kept
// distinct so callers can't accidentally swap the two.
type Quaternion struct {
	X, Y, Z, W float32
}

// RGBA is a 4-byte colour.
type RGBA struct {
	R, G, B, A uint8
}

// UUID is the protocol's 16-byte identifier, stored in the satori
// representation so agent/session/object IDs can be compared, hashed
// and formatted with the same library used across the module.
type UUID = uuid.UUID

// NilUUID is the all-zero UUID the protocol uses for "no object".
var NilUUID = uuid.Nil

// NewUUID returns a fresh random (v4) UUID, used where the client must
// mint an identifier locally (e.g. a locally-generated transaction ID).
func NewUUID() UUID {
	return uuid.NewV4()
}

// ParseUUID parses the canonical hyphenated string form.
func ParseUUID(s string) (UUID, error) {
	return uuid.FromString(s)
}

// Endpoint pairs a 4-byte IPv4 address with its 2-byte port, as carried
// inline in several schema fields (distinct from the UDPAddr the
// circuit dials — see Reader.PortBE/PortLE's doc comments on byte
// order, which is schema-dependent per spec.md §4.1).
type Endpoint struct {
	IP   net.IP
	Port uint16
}

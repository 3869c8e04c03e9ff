// Package wire implements the primitive codec: encode/decode of the
// fixed-width numeric, vector, quaternion, UUID, address and blob types
// that appear on the circuit wire.
package wire

import "errors"

// ErrTruncatedField is returned when a decode would read past the end
// of the supplied buffer.
var ErrTruncatedField = errors.New("wire: truncated field")

// ErrFieldTooLarge is returned when an encode's declared length prefix
// cannot represent the value being written.
var ErrFieldTooLarge = errors.New("wire: field too large for length prefix")

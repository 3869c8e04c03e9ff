package schema

import (
	"encoding/binary"
	"fmt"

	"github.com/example/viewer-circuit/internal/wire"
)

// IDByteLen is the length, in bytes, of the message-ID prefix for
// every frequency class (spec.md §6.2 — all four are 4 bytes, the
// difference is only in how those 4 bytes are carved up).
const IDByteLen = 4

// EncodeMessageID writes the frequency-dependent wire ID prefix onto w,
// per spec.md §6.2. For Low/Medium/High, id is the message's declared
// ID (1..255 or 1..65535); for Fixed, id is the full 32-bit well-known
// value (e.g. 0xFFFFFFFB for PacketAck).
func EncodeMessageID(w *wire.Writer, freq Frequency, id uint32) error {
	switch freq {
	case Low:
		w.U8(0x00)
		w.U8(0x00)
		w.U8(0x00)
		w.U8(byte(id))
	case Medium:
		w.U8(0x00)
		w.U8(0x00)
		w.U8(0xFF)
		w.U8(byte(id))
	case High:
		w.U8(0xFF)
		w.U8(0xFF)
		w.U8(byte(id >> 8))
		w.U8(byte(id))
	case Fixed:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], id)
		w.FixedBytes(b[:])
	default:
		return fmt.Errorf("schema: unknown frequency %v", freq)
	}
	return nil
}

// DecodeMessageID reads the 4-byte message-ID prefix from the front of
// body and returns the frequency it belongs to, the message ID within
// that frequency's ID space, and the number of bytes consumed.
//
// Fixed and High both begin with two 0xFF bytes, so Fixed (three
// leading 0xFF bytes) must be checked before High (only two) — this is
// the same disambiguation the real protocol relies on by keeping High
// frequency IDs out of the 0xFF00-0xFFFF range.
func DecodeMessageID(body []byte) (freq Frequency, id uint32, consumed int, err error) {
	if len(body) < IDByteLen {
		return 0, 0, 0, fmt.Errorf("schema: truncated message ID (%d bytes)", len(body))
	}
	v := binary.BigEndian.Uint32(body[:IDByteLen])
	switch {
	case v>>8 == 0x000000:
		return Low, v & 0xFF, IDByteLen, nil
	case v>>8 == 0x0000FF:
		return Medium, v & 0xFF, IDByteLen, nil
	case v>>8 == 0xFFFFFF:
		return Fixed, v, IDByteLen, nil
	case v>>16 == 0xFFFF:
		return High, v & 0xFFFF, IDByteLen, nil
	default:
		return 0, 0, 0, fmt.Errorf("schema: unrecognised message ID prefix 0x%08X", v)
	}
}

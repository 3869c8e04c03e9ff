package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"

	uuid "github.com/satori/go.uuid"
)

// Reader walks a byte slice left to right, decoding primitives in the
// little-endian body byte order spec.md §4.1 mandates (header fields
// are big-endian and decoded separately by internal/framer).
type Reader struct {
	data   []byte
	offset int
}

// NewReader wraps data for sequential decoding. The slice is not
// copied; callers must not mutate it while the Reader is in use.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current read cursor.
func (r *Reader) Offset() int { return r.offset }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.offset }

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.offset+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedField, n, r.Remaining())
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

// U8 reads an unsigned 8-bit integer.
func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Bool reads a single byte as a boolean (non-zero is true), the
// protocol's usual encoding for flag fields.
func (r *Reader) Bool() (bool, error) {
	b, err := r.U8()
	return b != 0, err
}

// U16 reads an unsigned 16-bit little-endian integer.
func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads an unsigned 32-bit little-endian integer.
func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads an unsigned 64-bit little-endian integer.
func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// I8 reads a signed 8-bit integer.
func (r *Reader) I8() (int8, error) {
	v, err := r.U8()
	return int8(v), err
}

// I16 reads a signed 16-bit little-endian integer.
func (r *Reader) I16() (int16, error) {
	v, err := r.U16()
	return int16(v), err
}

// I32 reads a signed 32-bit little-endian integer.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// I64 reads a signed 64-bit little-endian integer.
func (r *Reader) I64() (int64, error) {
	v, err := r.U64()
	return int64(v), err
}

// F32 reads a 32-bit little-endian IEEE-754 float.
func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// F64 reads a 64-bit little-endian IEEE-754 float.
func (r *Reader) F64() (float64, error) {
	v, err := r.U64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Vector3 reads three consecutive little-endian floats.
func (r *Reader) Vector3() (Vector3, error) {
	x, err := r.F32()
	if err != nil {
		return Vector3{}, err
	}
	y, err := r.F32()
	if err != nil {
		return Vector3{}, err
	}
	z, err := r.F32()
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: x, Y: y, Z: z}, nil
}

// Vector3d reads three consecutive little-endian doubles.
func (r *Reader) Vector3d() (Vector3d, error) {
	x, err := r.F64()
	if err != nil {
		return Vector3d{}, err
	}
	y, err := r.F64()
	if err != nil {
		return Vector3d{}, err
	}
	z, err := r.F64()
	if err != nil {
		return Vector3d{}, err
	}
	return Vector3d{X: x, Y: y, Z: z}, nil
}

// Vector4 reads four consecutive little-endian floats.
func (r *Reader) Vector4() (Vector4, error) {
	x, err := r.F32()
	if err != nil {
		return Vector4{}, err
	}
	y, err := r.F32()
	if err != nil {
		return Vector4{}, err
	}
	z, err := r.F32()
	if err != nil {
		return Vector4{}, err
	}
	w, err := r.F32()
	if err != nil {
		return Vector4{}, err
	}
	return Vector4{X: x, Y: y, Z: z, W: w}, nil
}

// Quaternion reads four consecutive little-endian floats.
func (r *Reader) Quaternion() (Quaternion, error) {
	v, err := r.Vector4()
	return Quaternion(v), err
}

// RGBA reads four raw colour bytes.
func (r *Reader) RGBA() (RGBA, error) {
	b, err := r.take(4)
	if err != nil {
		return RGBA{}, err
	}
	return RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

// UUID reads the protocol's 16 raw bytes, big-endian canonical form.
func (r *Reader) UUID() (UUID, error) {
	b, err := r.take(16)
	if err != nil {
		return NilUUID, err
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		return NilUUID, fmt.Errorf("%w: %v", ErrTruncatedField, err)
	}
	return u, nil
}

// IPv4 reads a 4-byte address in network order.
func (r *Reader) IPv4() (net.IP, error) {
	b, err := r.take(4)
	if err != nil {
		return nil, err
	}
	ip := make(net.IP, 4)
	copy(ip, b)
	return ip, nil
}

// PortBE reads a 2-byte big-endian port, the form used inside captured
// sim-endpoint fields (spec.md §4.1).
func (r *Reader) PortBE() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// PortLE reads a 2-byte little-endian port, the form most body fields
// declare (spec.md §4.1 — implementers must follow the schema's
// declared type literally, not assume one byte order for all ports).
func (r *Reader) PortLE() (uint16, error) {
	return r.U16()
}

// FixedBytes reads exactly n raw bytes with no length prefix.
func (r *Reader) FixedBytes(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// VarBytes reads a length-prefixed variable blob. prefixWidth must be
// 1 or 2, matching the schema's declared prefix width.
func (r *Reader) VarBytes(prefixWidth int) ([]byte, error) {
	var n int
	switch prefixWidth {
	case 1:
		v, err := r.U8()
		if err != nil {
			return nil, err
		}
		n = int(v)
	case 2:
		v, err := r.U16()
		if err != nil {
			return nil, err
		}
		n = int(v)
	default:
		return nil, fmt.Errorf("wire: invalid length-prefix width %d", prefixWidth)
	}
	return r.FixedBytes(n)
}

// LatinString reads a VarBytes blob and decodes it as Latin-1
// (ISO-8859-1), the encoding spec.md §6.4 mandates for wire strings.
// Each byte maps 1:1 onto the Unicode code point of the same value, so
// decoding is a direct byte->rune widen.
func (r *Reader) LatinString(prefixWidth int) (string, error) {
	b, err := r.VarBytes(prefixWidth)
	if err != nil {
		return "", err
	}
	return DecodeLatin1(b), nil
}

// DecodeLatin1 widens raw ISO-8859-1 bytes into a Go string.
func DecodeLatin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"
)

// Writer accumulates encoded bytes in the wire's little-endian body
// byte order. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with capacity hinted by size.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, 0, size)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// U8 appends an unsigned 8-bit integer.
func (w *Writer) U8(v uint8) { w.buf = append(w.buf, v) }

// Bool appends a single byte, 1 for true and 0 for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

// U16 appends an unsigned 16-bit little-endian integer.
func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U32 appends an unsigned 32-bit little-endian integer.
func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U64 appends an unsigned 64-bit little-endian integer.
func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// I8 appends a signed 8-bit integer.
func (w *Writer) I8(v int8) { w.U8(uint8(v)) }

// I16 appends a signed 16-bit little-endian integer.
func (w *Writer) I16(v int16) { w.U16(uint16(v)) }

// I32 appends a signed 32-bit little-endian integer.
func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

// I64 appends a signed 64-bit little-endian integer.
func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

// F32 appends a 32-bit little-endian IEEE-754 float.
func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }

// F64 appends a 64-bit little-endian IEEE-754 float.
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

// Vector3 appends three little-endian floats.
func (w *Writer) Vector3(v Vector3) {
	w.F32(v.X)
	w.F32(v.Y)
	w.F32(v.Z)
}

// Vector3d appends three little-endian doubles.
func (w *Writer) Vector3d(v Vector3d) {
	w.F64(v.X)
	w.F64(v.Y)
	w.F64(v.Z)
}

// Vector4 appends four little-endian floats.
func (w *Writer) Vector4(v Vector4) {
	w.F32(v.X)
	w.F32(v.Y)
	w.F32(v.Z)
	w.F32(v.W)
}

// Quaternion appends four little-endian floats.
func (w *Writer) Quaternion(v Quaternion) { w.Vector4(Vector4(v)) }

// RGBA appends four raw colour bytes.
func (w *Writer) RGBA(v RGBA) {
	w.buf = append(w.buf, v.R, v.G, v.B, v.A)
}

// UUID appends the protocol's 16 raw bytes, big-endian canonical form.
func (w *Writer) UUID(u UUID) {
	w.buf = append(w.buf, u.Bytes()...)
}

// IPv4 appends a 4-byte address in network order.
func (w *Writer) IPv4(ip net.IP) {
	v4 := ip.To4()
	if v4 == nil {
		v4 = make(net.IP, 4)
	}
	w.buf = append(w.buf, v4...)
}

// PortBE appends a 2-byte big-endian port.
func (w *Writer) PortBE(port uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], port)
	w.buf = append(w.buf, b[:]...)
}

// PortLE appends a 2-byte little-endian port.
func (w *Writer) PortLE(port uint16) { w.U16(port) }

// FixedBytes appends raw bytes with no length prefix; the schema is
// responsible for knowing the fixed length.
func (w *Writer) FixedBytes(b []byte) { w.buf = append(w.buf, b...) }

// VarBytes appends a length-prefixed variable blob. prefixWidth must
// be 1 or 2; ErrFieldTooLarge is returned if len(b) overflows it.
func (w *Writer) VarBytes(prefixWidth int, b []byte) error {
	switch prefixWidth {
	case 1:
		if len(b) > 0xFF {
			return fmt.Errorf("%w: %d bytes exceeds 1-byte prefix", ErrFieldTooLarge, len(b))
		}
		w.U8(uint8(len(b)))
	case 2:
		if len(b) > 0xFFFF {
			return fmt.Errorf("%w: %d bytes exceeds 2-byte prefix", ErrFieldTooLarge, len(b))
		}
		w.U16(uint16(len(b)))
	default:
		return fmt.Errorf("wire: invalid length-prefix width %d", prefixWidth)
	}
	w.buf = append(w.buf, b...)
	return nil
}

// LatinString encodes s as ISO-8859-1 and writes it as a VarBytes
// blob. Code points above 0xFF cannot be represented and yield
// ErrFieldTooLarge rather than silently truncating to UTF-8 bytes,
// since spec.md §6.4 forbids a UTF-8 round trip on these fields.
func (w *Writer) LatinString(prefixWidth int, s string) error {
	b, err := EncodeLatin1(s)
	if err != nil {
		return err
	}
	return w.VarBytes(prefixWidth, b)
}

// EncodeLatin1 narrows a Go string into raw ISO-8859-1 bytes.
func EncodeLatin1(s string) ([]byte, error) {
	runes := []rune(s)
	b := make([]byte, len(runes))
	for i, r := range runes {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: rune %U has no Latin-1 representation", ErrFieldTooLarge, r)
		}
		b[i] = byte(r)
	}
	return b, nil
}

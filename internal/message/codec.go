package message

import (
	"errors"
	"fmt"
	"net"

	"github.com/example/viewer-circuit/internal/schema"
	"github.com/example/viewer-circuit/internal/wire"
)

// ErrVariableBlockCountOverflow is returned when encoding a Variable
// block with more than 255 entries; the wire's count byte cannot
// represent it (spec.md §4.3).
var ErrVariableBlockCountOverflow = errors.New("message: variable block count exceeds 255")

// Decode builds a typed Message from body, which must begin right
// after the message-ID prefix (spec.md §6.2 strips that separately).
func Decode(s *schema.Schema, body []byte) (*Message, error) {
	r := wire.NewReader(body)
	m := New(s)
	for _, blk := range s.Blocks {
		switch blk.Cardinality {
		case schema.Single:
			b, err := decodeBlock(r, blk)
			if err != nil {
				return nil, fmt.Errorf("message %s block %s: %w", s.Name, blk.Name, err)
			}
			m.SetSingle(blk.Name, b)
		case schema.FixedCount:
			entries := make([]Block, 0, blk.Count)
			for i := 0; i < blk.Count; i++ {
				b, err := decodeBlock(r, blk)
				if err != nil {
					return nil, fmt.Errorf("message %s block %s[%d]: %w", s.Name, blk.Name, i, err)
				}
				entries = append(entries, b)
			}
			m.Blocks[blk.Name] = entries
		case schema.Variable:
			count, err := r.U8()
			if err != nil {
				return nil, fmt.Errorf("message %s block %s count: %w", s.Name, blk.Name, err)
			}
			entries := make([]Block, 0, count)
			for i := 0; i < int(count); i++ {
				b, err := decodeBlock(r, blk)
				if err != nil {
					return nil, fmt.Errorf("message %s block %s[%d]: %w", s.Name, blk.Name, i, err)
				}
				entries = append(entries, b)
			}
			m.Blocks[blk.Name] = entries
		}
	}
	return m, nil
}

func decodeBlock(r *wire.Reader, blk schema.Block) (Block, error) {
	b := Block{}
	for _, f := range blk.Fields {
		v, err := decodeField(r, f)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		b[f.Name] = v
	}
	return b, nil
}

func decodeField(r *wire.Reader, f schema.Field) (interface{}, error) {
	switch f.Type {
	case schema.TypeU8:
		return r.U8()
	case schema.TypeBool:
		return r.Bool()
	case schema.TypeU16:
		return r.U16()
	case schema.TypeU32:
		return r.U32()
	case schema.TypeU64:
		return r.U64()
	case schema.TypeI8:
		return r.I8()
	case schema.TypeI16:
		return r.I16()
	case schema.TypeI32:
		return r.I32()
	case schema.TypeI64:
		return r.I64()
	case schema.TypeF32:
		return r.F32()
	case schema.TypeF64:
		return r.F64()
	case schema.TypeVector3:
		return r.Vector3()
	case schema.TypeVector3d:
		return r.Vector3d()
	case schema.TypeVector4:
		return r.Vector4()
	case schema.TypeQuaternion:
		return r.Quaternion()
	case schema.TypeRGBA:
		return r.RGBA()
	case schema.TypeUUID:
		return r.UUID()
	case schema.TypeIPv4:
		return r.IPv4()
	case schema.TypePortBE:
		return r.PortBE()
	case schema.TypePortLE:
		return r.PortLE()
	case schema.TypeFixedBytes:
		return r.FixedBytes(f.FixedLen)
	case schema.TypeVarBytes1:
		return r.VarBytes(1)
	case schema.TypeVarBytes2:
		return r.VarBytes(2)
	case schema.TypeLatinString1:
		return r.LatinString(1)
	case schema.TypeLatinString2:
		return r.LatinString(2)
	default:
		return nil, fmt.Errorf("message: unknown field type %v", f.Type)
	}
}

// Encode emits the block data for m — the mirror image of Decode. The
// caller (internal/circuit, via internal/schema.EncodeMessageID) is
// responsible for prepending the message-ID prefix.
func Encode(m *Message) ([]byte, error) {
	w := wire.NewWriter(128)
	for _, blk := range m.Schema.Blocks {
		switch blk.Cardinality {
		case schema.Single:
			if err := encodeBlock(w, blk, m.Single(blk.Name)); err != nil {
				return nil, fmt.Errorf("message %s block %s: %w", m.Schema.Name, blk.Name, err)
			}
		case schema.FixedCount:
			entries := m.Repeated(blk.Name)
			if len(entries) != blk.Count {
				return nil, fmt.Errorf("message %s block %s: have %d entries, schema requires %d", m.Schema.Name, blk.Name, len(entries), blk.Count)
			}
			for i, entry := range entries {
				if err := encodeBlock(w, blk, entry); err != nil {
					return nil, fmt.Errorf("message %s block %s[%d]: %w", m.Schema.Name, blk.Name, i, err)
				}
			}
		case schema.Variable:
			entries := m.Repeated(blk.Name)
			if len(entries) > 255 {
				return nil, fmt.Errorf("message %s block %s: %w (%d entries)", m.Schema.Name, blk.Name, ErrVariableBlockCountOverflow, len(entries))
			}
			w.U8(uint8(len(entries)))
			for i, entry := range entries {
				if err := encodeBlock(w, blk, entry); err != nil {
					return nil, fmt.Errorf("message %s block %s[%d]: %w", m.Schema.Name, blk.Name, i, err)
				}
			}
		}
	}
	return w.Bytes(), nil
}

func encodeBlock(w *wire.Writer, blk schema.Block, b Block) error {
	for _, f := range blk.Fields {
		if err := encodeField(w, f, b[f.Name]); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

func encodeField(w *wire.Writer, f schema.Field, v interface{}) error {
	switch f.Type {
	case schema.TypeU8:
		u, err := asUint8(v)
		if err != nil {
			return err
		}
		w.U8(u)
	case schema.TypeBool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("message: expected bool, got %T", v)
		}
		w.Bool(b)
	case schema.TypeU16:
		u, err := asUint16(v)
		if err != nil {
			return err
		}
		w.U16(u)
	case schema.TypeU32:
		u, err := asUint32(v)
		if err != nil {
			return err
		}
		w.U32(u)
	case schema.TypeU64:
		u, ok := v.(uint64)
		if !ok {
			return fmt.Errorf("message: expected uint64, got %T", v)
		}
		w.U64(u)
	case schema.TypeI8:
		i, ok := v.(int8)
		if !ok {
			return fmt.Errorf("message: expected int8, got %T", v)
		}
		w.I8(i)
	case schema.TypeI16:
		i, ok := v.(int16)
		if !ok {
			return fmt.Errorf("message: expected int16, got %T", v)
		}
		w.I16(i)
	case schema.TypeI32:
		i, ok := v.(int32)
		if !ok {
			return fmt.Errorf("message: expected int32, got %T", v)
		}
		w.I32(i)
	case schema.TypeI64:
		i, ok := v.(int64)
		if !ok {
			return fmt.Errorf("message: expected int64, got %T", v)
		}
		w.I64(i)
	case schema.TypeF32:
		f32, ok := v.(float32)
		if !ok {
			return fmt.Errorf("message: expected float32, got %T", v)
		}
		w.F32(f32)
	case schema.TypeF64:
		f64, ok := v.(float64)
		if !ok {
			return fmt.Errorf("message: expected float64, got %T", v)
		}
		w.F64(f64)
	case schema.TypeVector3:
		vec, ok := v.(wire.Vector3)
		if !ok {
			return fmt.Errorf("message: expected wire.Vector3, got %T", v)
		}
		w.Vector3(vec)
	case schema.TypeVector3d:
		vec, ok := v.(wire.Vector3d)
		if !ok {
			return fmt.Errorf("message: expected wire.Vector3d, got %T", v)
		}
		w.Vector3d(vec)
	case schema.TypeVector4:
		vec, ok := v.(wire.Vector4)
		if !ok {
			return fmt.Errorf("message: expected wire.Vector4, got %T", v)
		}
		w.Vector4(vec)
	case schema.TypeQuaternion:
		q, ok := v.(wire.Quaternion)
		if !ok {
			return fmt.Errorf("message: expected wire.Quaternion, got %T", v)
		}
		w.Quaternion(q)
	case schema.TypeRGBA:
		c, ok := v.(wire.RGBA)
		if !ok {
			return fmt.Errorf("message: expected wire.RGBA, got %T", v)
		}
		w.RGBA(c)
	case schema.TypeUUID:
		u, ok := v.(wire.UUID)
		if !ok {
			return fmt.Errorf("message: expected wire.UUID, got %T", v)
		}
		w.UUID(u)
	case schema.TypeIPv4:
		ip, ok := v.(net.IP)
		if !ok {
			return fmt.Errorf("message: expected net.IP, got %T", v)
		}
		w.IPv4(ip)
	case schema.TypePortBE:
		u, err := asUint16(v)
		if err != nil {
			return err
		}
		w.PortBE(u)
	case schema.TypePortLE:
		u, err := asUint16(v)
		if err != nil {
			return err
		}
		w.PortLE(u)
	case schema.TypeFixedBytes:
		b, _ := v.([]byte)
		if len(b) != f.FixedLen {
			return fmt.Errorf("%w: fixed field expects %d bytes, got %d", wire.ErrFieldTooLarge, f.FixedLen, len(b))
		}
		w.FixedBytes(b)
	case schema.TypeVarBytes1:
		b, _ := v.([]byte)
		return w.VarBytes(1, b)
	case schema.TypeVarBytes2:
		b, _ := v.([]byte)
		return w.VarBytes(2, b)
	case schema.TypeLatinString1:
		s, _ := v.(string)
		return w.LatinString(1, s)
	case schema.TypeLatinString2:
		s, _ := v.(string)
		return w.LatinString(2, s)
	default:
		return fmt.Errorf("message: unknown field type %v", f.Type)
	}
	return nil
}

func asUint8(v interface{}) (uint8, error) {
	u, ok := v.(uint8)
	if !ok {
		return 0, fmt.Errorf("message: expected uint8, got %T", v)
	}
	return u, nil
}

func asUint16(v interface{}) (uint16, error) {
	u, ok := v.(uint16)
	if !ok {
		return 0, fmt.Errorf("message: expected uint16, got %T", v)
	}
	return u, nil
}

func asUint32(v interface{}) (uint32, error) {
	u, ok := v.(uint32)
	if !ok {
		return 0, fmt.Errorf("message: expected uint32, got %T", v)
	}
	return u, nil
}

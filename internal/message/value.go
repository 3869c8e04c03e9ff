// Package message implements the typed message (de)serializer (spec.md
// §4.3): building a typed message value from a byte payload using a
// schema, and the mirror-image encode.
package message

import "github.com/example/viewer-circuit/internal/schema"

// Block is a single block's field values, keyed by field name —
// spec.md §3's "single blocks are key->value maps."
type Block map[string]interface{}

// Message is a typed value matching a Schema: one Block per Single
// block, and an ordered slice of Blocks for FixedCount/Variable ones
// ("multi-count blocks are ordered sequences of such maps").
type Message struct {
	Schema *schema.Schema
	// Blocks maps a block name to either a Block (Single) or a
	// []Block (FixedCount/Variable).
	Blocks map[string]interface{}
}

// New returns an empty Message bound to s, with every declared block
// pre-populated (an empty Block for Single, an empty slice otherwise)
// so callers can fill fields without worrying about nil maps.
func New(s *schema.Schema) *Message {
	m := &Message{Schema: s, Blocks: make(map[string]interface{}, len(s.Blocks))}
	for _, b := range s.Blocks {
		switch b.Cardinality {
		case schema.Single:
			m.Blocks[b.Name] = Block{}
		default:
			m.Blocks[b.Name] = []Block{}
		}
	}
	return m
}

// Single returns the named Single block, or an empty Block if absent.
func (m *Message) Single(name string) Block {
	if v, ok := m.Blocks[name].(Block); ok {
		return v
	}
	return Block{}
}

// Repeated returns the named FixedCount/Variable block's entries.
func (m *Message) Repeated(name string) []Block {
	if v, ok := m.Blocks[name].([]Block); ok {
		return v
	}
	return nil
}

// SetSingle replaces the named Single block.
func (m *Message) SetSingle(name string, b Block) {
	if m.Blocks == nil {
		m.Blocks = make(map[string]interface{})
	}
	m.Blocks[name] = b
}

// AppendRepeated appends one entry to the named FixedCount/Variable
// block.
func (m *Message) AppendRepeated(name string, b Block) {
	m.Blocks[name] = append(m.Repeated(name), b)
}

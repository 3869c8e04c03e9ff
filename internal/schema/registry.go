package schema

import "fmt"

// Registry resolves schemas by name (for application code building a
// message to send) or by wire ID (for the dispatcher decoding an
// inbound packet). Per spec.md's design notes, a process-wide registry
// needs no locking once populated at startup, since registration never
// happens concurrently with lookup in this module's usage — but the
// type itself carries no hidden global state, so tests and alternate
// catalogues can build their own Registry instead of sharing Global.
type Registry struct {
	byName   map[string]*Schema
	byWireID map[wireKey]*Schema
}

type wireKey struct {
	freq Frequency
	id   uint32
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:   make(map[string]*Schema),
		byWireID: make(map[wireKey]*Schema),
	}
}

// Register adds s to the registry. It is a programmer error — and
// therefore fails loudly — for two schemas to share a name or a
// (frequency, id) pair.
func (r *Registry) Register(s *Schema) error {
	if _, exists := r.byName[s.Name]; exists {
		return fmt.Errorf("schema: duplicate message name %q", s.Name)
	}
	key := wireKey{freq: s.Frequency, id: s.ID}
	if existing, exists := r.byWireID[key]; exists {
		return fmt.Errorf("schema: wire ID collision between %q and %q (%s/%d)", existing.Name, s.Name, s.Frequency, s.ID)
	}
	r.byName[s.Name] = s
	r.byWireID[key] = s
	return nil
}

// MustRegister panics on error, for use in init() where a schema
// collision can only be a build-time programmer mistake.
func (r *Registry) MustRegister(s *Schema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// ByName looks up a schema by its declared name.
func (r *Registry) ByName(name string) (*Schema, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// ByWireID looks up a schema by its frequency class and numeric ID.
func (r *Registry) ByWireID(freq Frequency, id uint32) (*Schema, bool) {
	s, ok := r.byWireID[wireKey{freq: freq, id: id}]
	return s, ok
}

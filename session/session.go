// Package session is the client-facing façade (spec.md §2's C7): it
// holds the fields handed back by login, owns exactly one Circuit, and
// turns domain verbs (chat, instant message, teleport, logout) into
// schema messages sent over that circuit.
package session

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/example/viewer-circuit/internal/circuit"
	"github.com/example/viewer-circuit/internal/config"
	"github.com/example/viewer-circuit/internal/logctx"
	"github.com/example/viewer-circuit/internal/message"
	"github.com/example/viewer-circuit/internal/region"
	"github.com/example/viewer-circuit/internal/schema"
	"github.com/example/viewer-circuit/internal/wire"
	"github.com/example/viewer-circuit/login"
)

// AgentState mirrors what the client believes about its own avatar —
// the fields a real viewer's HUD reads (position/health/armour,
// following the teacher's Player struct's shape, re-targeted from
// server-authoritative to client-side-mirrored). Only SetPosition
// updates it; no inbound message changes it.
type AgentState struct {
	Position wire.Vector3
	Health   float32
	Armour   float32
}

// Session is one logged-in agent's view of the world: its identity,
// its circuit, and its believed state.
type Session struct {
	Token login.Token

	circuit *circuit.Circuit

	mu    sync.RWMutex
	state AgentState
}

// Open validates tok and opens a Circuit to its simulator endpoint,
// which sends UseCircuitCode. The circuit advances the handshake to
// Landed itself as inbound packets arrive, so callers must call
// circuit.Run() (exposed via Listen) in their own goroutine.
func Open(tok login.Token, cfg config.Config) (*Session, error) {
	if err := tok.Validate(); err != nil {
		return nil, err
	}

	c := circuit.New(cfg)
	if err := c.Open(tok.Endpoint(), tok.AgentID, tok.SessionID, tok.CircuitCode); err != nil {
		return nil, fmt.Errorf("session: open circuit: %w", err)
	}

	s := &Session{
		Token:   tok,
		circuit: c,
		state: AgentState{
			Health: 100,
		},
	}
	return s, nil
}

// Listen runs the circuit's receive loop; blocks until the circuit closes.
func (s *Session) Listen() { s.circuit.Run() }

// Errors exposes the circuit's async error channel (ReliableTimeout,
// HandshakeTimeout).
func (s *Session) Errors() <-chan error { return s.circuit.Errors() }

// State returns a copy of what the client currently believes about its
// own avatar.
func (s *Session) State() AgentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetPosition updates the locally-believed position and pushes it into
// the circuit's keep-alive AgentUpdate camera state.
func (s *Session) SetPosition(pos wire.Vector3) {
	s.mu.Lock()
	s.state.Position = pos
	s.mu.Unlock()

	s.circuit.SetCamera(circuit.AgentCamera{CameraCenter: pos, Far: 64}, 0)
}

// SendChat sends a public chat message on the given channel.
func (s *Session) SendChat(text string, channel int32, chatType uint8) error {
	msg := message.New(mustSchema("ChatFromViewer"))
	msg.SetSingle("AgentData", message.Block{
		"AgentID":   s.Token.AgentID,
		"SessionID": s.Token.SessionID,
	})
	msg.SetSingle("ChatData", message.Block{
		"Message": text,
		"Type":    chatType,
		"Channel": channel,
	})
	_, err := s.circuit.Send(msg, circuit.Reliable)
	if err != nil {
		return fmt.Errorf("session: send chat: %w", err)
	}
	return nil
}

// SendIM sends an instant message to toAgent.
func (s *Session) SendIM(toAgent wire.UUID, text string, dialog message.IMDialogType) error {
	msg := message.New(mustSchema("ImprovedInstantMessage"))
	msg.SetSingle("AgentData", message.Block{
		"AgentID":   s.Token.AgentID,
		"SessionID": s.Token.SessionID,
	})
	msg.SetSingle("MessageBlock", message.Block{
		"FromGroup":      false,
		"ToAgentID":      toAgent,
		"ParentEstateID": uint32(0),
		"RegionID":       wire.NilUUID,
		"Position":       s.State().Position,
		"Dialog":         uint8(dialog),
		"FromAgentName":  s.Token.AgentID.String(),
		"Message":        text,
		"BinaryBucket":   []byte{},
	})
	_, err := s.circuit.Send(msg, circuit.Reliable)
	if err != nil {
		return fmt.Errorf("session: send IM: %w", err)
	}
	return nil
}

// Teleport sends a TeleportLocationRequest for the given region handle,
// position and look-at, built from a parsed uri:Name&X&Y&Z start
// location or a live command.
func (s *Session) Teleport(gridX, gridY uint32, pos, lookAt wire.Vector3) error {
	msg := message.New(mustSchema("TeleportLocationRequest"))
	msg.SetSingle("AgentData", message.Block{
		"AgentID":   s.Token.AgentID,
		"SessionID": s.Token.SessionID,
	})
	msg.SetSingle("Info", message.Block{
		"RegionHandle": region.Pack(gridX, gridY),
		"Position":     pos,
		"LookAt":       lookAt,
	})
	_, err := s.circuit.Send(msg, circuit.Reliable)
	if err != nil {
		return fmt.Errorf("session: send teleport: %w", err)
	}
	return nil
}

// Logout ends the session cleanly.
func (s *Session) Logout() error {
	logctx.Log.Infof("session: logging out agent %s", s.Token.AgentID)
	return s.circuit.Logout()
}

// Subscribe registers a callback for inbound messages named name,
// passed through to the underlying circuit.
func (s *Session) Subscribe(name string, cb func(*message.Message)) {
	s.circuit.Subscribe(name, cb)
}

// Collectors exposes the underlying circuit's Prometheus instrumentation
// for registration with a prometheus.Registerer.
func (s *Session) Collectors() []prometheus.Collector {
	return s.circuit.Collectors()
}

// IncomingChat is a ChatFromSimulator message decoded into Go-native
// types, including the message's ChatSourceType enum.
type IncomingChat struct {
	FromName string
	Text     string
	Source   message.ChatSourceType
}

// OnChat subscribes cb to ChatFromSimulator, decoding the raw blocks
// into an IncomingChat for the caller.
func (s *Session) OnChat(cb func(IncomingChat)) {
	s.Subscribe("ChatFromSimulator", func(m *message.Message) {
		data := m.Single("ChatData")
		name, _ := data["FromName"].(string)
		text, _ := data["Message"].(string)
		source, _ := data["SourceType"].(uint8)
		cb(IncomingChat{FromName: name, Text: text, Source: message.ChatSourceType(source)})
	})
}

func mustSchema(name string) *schema.Schema {
	sch, ok := schema.Global.ByName(name)
	if !ok {
		panic("session: schema " + name + " not registered")
	}
	return sch
}

// Package circuit implements the Circuit state machine (spec.md
// §4.6): the owner of a circuit's UDP socket, sequence counter,
// pending-ACK queue, reliable-send retransmit table, handshake state
// machine, ping responder, keep-alive cadence, and dispatch of
// received messages to subscribers.
package circuit

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/example/viewer-circuit/internal/config"
	"github.com/example/viewer-circuit/internal/framer"
	"github.com/example/viewer-circuit/internal/logctx"
	"github.com/example/viewer-circuit/internal/message"
	"github.com/example/viewer-circuit/internal/schema"
	"github.com/example/viewer-circuit/internal/wire"
	"github.com/example/viewer-circuit/internal/zerocode"
)

// unackedEntry is a reliable packet awaiting acknowledgement.
type unackedEntry struct {
	packet    *framer.Packet
	msgName   string
	firstSent time.Time
	lastSent  time.Time
	attempts  int
}

// Circuit owns one UDP socket and the full reliability/handshake state
// for a single simulator connection.
type Circuit struct {
	cfg config.Config
	id  string

	conn     *net.UDPConn
	endpoint *net.UDPAddr

	agentID     wire.UUID
	sessionID   wire.UUID
	circuitCode uint32

	mu              sync.Mutex
	nextSequence    uint32
	pendingAcks     []uint32
	unacked         map[uint32]*unackedEntry
	handshakeState  HandshakeState
	connected       bool
	currentRegion   string
	lastAgentUpdate time.Time
	lastAckFlush    time.Time
	handshakeStart  time.Time
	useCircuitSeq   uint32

	subMu       sync.RWMutex
	subscribers map[string][]func(*message.Message)

	controlFlags uint32
	camera       AgentCamera

	closeOnce      sync.Once
	stopCh         chan struct{}
	closeCircuitCh chan struct{}

	metrics *metrics
	dedup   *dedupWindow
	errCh   chan error
}

// AgentCamera is the subset of AgentUpdate's fields the keep-alive
// timer resends every tick; the Session façade mutates it directly.
type AgentCamera struct {
	BodyRotation, HeadRotation        wire.Quaternion
	CameraCenter                      wire.Vector3
	CameraAtAxis, CameraLeftAxis      wire.Vector3
	CameraUpAxis                      wire.Vector3
	Far                               float32
	State                             uint8
}

// New constructs an unopened Circuit. Open must be called before Send.
func New(cfg config.Config) *Circuit {
	return &Circuit{
		cfg:            cfg,
		unacked:        make(map[uint32]*unackedEntry),
		subscribers:    make(map[string][]func(*message.Message)),
		stopCh:         make(chan struct{}),
		closeCircuitCh: make(chan struct{}, 1),
		dedup:          newDedupWindow(256),
		errCh:          make(chan error, 16),
	}
}

// Errors returns a channel carrying ReliableTimeout and
// HandshakeTimeout reports; the owner should drain it, not block on it.
func (c *Circuit) Errors() <-chan error { return c.errCh }

func (c *Circuit) reportError(err error) {
	select {
	case c.errCh <- err:
	default:
		logctx.Log.Warningf("circuit %s: error channel full, dropping %v", c.id, err)
	}
}

// Open binds the UDP socket, records identity, sends the initial
// UseCircuitCode and enters Connecting.
func (c *Circuit) Open(endpoint *net.UDPAddr, agentID, sessionID wire.UUID, circuitCode uint32) error {
	conn, err := net.DialUDP("udp", nil, endpoint)
	if err != nil {
		return fmt.Errorf("circuit: dial %s: %w", endpoint, err)
	}
	tuneSocketBuffers(conn, 256*1024)

	c.mu.Lock()
	c.conn = conn
	c.endpoint = endpoint
	c.agentID = agentID
	c.sessionID = sessionID
	c.circuitCode = circuitCode
	c.nextSequence = 1
	c.handshakeState = Connecting
	c.connected = true
	c.handshakeStart = time.Now()
	c.lastAgentUpdate = time.Now()
	c.lastAckFlush = time.Now()
	c.mu.Unlock()

	c.id = newCorrelationID()
	c.metrics = newMetrics(c.id)

	useCircuit := message.New(mustSchema("UseCircuitCode"))
	useCircuit.SetSingle("CircuitCode", message.Block{
		"Code":      circuitCode,
		"SessionID": sessionID,
		"ID":        agentID,
	})
	seq, err := c.send(useCircuit, Reliable)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.useCircuitSeq = seq
	c.mu.Unlock()

	logctx.Log.Infof("circuit %s: opened to %s, UseCircuitCode sent seq=%d", c.id, endpoint, seq)
	return nil
}

// Subscribe registers a callback invoked on the receive goroutine for
// every inbound message named name. Callbacks must not block.
func (c *Circuit) Subscribe(name string, cb func(*message.Message)) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.subscribers[name] = append(c.subscribers[name], cb)
}

// Send enqueues msg for transmission and returns the sequence it was
// assigned.
func (c *Circuit) Send(msg *message.Message, r Reliability) (uint32, error) {
	c.mu.Lock()
	closed := !c.connected
	c.mu.Unlock()
	if closed {
		return 0, ErrCircuitClosed
	}
	return c.send(msg, r)
}

// send is the unlocked-at-I/O-time implementation shared by Open and
// Send: spec.md §4.6's six-step outbound assembly.
func (c *Circuit) send(msg *message.Message, r Reliability) (uint32, error) {
	body, err := message.Encode(msg)
	if err != nil {
		return 0, fmt.Errorf("circuit: encode %s: %w", msg.Schema.Name, err)
	}

	idw := wire.NewWriter(schema.IDByteLen)
	if err := schema.EncodeMessageID(idw, msg.Schema.Frequency, msg.Schema.ID); err != nil {
		return 0, err
	}
	full := append(idw.Bytes(), body...)

	var flags uint8
	if msg.Schema.ZeroCoded {
		if coded, ok := zerocode.EncodeIfShorter(full); ok {
			full = coded
			flags |= framer.FlagZeroCoded
		}
	}

	c.mu.Lock()
	seq := c.nextSequence
	c.nextSequence++

	var acks []uint32
	if len(c.pendingAcks) > 0 {
		n := len(c.pendingAcks)
		if n > 255 {
			n = 255
		}
		acks = append(acks, c.pendingAcks[:n]...)
		c.pendingAcks = c.pendingAcks[n:]
		flags |= framer.FlagAcks
		c.lastAckFlush = time.Now()
	}

	if r == Reliable {
		flags |= framer.FlagReliable
	}

	pkt := &framer.Packet{Flags: flags, Sequence: seq, Body: full, Acks: acks}

	if r == Reliable {
		c.unacked[seq] = &unackedEntry{
			packet:    pkt,
			msgName:   msg.Schema.Name,
			firstSent: time.Now(),
			lastSent:  time.Now(),
			attempts:  1,
		}
	}
	conn := c.conn
	c.mu.Unlock()

	raw, err := pkt.Encode()
	if err != nil {
		return 0, fmt.Errorf("circuit: frame %s: %w", msg.Schema.Name, err)
	}
	if _, err := conn.Write(raw); err != nil {
		return 0, fmt.Errorf("circuit: write %s: %w", msg.Schema.Name, err)
	}
	if c.metrics != nil {
		c.metrics.packetsSent.Inc()
	}
	return seq, nil
}

// Logout sends LogoutRequest and waits briefly for its ACK or a
// CloseCircuit from the peer, then closes the socket.
func (c *Circuit) Logout() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	logout := message.New(mustSchema("LogoutRequest"))
	logout.SetSingle("AgentData", message.Block{
		"AgentID":   c.agentID,
		"SessionID": c.sessionID,
	})
	seq, err := c.send(logout, Reliable)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(c.cfg.LogoutTimeout)
wait:
	for time.Now().Before(deadline) {
		c.mu.Lock()
		_, stillUnacked := c.unacked[seq]
		c.mu.Unlock()
		if !stillUnacked {
			break
		}
		select {
		case <-c.closeCircuitCh:
			break wait
		case <-time.After(20 * time.Millisecond):
		}
	}

	c.closeSocket()
	return nil
}

// Close tears the circuit down immediately without sending
// LogoutRequest — used on HandshakeTimeout or local failure.
func (c *Circuit) Close() {
	c.closeSocket()
}

func (c *Circuit) closeSocket() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.connected = false
		conn := c.conn
		c.mu.Unlock()
		close(c.stopCh)
		if conn != nil {
			conn.Close()
		}
		logctx.Log.Infof("circuit %s: closed", c.id)
	})
}

// LocalAddr returns the circuit's local UDP endpoint, useful for
// logging and for tests that need to address datagrams back at it.
func (c *Circuit) LocalAddr() net.Addr {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.LocalAddr()
}

// State returns the current handshake state.
func (c *Circuit) State() HandshakeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handshakeState
}

// RegionName returns the name recorded from RegionHandshake, or "" if
// not yet landed.
func (c *Circuit) RegionName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRegion
}

func mustSchema(name string) *schema.Schema {
	s, ok := schema.Global.ByName(name)
	if !ok {
		panic("circuit: schema " + name + " not registered")
	}
	return s
}

package circuit

import (
	"errors"
	"net"
	"time"

	"github.com/example/viewer-circuit/internal/framer"
	"github.com/example/viewer-circuit/internal/logctx"
	"github.com/example/viewer-circuit/internal/message"
	"github.com/example/viewer-circuit/internal/schema"
	"github.com/example/viewer-circuit/internal/zerocode"
)

// Run is the single receive loop for this circuit: a 1 s-timeout
// blocking read that, on timeout, drives the timer wheel, and on a
// datagram, parses and dispatches it. It returns once the circuit is
// closed. Callers should run it in its own goroutine.
func (c *Circuit) Run() {
	buf := make([]byte, 8192)
	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		conn.SetReadDeadline(time.Now().Add(c.cfg.ReceiveTimeout))
		n, err := conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				c.runTimers()
				continue
			}
			select {
			case <-c.stopCh:
				return
			default:
			}
			logctx.Log.Warningf("circuit %s: read error: %v", c.id, err)
			return
		}

		raw := make([]byte, n)
		copy(raw, buf[:n])
		c.processInbound(raw)
	}
}

func (c *Circuit) processInbound(raw []byte) {
	if c.metrics != nil {
		c.metrics.packetsRecv.Inc()
	}

	pkt, err := framer.Decode(raw)
	if err != nil {
		logctx.Log.Debugf("circuit %s: malformed datagram: %v\n% X", c.id, err, raw)
		return
	}

	body := pkt.Body
	if pkt.HasFlag(framer.FlagZeroCoded) {
		body, err = zerocode.Decode(body)
		if err != nil {
			logctx.Log.Debugf("circuit %s: zero-code decode: %v\n% X", c.id, err, raw)
			return
		}
	}

	freq, id, consumed, err := schema.DecodeMessageID(body)
	if err != nil {
		logctx.Log.Debugf("circuit %s: message ID: %v\n% X", c.id, err, raw)
		return
	}
	s, ok := schema.Global.ByWireID(freq, id)
	if !ok {
		logctx.Log.Debugf("circuit %s: %v: freq=%v id=%d", c.id, ErrUnknownMessage, freq, id)
		return
	}

	m, err := message.Decode(s, body[consumed:])
	if err != nil {
		logctx.Log.Debugf("circuit %s: decode %s: %v\n% X", c.id, s.Name, err, raw)
		return
	}

	c.processAcks(pkt)
	if s.Name == "PacketAck" {
		c.processPacketAckMessage(m)
	}

	if pkt.HasFlag(framer.FlagReliable) {
		c.mu.Lock()
		c.pendingAcks = append(c.pendingAcks, pkt.Sequence)
		c.mu.Unlock()
	}

	// A resent reliable packet still needs its own ACK (the peer may
	// never have seen ours for the first delivery), but must not reach
	// the handshake switch or subscribers twice.
	if c.dedup.Seen(pkt.Sequence) {
		return
	}

	switch s.Name {
	case "StartPingCheck":
		c.handlePing(m)
	case "RegionHandshake":
		c.onRegionHandshake(m)
	case "CloseCircuit":
		select {
		case c.closeCircuitCh <- struct{}{}:
		default:
		}
	}

	c.dispatch(s.Name, m)
}

// processAcks removes every acknowledged sequence from unacked,
// regardless of whether it arrived via the packet's own trailing ACK
// list or an explicit PacketAck message (spec.md §4.6: "processed
// identically").
func (c *Circuit) processAcks(pkt *framer.Packet) {
	if !pkt.HasFlag(framer.FlagAcks) {
		return
	}
	c.ackSequences(pkt.Acks)
}

func (c *Circuit) processPacketAckMessage(m *message.Message) {
	entries := m.Repeated("Packets")
	seqs := make([]uint32, 0, len(entries))
	for _, e := range entries {
		if id, ok := e["ID"].(uint32); ok {
			seqs = append(seqs, id)
		}
	}
	c.ackSequences(seqs)
}

func (c *Circuit) ackSequences(seqs []uint32) {
	var sawUseCircuit bool
	c.mu.Lock()
	for _, seq := range seqs {
		entry, ok := c.unacked[seq]
		if !ok {
			continue
		}
		delete(c.unacked, seq)
		if seq == c.useCircuitSeq {
			sawUseCircuit = true
		}
		if c.metrics != nil {
			c.metrics.acked.Inc()
			c.metrics.rtt.Observe(time.Since(entry.firstSent).Seconds())
		}
	}
	c.mu.Unlock()

	if sawUseCircuit {
		c.onUseCircuitAcked()
	}
}

// handlePing replies to StartPingCheck with CompletePingCheck carrying
// the same PingID, unreliable (spec.md §4.6).
func (c *Circuit) handlePing(m *message.Message) {
	pingID, _ := m.Single("PingID")["PingID"].(uint8)
	reply := message.New(mustSchema("CompletePingCheck"))
	reply.SetSingle("PingID", message.Block{"PingID": pingID})
	if _, err := c.send(reply, Unreliable); err != nil {
		logctx.Log.Warningf("circuit %s: send CompletePingCheck: %v", c.id, err)
	}
}

func (c *Circuit) dispatch(name string, m *message.Message) {
	c.subMu.RLock()
	cbs := c.subscribers[name]
	c.subMu.RUnlock()
	for _, cb := range cbs {
		cb(m)
	}
}

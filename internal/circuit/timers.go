package circuit

import (
	"time"

	"github.com/example/viewer-circuit/internal/framer"
	"github.com/example/viewer-circuit/internal/message"
)

// runTimers executes every timer the receive loop drives on its 1 s
// read timeout (spec.md §4.6): reliable retransmits, ACK flushing,
// the keep-alive/handshake-poke AgentUpdate, and the handshake
// deadline.
func (c *Circuit) runTimers() {
	c.checkHandshakeTimeout()
	c.retransmitUnacked()
	c.flushPendingAcks()
	c.sendKeepAlive()
}

func (c *Circuit) checkHandshakeTimeout() {
	c.mu.Lock()
	landed := c.handshakeState == Landed
	expired := !landed && time.Since(c.handshakeStart) >= c.cfg.HandshakeTimeout
	c.mu.Unlock()
	if expired {
		c.reportError(ErrHandshakeTimeout)
		c.closeSocket()
	}
}

// retransmitUnacked resends any reliable packet unacked for longer
// than RetransmitInterval, reusing its original sequence and setting
// the S flag, and abandons packets past the retry budget.
func (c *Circuit) retransmitUnacked() {
	now := time.Now()

	c.mu.Lock()
	var toResend []*unackedEntry
	var toAbandon []uint32
	for seq, entry := range c.unacked {
		if now.Sub(entry.lastSent) < c.cfg.RetransmitInterval {
			continue
		}
		if entry.attempts >= c.cfg.MaxRetransmitAttempts || now.Sub(entry.firstSent) >= c.cfg.MaxRetransmitWindow {
			toAbandon = append(toAbandon, seq)
			continue
		}
		entry.attempts++
		entry.lastSent = now
		toResend = append(toResend, entry)
	}
	for _, seq := range toAbandon {
		delete(c.unacked, seq)
	}
	conn := c.conn
	c.mu.Unlock()

	for _, seq := range toAbandon {
		if c.metrics != nil {
			c.metrics.reliableTimeout.Inc()
		}
		c.reportError(ErrReliableTimeout)
		_ = seq
	}

	for _, entry := range toResend {
		entry.packet.Flags |= framer.FlagResent
		raw, err := entry.packet.Encode()
		if err != nil {
			continue
		}
		if conn != nil {
			conn.Write(raw)
		}
		if c.metrics != nil {
			c.metrics.retransmits.Inc()
		}
	}
}

// flushPendingAcks sends a dedicated PacketAck when pending_acks has
// sat unflushed for AckFlushInterval.
func (c *Circuit) flushPendingAcks() {
	c.mu.Lock()
	due := len(c.pendingAcks) > 0 && time.Since(c.lastAckFlush) >= c.cfg.AckFlushInterval
	var batch []uint32
	if due {
		n := len(c.pendingAcks)
		if n > 255 {
			n = 255
		}
		batch = append(batch, c.pendingAcks[:n]...)
		c.pendingAcks = c.pendingAcks[n:]
		c.lastAckFlush = time.Now()
	}
	c.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	ack := message.New(mustSchema("PacketAck"))
	for _, seq := range batch {
		ack.AppendRepeated("Packets", message.Block{"ID": seq})
	}
	c.send(ack, Unreliable)
}

// sendKeepAlive sends AgentUpdate at the configured cadence, both as
// the post-Landed keep-alive and the pre-Landed handshake "poke".
func (c *Circuit) sendKeepAlive() {
	c.mu.Lock()
	due := time.Since(c.lastAgentUpdate) >= c.cfg.AgentUpdateInterval
	if due {
		c.lastAgentUpdate = time.Now()
	}
	camera := c.camera
	controlFlags := c.controlFlags
	if due {
		// Control-once bits (e.g. a single jump or sit toggle) apply to
		// exactly one AgentUpdate; a caller that wants them held down
		// must call SetCamera again before the next tick.
		c.controlFlags = 0
	}
	c.mu.Unlock()
	if !due {
		return
	}

	update := message.New(mustSchema("AgentUpdate"))
	update.SetSingle("AgentData", message.Block{
		"AgentID":        c.agentID,
		"SessionID":      c.sessionID,
		"BodyRotation":   camera.BodyRotation,
		"HeadRotation":   camera.HeadRotation,
		"State":          camera.State,
		"CameraCenter":   camera.CameraCenter,
		"CameraAtAxis":   camera.CameraAtAxis,
		"CameraLeftAxis": camera.CameraLeftAxis,
		"CameraUpAxis":   camera.CameraUpAxis,
		"Far":            camera.Far,
		"ControlFlags":   controlFlags,
		"Flags":          uint8(0),
	})
	c.send(update, Unreliable)
}

// SetCamera updates the camera/control state the keep-alive timer
// sends, called by the Session façade in response to local input.
func (c *Circuit) SetCamera(cam AgentCamera, controlFlags uint32) {
	c.mu.Lock()
	c.camera = cam
	c.controlFlags = controlFlags
	c.mu.Unlock()
}

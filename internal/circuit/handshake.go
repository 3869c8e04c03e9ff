package circuit

import (
	"github.com/example/viewer-circuit/internal/logctx"
	"github.com/example/viewer-circuit/internal/message"
)

// onUseCircuitAcked fires when an ACK from the peer removes the initial
// UseCircuitCode's sequence from unacked. It advances Connecting to
// CircuitOpened and immediately sends CompleteAgentMovement. A
// RegionHandshake that arrives first settles UseCircuitCode in
// onRegionHandshake instead and does not call this.
func (c *Circuit) onUseCircuitAcked() {
	c.mu.Lock()
	if c.handshakeState != Connecting {
		c.mu.Unlock()
		return
	}
	c.handshakeState = CircuitOpened
	c.mu.Unlock()

	cam := message.New(mustSchema("CompleteAgentMovement"))
	cam.SetSingle("AgentData", message.Block{
		"AgentID":     c.agentID,
		"SessionID":   c.sessionID,
		"CircuitCode": c.circuitCode,
	})
	if _, err := c.send(cam, Reliable); err != nil {
		logctx.Log.Warningf("circuit %s: send CompleteAgentMovement: %v", c.id, err)
		return
	}

	c.mu.Lock()
	c.handshakeState = MovementSent
	c.mu.Unlock()
}

// onRegionHandshake implements the RegionHandshake branch common to
// both Connecting and MovementSent in spec.md §4.6's handshake
// diagram: record the region name, treat UseCircuitCode as settled,
// reply, push view throttles, and land.
func (c *Circuit) onRegionHandshake(m *message.Message) {
	regionInfo := m.Single("RegionInfo")
	name, _ := regionInfo["SimName"].(string)

	c.mu.Lock()
	c.currentRegion = name
	delete(c.unacked, c.useCircuitSeq)
	alreadyLanded := c.handshakeState == Landed
	c.mu.Unlock()

	if alreadyLanded {
		return
	}

	reply := message.New(mustSchema("RegionHandshakeReply"))
	reply.SetSingle("AgentData", message.Block{
		"AgentID":   c.agentID,
		"SessionID": c.sessionID,
	})
	reply.SetSingle("RegionInfo", message.Block{"Flags": uint32(0)})
	if _, err := c.send(reply, Reliable); err != nil {
		logctx.Log.Warningf("circuit %s: send RegionHandshakeReply: %v", c.id, err)
	}

	c.sendThrottleBundle()

	c.mu.Lock()
	c.handshakeState = Landed
	c.mu.Unlock()

	logctx.Log.Infof("circuit %s: landed in region %q", c.id, name)
}

// sendThrottleBundle sends the AgentThrottle/AgentFOV/AgentHeightWidth
// trio spec.md §4.6 requires once on entering Landed.
func (c *Circuit) sendThrottleBundle() {
	throttle := message.New(mustSchema("AgentThrottle"))
	throttle.SetSingle("AgentData", message.Block{
		"AgentID":     c.agentID,
		"SessionID":   c.sessionID,
		"CircuitCode": c.circuitCode,
	})
	throttle.SetSingle("Throttle", message.Block{
		"GenCounter": uint32(0),
		"Throttles":  c.cfg.AgentThrottle.Bytes(),
	})
	if _, err := c.send(throttle, Unreliable); err != nil {
		logctx.Log.Warningf("circuit %s: send AgentThrottle: %v", c.id, err)
	}

	fov := message.New(mustSchema("AgentFOV"))
	fov.SetSingle("AgentData", message.Block{
		"AgentID":     c.agentID,
		"SessionID":   c.sessionID,
		"CircuitCode": c.circuitCode,
	})
	fov.SetSingle("FOVBlock", message.Block{
		"GenCounter":    uint32(0),
		"VerticalAngle": float32(1.04),
	})
	if _, err := c.send(fov, Unreliable); err != nil {
		logctx.Log.Warningf("circuit %s: send AgentFOV: %v", c.id, err)
	}

	hw := message.New(mustSchema("AgentHeightWidth"))
	hw.SetSingle("AgentData", message.Block{
		"AgentID":     c.agentID,
		"SessionID":   c.sessionID,
		"CircuitCode": c.circuitCode,
	})
	hw.SetSingle("HeightWidthBlock", message.Block{
		"GenCounter": uint32(0),
		"Height":     uint16(768),
		"Width":      uint16(1024),
	})
	if _, err := c.send(hw, Unreliable); err != nil {
		logctx.Log.Warningf("circuit %s: send AgentHeightWidth: %v", c.id, err)
	}
}

package circuit

import (
	"net"
	"testing"
	"time"

	"github.com/example/viewer-circuit/internal/config"
	"github.com/example/viewer-circuit/internal/framer"
	"github.com/example/viewer-circuit/internal/message"
	"github.com/example/viewer-circuit/internal/schema"
	"github.com/example/viewer-circuit/internal/wire"
)

// testConfig shrinks every timer interval so retransmit/ACK-flush
// behaviour is observable without a multi-second test.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.RetransmitInterval = 30 * time.Millisecond
	cfg.MaxRetransmitAttempts = 3
	cfg.MaxRetransmitWindow = 200 * time.Millisecond
	cfg.AckFlushInterval = 30 * time.Millisecond
	cfg.AgentUpdateInterval = 50 * time.Millisecond
	cfg.HandshakeTimeout = 300 * time.Millisecond
	cfg.ReceiveTimeout = 20 * time.Millisecond
	return cfg
}

// newLoopbackPeer opens a UDP socket the test can use to stand in for
// the simulator, returning the peer conn and its address.
func newLoopbackPeer(t *testing.T) (*net.UDPConn, *net.UDPAddr) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, conn.LocalAddr().(*net.UDPAddr)
}

func readPacket(t *testing.T, conn *net.UDPConn) *framer.Packet {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 8192)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	pkt, err := framer.Decode(buf[:n])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return pkt
}

func openTestCircuit(t *testing.T) (*Circuit, *net.UDPConn) {
	t.Helper()
	peer, peerAddr := newLoopbackPeer(t)
	c := New(testConfig())
	if err := c.Open(peerAddr, wire.UUID{1}, wire.UUID{2}, 42); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(c.Close)
	return c, peer
}

func TestOpenSendsUseCircuitCodeReliable(t *testing.T) {
	c, peer := openTestCircuit(t)

	pkt := readPacket(t, peer)
	if !pkt.HasFlag(framer.FlagReliable) {
		t.Fatalf("UseCircuitCode not marked reliable")
	}
	if pkt.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", pkt.Sequence)
	}
	if c.State() != Connecting {
		t.Errorf("state = %v, want Connecting", c.State())
	}
}

func TestAckRemovesFromUnackedAndAdvancesHandshake(t *testing.T) {
	c, peer := openTestCircuit(t)
	pkt := readPacket(t, peer)

	pong := message.New(mustSchema("CompletePingCheck"))
	pong.SetSingle("PingID", message.Block{"PingID": uint8(0)})
	pongBody, err := message.Encode(pong)
	if err != nil {
		t.Fatalf("encode pong body: %v", err)
	}
	idw := wire.NewWriter(schema.IDByteLen)
	schema.EncodeMessageID(idw, schema.Low, 2)
	full := append(idw.Bytes(), pongBody...)

	ackFrame := &framer.Packet{Flags: framer.FlagAcks, Sequence: 999, Body: full, Acks: []uint32{pkt.Sequence}}
	raw, err := ackFrame.Encode()
	if err != nil {
		t.Fatalf("encode ack frame: %v", err)
	}
	if _, err := peer.WriteToUDP(raw, c.conn.LocalAddr().(*net.UDPAddr)); err != nil {
		t.Fatalf("write ack: %v", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 8192)
	n, err := c.conn.Read(buf)
	if err != nil {
		t.Fatalf("circuit did not receive ack: %v", err)
	}
	c.processInbound(buf[:n])

	if c.State() != MovementSent {
		t.Fatalf("state = %v, want MovementSent after UseCircuitCode ACK", c.State())
	}
}

func TestRetransmitReusesSequenceAndSetsResent(t *testing.T) {
	c, peer := openTestCircuit(t)
	first := readPacket(t, peer)

	c.runTimers()
	time.Sleep(50 * time.Millisecond)
	c.runTimers()

	resent := readPacket(t, peer)
	if resent.Sequence != first.Sequence {
		t.Errorf("resent sequence = %d, want %d", resent.Sequence, first.Sequence)
	}
	if !resent.HasFlag(framer.FlagResent) {
		t.Errorf("resent packet missing S flag")
	}
}

func TestAbandonAfterMaxAttemptsReportsError(t *testing.T) {
	c, peer := openTestCircuit(t)
	readPacket(t, peer) // initial UseCircuitCode

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		c.runTimers()
		// Drain any resend so the socket buffer doesn't fill.
		peer.SetReadDeadline(time.Now().Add(5 * time.Millisecond))
		buf := make([]byte, 4096)
		peer.Read(buf)

		select {
		case err := <-c.Errors():
			if err != ErrReliableTimeout {
				t.Fatalf("got error %v, want ErrReliableTimeout", err)
			}
			return
		default:
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("ErrReliableTimeout never reported")
}

func TestAckFlushSendsPacketAckAfterInterval(t *testing.T) {
	c, _ := openTestCircuit(t)

	c.mu.Lock()
	c.pendingAcks = append(c.pendingAcks, 5, 6, 7)
	c.lastAckFlush = time.Now().Add(-time.Hour)
	c.mu.Unlock()

	c.flushPendingAcks()

	c.mu.Lock()
	remaining := len(c.pendingAcks)
	c.mu.Unlock()
	if remaining != 0 {
		t.Errorf("pendingAcks not drained, %d remain", remaining)
	}
}

func TestPingReplyEchoesPingID(t *testing.T) {
	c, peer := openTestCircuit(t)
	readPacket(t, peer) // drain UseCircuitCode

	ping := message.New(mustSchema("StartPingCheck"))
	ping.SetSingle("PingID", message.Block{"PingID": uint8(7), "OldestUnacked": uint32(0)})
	body, err := message.Encode(ping)
	if err != nil {
		t.Fatalf("encode ping: %v", err)
	}
	idw := wire.NewWriter(schema.IDByteLen)
	schema.EncodeMessageID(idw, schema.Low, 1)
	full := append(idw.Bytes(), body...)
	pkt := &framer.Packet{Sequence: 100, Body: full}
	raw, err := pkt.Encode()
	if err != nil {
		t.Fatalf("encode packet: %v", err)
	}
	if _, err := peer.WriteToUDP(raw, c.conn.LocalAddr().(*net.UDPAddr)); err != nil {
		t.Fatalf("write ping: %v", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(time.Second))
	inbuf := make([]byte, 8192)
	n, err := c.conn.Read(inbuf)
	if err != nil {
		t.Fatalf("circuit did not receive ping: %v", err)
	}
	c.processInbound(inbuf[:n])

	reply := readPacket(t, peer)
	freq, id, consumed, err := schema.DecodeMessageID(reply.Body)
	if err != nil {
		t.Fatalf("decode reply id: %v", err)
	}
	s, ok := schema.Global.ByWireID(freq, id)
	if !ok || s.Name != "CompletePingCheck" {
		t.Fatalf("reply schema = %v, want CompletePingCheck", s)
	}
	m, err := message.Decode(s, reply.Body[consumed:])
	if err != nil {
		t.Fatalf("decode reply body: %v", err)
	}
	if got, _ := m.Single("PingID")["PingID"].(uint8); got != 7 {
		t.Errorf("echoed PingID = %d, want 7", got)
	}
}

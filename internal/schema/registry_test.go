package schema

import (
	"testing"

	"github.com/example/viewer-circuit/internal/wire"
)

func TestGlobalCatalogueResolvesBothDirections(t *testing.T) {
	names := []string{
		"StartPingCheck", "CompletePingCheck", "AgentUpdate", "UseCircuitCode",
		"ChatFromViewer", "AgentThrottle", "AgentFOV", "AgentHeightWidth",
		"ChatFromSimulator", "RegionHandshake", "RegionHandshakeReply",
		"ImprovedInstantMessage", "TeleportFinish", "TeleportLocationRequest",
		"CompleteAgentMovement", "LogoutRequest", "PacketAck", "CloseCircuit",
	}
	for _, name := range names {
		s, ok := Global.ByName(name)
		if !ok {
			t.Fatalf("schema %q missing from Global registry", name)
		}
		byID, ok := Global.ByWireID(s.Frequency, s.ID)
		if !ok || byID.Name != name {
			t.Errorf("ByWireID(%s, %d) did not resolve back to %q (got %v)", s.Frequency, s.ID, name, byID)
		}
	}
}

func TestRegisterDetectsNameCollision(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Schema{Name: "Foo", ID: 1, Frequency: Low})
	if err := r.Register(&Schema{Name: "Foo", ID: 2, Frequency: Low}); err == nil {
		t.Error("expected a name collision error")
	}
}

func TestRegisterDetectsWireIDCollision(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&Schema{Name: "Foo", ID: 1, Frequency: Low})
	if err := r.Register(&Schema{Name: "Bar", ID: 1, Frequency: Low}); err == nil {
		t.Error("expected a wire ID collision error")
	}
}

func TestDecodeMessageIDMatchesCatalogueConstants(t *testing.T) {
	cases := []struct {
		name string
		freq Frequency
		id   uint32
	}{
		{"StartPingCheck", Low, 1},
		{"ChatFromViewer", High, 80},
		{"PacketAck", Fixed, idPacketAck},
		{"CloseCircuit", Fixed, idCloseCircuit},
	}
	for _, c := range cases {
		w := wire.NewWriter(4)
		if err := EncodeMessageID(w, c.freq, c.id); err != nil {
			t.Fatalf("%s: EncodeMessageID: %v", c.name, err)
		}
		freq, id, consumed, err := DecodeMessageID(w.Bytes())
		if err != nil {
			t.Fatalf("%s: DecodeMessageID: %v", c.name, err)
		}
		if freq != c.freq || id != c.id || consumed != IDByteLen {
			t.Errorf("%s: got freq=%v id=%d consumed=%d, want freq=%v id=%d consumed=%d",
				c.name, freq, id, consumed, c.freq, c.id, IDByteLen)
		}
	}
}

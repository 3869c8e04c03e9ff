package framer

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTripNoAcks(t *testing.T) {
	p := &Packet{
		Flags:    0x00,
		Sequence: 0x000000A0,
		Extra:    nil,
		Body:     []byte{0x00, 0x00, 0x00, 0x01, 0x07, 0x00, 0x00, 0x00, 0x00},
	}
	raw, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := []byte{0x00, 0x00, 0x00, 0x00, 0xA0, 0x00, 0x00, 0x00, 0x00, 0x01, 0x07, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(raw, want) {
		t.Fatalf("got % X\nwant % X", raw, want)
	}

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Flags != p.Flags || got.Sequence != p.Sequence || !bytes.Equal(got.Body, p.Body) || len(got.Extra) != 0 {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestEncodeDecodeRoundTripWithAcks(t *testing.T) {
	p := &Packet{
		Flags:    FlagReliable | FlagAcks,
		Sequence: 7,
		Body:     []byte{0xAA, 0xBB},
		Acks:     []uint32{42, 99},
	}
	raw, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Flags != p.Flags || got.Sequence != p.Sequence {
		t.Errorf("header mismatch: got %+v", got)
	}
	if !bytes.Equal(got.Body, p.Body) {
		t.Errorf("body mismatch: got % X want % X", got.Body, p.Body)
	}
	if len(got.Acks) != 2 || got.Acks[0] != 42 || got.Acks[1] != 99 {
		t.Errorf("acks mismatch: got %v", got.Acks)
	}
}

func TestEncodeRejectsOversizedAckList(t *testing.T) {
	acks := make([]uint32, 256)
	p := &Packet{Flags: FlagAcks, Acks: acks}
	if _, err := p.Encode(); err == nil {
		t.Fatal("expected an error encoding 256 ACKs")
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	if _, err := Decode([]byte{0x00, 0x00, 0x00}); err == nil {
		t.Fatal("expected an error decoding a 3-byte packet")
	}
}

func TestDecodeRejectsTruncatedExtra(t *testing.T) {
	raw := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x05, 0x01, 0x02}
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected an error: extra_len=5 but only 2 bytes follow")
	}
}

func TestDecodeRejectsTruncatedAckList(t *testing.T) {
	raw := []byte{FlagAcks, 0x00, 0x00, 0x00, 0x01, 0x00, 0xAA, 0x02}
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected an error: count=2 ACKs declared but only 1 byte available")
	}
}

func TestEncodeDecodeRoundTripWithExtraBytes(t *testing.T) {
	p := &Packet{
		Flags:    FlagResent,
		Sequence: 5,
		Extra:    []byte{0x01, 0x02, 0x03},
		Body:     []byte{0xFF},
	}
	raw, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got.Extra, p.Extra) || !bytes.Equal(got.Body, p.Body) {
		t.Errorf("mismatch: got extra=% X body=% X", got.Extra, got.Body)
	}
}

package zerocode

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeIdempotent(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01, 0x02, 0x03},
		{0x00},
		bytes.Repeat([]byte{0x00}, 1024),
		append([]byte{0x01}, bytes.Repeat([]byte{0x00}, 10)...),
	}
	for _, body := range cases {
		coded := Encode(body)
		decoded, err := Decode(coded)
		if err != nil {
			t.Fatalf("Decode(%x): %v", coded, err)
		}
		if !bytes.Equal(decoded, body) {
			t.Errorf("round trip mismatch: body=%x decoded=%x", body, decoded)
		}
	}
}

func TestAllZero1024Bytes(t *testing.T) {
	body := make([]byte, 1024)
	coded := Encode(body)
	want := []byte{0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0x04}
	if !bytes.Equal(coded, want) {
		t.Errorf("got %x (%d bytes), want %x (%d bytes)", coded, len(coded), want, len(want))
	}
}

func TestSingleLiteralZero(t *testing.T) {
	coded := Encode([]byte{0x00})
	want := []byte{0x00, 0x01}
	if !bytes.Equal(coded, want) {
		t.Errorf("got %x, want %x", coded, want)
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x00})
	if err == nil {
		t.Error("expected ErrTruncated for a trailing lone 0x00")
	}
}

func TestEncodeIfShorterKeepsOriginalWhenNotShorter(t *testing.T) {
	body := []byte{0x01, 0x02, 0x03, 0x04}
	out, shortened := EncodeIfShorter(body)
	if shortened {
		t.Error("zero-free body should never compress shorter")
	}
	if !bytes.Equal(out, body) {
		t.Errorf("expected original body back, got %x", out)
	}
}

func TestEncodeIfShorterCompressesZeroHeavyBody(t *testing.T) {
	body := make([]byte, 64)
	out, shortened := EncodeIfShorter(body)
	if !shortened {
		t.Error("expected a 64-byte all-zero body to compress shorter")
	}
	if len(out) >= len(body) {
		t.Errorf("compressed form not shorter: %d >= %d", len(out), len(body))
	}
}

package wire

import "testing"

func TestReaderWriterRoundTrip(t *testing.T) {
	w := NewWriter(64)
	w.U8(0x42)
	w.U16(1234)
	w.U32(567890)
	w.Bool(true)
	if err := w.LatinString(1, "café"); err != nil {
		t.Fatalf("LatinString: %v", err)
	}

	r := NewReader(w.Bytes())

	b, err := r.U8()
	if err != nil || b != 0x42 {
		t.Errorf("U8: got %d, %v", b, err)
	}
	u16, err := r.U16()
	if err != nil || u16 != 1234 {
		t.Errorf("U16: got %d, %v", u16, err)
	}
	u32, err := r.U32()
	if err != nil || u32 != 567890 {
		t.Errorf("U32: got %d, %v", u32, err)
	}
	bl, err := r.Bool()
	if err != nil || !bl {
		t.Errorf("Bool: got %v, %v", bl, err)
	}
	s, err := r.LatinString(1)
	if err != nil || s != "café" {
		t.Errorf("LatinString: got %q, %v", s, err)
	}
}

func TestChatLatin1Encoding(t *testing.T) {
	// S5: "café" plus its NUL terminator encodes as Latin-1 bytes
	// 63 61 66 E9 00, preceded by the length prefix 05.
	w := NewWriter(8)
	if err := w.LatinString(1, "café\x00"); err != nil {
		t.Fatalf("LatinString: %v", err)
	}
	got := w.Bytes()
	want := []byte{0x05, 0x63, 0x61, 0x66, 0xE9, 0x00}
	if len(got) != len(want) {
		t.Fatalf("length: got %d, want %d (% X)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got 0x%02X want 0x%02X", i, got[i], want[i])
		}
	}
}

func TestVarBytesFieldTooLarge(t *testing.T) {
	w := NewWriter(300)
	data := make([]byte, 256)
	if err := w.VarBytes(1, data); err == nil {
		t.Error("expected FieldTooLarge for 256 bytes with a 1-byte prefix")
	}
	data255 := make([]byte, 255)
	if err := w.VarBytes(1, data255); err != nil {
		t.Errorf("255 bytes should fit a 1-byte prefix: %v", err)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	u := NewUUID()
	w := NewWriter(16)
	w.UUID(u)

	r := NewReader(w.Bytes())
	got, err := r.UUID()
	if err != nil {
		t.Fatalf("UUID: %v", err)
	}
	if got != u {
		t.Errorf("UUID round trip mismatch: got %s want %s", got, u)
	}
}

func TestTruncatedField(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.U32(); err == nil {
		t.Error("expected ErrTruncatedField reading u32 from 1 byte")
	}
}

func TestVectorsRoundTrip(t *testing.T) {
	w := NewWriter(64)
	v3 := Vector3{X: 1.5, Y: -2.25, Z: 3.0}
	w.Vector3(v3)
	q := Quaternion{X: 0, Y: 0, Z: 0, W: 1}
	w.Quaternion(q)

	r := NewReader(w.Bytes())
	gotV3, err := r.Vector3()
	if err != nil || gotV3 != v3 {
		t.Errorf("Vector3: got %+v, %v", gotV3, err)
	}
	gotQ, err := r.Quaternion()
	if err != nil || gotQ != q {
		t.Errorf("Quaternion: got %+v, %v", gotQ, err)
	}
}

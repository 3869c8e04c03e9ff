package region

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	cases := []struct{ x, y uint32 }{
		{0, 0},
		{1000, 1000},
		{256, 512},
		{65535, 65535},
	}
	for _, c := range cases {
		h := Pack(c.x, c.y)
		gotX, gotY := Unpack(h)
		if gotX != c.x || gotY != c.y {
			t.Errorf("Pack(%d,%d)=%d Unpack=(%d,%d)", c.x, c.y, h, gotX, gotY)
		}
	}
}

func TestPackKnownValue(t *testing.T) {
	// gridX=1000, gridY=1000 -> high32 = 1000*256 = 256000, low32 = 256000
	h := Pack(1000, 1000)
	want := uint64(256000)<<32 | uint64(256000)
	if h != want {
		t.Errorf("got %d want %d", h, want)
	}
}

package plic

import "testing"

func TestRegisterFileRoundTrip(t *testing.T) {
	r := NewRegisterFile(64)

	r.Write32(0, 0xdeadbeef)
	r.Write32(60, 0x12345678)

	if got := r.Read32(0); got != 0xdeadbeef {
		t.Errorf("expected 0xdeadbeef, got 0x%x", got)
	}
	if got := r.Read32(60); got != 0x12345678 {
		t.Errorf("expected 0x12345678, got 0x%x", got)
	}
	if got := r.Read32(4); got != 0 {
		t.Errorf("untouched register: expected 0, got 0x%x", got)
	}
}

func TestRegisterFileOutOfRange(t *testing.T) {
	r := NewRegisterFile(16)

	if got := r.Read32(16); got != 0 {
		t.Errorf("out-of-range read: expected 0, got 0x%x", got)
	}

	r.Write32(16, 0xffffffff)
	if got := r.Read32(16); got != 0 {
		t.Errorf("out-of-range write should be dropped, read back 0x%x", got)
	}
	if got := r.Size(); got != 16 {
		t.Errorf("expected size 16, got %d", got)
	}
}

func TestRegisterFileSizeRounding(t *testing.T) {
	if got := NewRegisterFile(6).Size(); got != 8 {
		t.Errorf("expected size rounded up to 8, got %d", got)
	}
}

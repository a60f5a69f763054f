//go:build linux

package plic

import "testing"

func TestMapWindowRejectsUnalignedBase(t *testing.T) {
	if _, err := MapWindow(0x0c00_0002, 16); err == nil {
		t.Fatal("expected an error for a non word aligned base")
	}
}

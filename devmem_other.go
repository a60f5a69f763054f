//go:build !linux

package plic

import "errors"

// ErrNotSupported is returned by MapWindow on platforms without /dev/mem.
var ErrNotSupported = errors.New("plic: register windows are only supported on linux")

// Window is only available on Linux, where the register file can be mapped
// through /dev/mem.
type Window struct{}

// MapWindow is not supported on this platform.
func MapWindow(base, size uint64) (*Window, error) {
	return nil, ErrNotSupported
}

// Close implements the Linux Window surface.
func (w *Window) Close() error { return nil }

// Read32 implements Device.
func (w *Window) Read32(off uint64) uint32 { return 0 }

// Write32 implements Device.
func (w *Window) Write32(off uint64, value uint32) {}

// Size implements Device.
func (w *Window) Size() uint64 { return 0 }

var _ Device = (*Window)(nil)

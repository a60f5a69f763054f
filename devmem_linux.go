//go:build linux

package plic

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Window is a live register window mapped through /dev/mem. Accesses go
// through sync/atomic so every load and store is full-width, ordered, and
// never elided.
type Window struct {
	mem  []byte
	skew uint64 // offset of the window within the page-aligned mapping
}

// MapWindow maps size bytes of controller registers at physical address
// base. The caller needs read/write access to /dev/mem, which usually means
// root on a kernel without CONFIG_STRICT_DEVMEM.
func MapWindow(base, size uint64) (*Window, error) {
	if base%4 != 0 {
		return nil, fmt.Errorf("plic: base address 0x%x is not word aligned", base)
	}
	fd, err := unix.Open("/dev/mem", unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("plic: open /dev/mem: %w", err)
	}
	defer unix.Close(fd)

	page := uint64(os.Getpagesize())
	aligned := base &^ (page - 1)
	skew := base - aligned

	mem, err := unix.Mmap(fd, int64(aligned), int(size+skew),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("plic: mmap 0x%x+0x%x: %w", aligned, size+skew, err)
	}

	return &Window{mem: mem, skew: skew}, nil
}

// Close unmaps the register window. The window must not be used afterwards.
func (w *Window) Close() error {
	mem := w.mem
	w.mem = nil
	return unix.Munmap(mem)
}

// Read32 implements Device.
func (w *Window) Read32(off uint64) uint32 {
	off += w.skew
	if off+4 > uint64(len(w.mem)) {
		return 0
	}
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&w.mem[off])))
}

// Write32 implements Device.
func (w *Window) Write32(off uint64, value uint32) {
	off += w.skew
	if off+4 > uint64(len(w.mem)) {
		return
	}
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&w.mem[off])), value)
}

// Size implements Device.
func (w *Window) Size() uint64 {
	return uint64(len(w.mem)) - w.skew
}

var _ Device = (*Window)(nil)

// Package plicsim provides a behavioral model of the platform-level
// interrupt controller, register-compatible with the plic driver. It backs
// the driver in tests and in host-side tooling where no real controller is
// mapped.
package plicsim

import (
	"sync"

	"github.com/openhart/plic"
)

// Controller models the controller's register file and its claim/complete
// state machine for a single hart.
//
// Unlike the driver, the model locks internally: host tests raise interrupt
// lines from arbitrary goroutines while the driver polls.
type Controller struct {
	mu sync.Mutex

	priority  [plic.SrcCount]uint32
	pending   [plic.SrcCount / 32]uint32
	enable    [plic.CtxCount][plic.SrcCount / 32]uint32
	threshold [plic.CtxCount]uint32

	// Claimed source per context. A claimed source is held out of
	// delivery until it is completed.
	claimed [plic.CtxCount]uint32
}

// New creates a controller with all sources at minimum priority, disabled,
// and idle.
func New() *Controller {
	return &Controller{}
}

// Size implements plic.Device.
func (c *Controller) Size() uint64 {
	return plic.WindowSize
}

// Read32 implements plic.Device. Reading a claim register has the
// hardware's side effect: the returned source is marked claimed and its
// pending bit cleared.
func (c *Controller) Read32(off uint64) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case off < plic.PendingBase:
		src := off / 4
		if src < plic.SrcCount {
			return c.priority[src]
		}

	case off < plic.EnableBase:
		word := (off - plic.PendingBase) / 4
		if word < uint64(len(c.pending)) {
			return c.pending[word]
		}

	case off < plic.ThresholdBase:
		rel := off - plic.EnableBase
		ctx := rel / plic.EnableStride
		word := (rel % plic.EnableStride) / 4
		if ctx < plic.CtxCount && word < uint64(len(c.pending)) {
			return c.enable[ctx][word]
		}

	default:
		rel := off - plic.ThresholdBase
		ctx := rel / plic.ContextStride
		if ctx < plic.CtxCount {
			switch rel % plic.ContextStride {
			case 0:
				return c.threshold[ctx]
			case plic.ClaimOffset:
				return c.claim(int(ctx))
			}
		}
	}

	return 0
}

// Write32 implements plic.Device. Writing a claim register completes the
// written source. Priority and threshold values are masked to the 3-bit
// hardware range; the pending bitmap is read-only from the bus side.
func (c *Controller) Write32(off uint64, value uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case off < plic.PendingBase:
		src := off / 4
		if src > 0 && src < plic.SrcCount { // source 0 is reserved
			c.priority[src] = value & plic.PrioMax
		}

	case off < plic.EnableBase:
		// Pending bits are driven by the interrupt lines, not by stores.

	case off < plic.ThresholdBase:
		rel := off - plic.EnableBase
		ctx := rel / plic.EnableStride
		word := (rel % plic.EnableStride) / 4
		if ctx < plic.CtxCount && word < uint64(len(c.pending)) {
			c.enable[ctx][word] = value
		}

	default:
		rel := off - plic.ThresholdBase
		ctx := rel / plic.ContextStride
		if ctx < plic.CtxCount {
			switch rel % plic.ContextStride {
			case 0:
				c.threshold[ctx] = value & plic.PrioMax
			case plic.ClaimOffset:
				c.complete(int(ctx), value)
			}
		}
	}
}

// Raise asserts src's interrupt line, marking it pending. Reserved or
// out-of-range sources are ignored.
func (c *Controller) Raise(src int) {
	c.setPending(src, true)
}

// Clear deasserts src's interrupt line.
func (c *Controller) Clear(src int) {
	c.setPending(src, false)
}

func (c *Controller) setPending(src int, pending bool) {
	if src <= 0 || src >= plic.SrcCount {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	word, bit := uint(src)/32, uint(src)%32
	if pending {
		c.pending[word] |= 1 << bit
	} else {
		c.pending[word] &^= 1 << bit
	}
}

// claim picks the highest-priority pending enabled source strictly above
// ctx's threshold, clears its pending bit, and records it as claimed. Ties
// go to the lowest source id. A source already claimed on ctx is held out
// until completed. Caller holds c.mu.
func (c *Controller) claim(ctx int) uint32 {
	var bestSrc, bestPrio uint32

	for src := uint32(1); src < plic.SrcCount; src++ {
		word, bit := src/32, src%32
		if c.pending[word]&(1<<bit) == 0 {
			continue
		}
		if c.enable[ctx][word]&(1<<bit) == 0 {
			continue
		}
		if c.claimed[ctx] == src {
			continue
		}
		prio := c.priority[src]
		if prio <= c.threshold[ctx] {
			continue
		}
		if prio > bestPrio {
			bestPrio, bestSrc = prio, src
		}
	}

	if bestSrc != 0 {
		c.pending[bestSrc/32] &^= 1 << (bestSrc % 32)
		c.claimed[ctx] = bestSrc
	}
	return bestSrc
}

// complete clears ctx's claimed state for src so the source can be claimed
// again the next time it fires. Caller holds c.mu.
func (c *Controller) complete(ctx int, src uint32) {
	if src == 0 || src >= plic.SrcCount {
		return
	}
	if c.claimed[ctx] == src {
		c.claimed[ctx] = 0
	}
}

// ContextPending reports whether ctx has an eligible source waiting: the
// level signal a real controller drives into the hart's external-interrupt
// pending bit.
func (c *Controller) ContextPending(ctx int) bool {
	if ctx < 0 || ctx >= plic.CtxCount {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for src := uint32(1); src < plic.SrcCount; src++ {
		word, bit := src/32, src%32
		if c.pending[word]&(1<<bit) == 0 {
			continue
		}
		if c.enable[ctx][word]&(1<<bit) == 0 {
			continue
		}
		if c.claimed[ctx] == src {
			continue
		}
		if c.priority[src] > c.threshold[ctx] {
			return true
		}
	}
	return false
}

var _ plic.Device = (*Controller)(nil)

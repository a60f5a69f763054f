// Package plic drives a RISC-V Platform-Level Interrupt Controller through
// its memory-mapped register window.
//
// The controller aggregates up to 1023 external interrupt sources and
// delivers the highest-priority pending one to a hart. This driver serves a
// single hart's machine-mode context (context 0): device setup raises a
// source's priority with EnableIRQ, and the trap path claims the fired
// source with ClaimIRQ, services it, and acknowledges with CloseIRQ.
//
// All interrupt state lives in the controller's registers; the driver is a
// stateless conduit over a Device. The register window can be backed by a
// live /dev/mem mapping (MapWindow), ordinary memory (RegisterFile), or the
// behavioral model in the plicsim package.
package plic

import "log/slog"

// Driver drives a single controller. It is meant to run single-threaded,
// either at boot or inside one hart's trap path with interrupts off for the
// duration of a claim/complete pair; it relies on the hardware's atomic
// claim semantics rather than a software lock.
type Driver struct {
	regs Device
	log  *slog.Logger
}

// New creates a driver over the given register window. A nil logger
// disables the driver's diagnostics.
func New(regs Device, log *slog.Logger) *Driver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Driver{regs: regs, log: log}
}

// SetSourcePriority writes level into src's priority register. Levels
// outside [PrioMin, PrioMax] are clamped; an invalid source is ignored.
// Writing PrioMin disables the source without touching its enable bit.
func (d *Driver) SetSourcePriority(src, level int) {
	if !validSource(src) {
		return
	}
	if level < PrioMin {
		level = PrioMin
	}
	if level > PrioMax {
		level = PrioMax
	}
	d.regs.Write32(priorityOffset(src), uint32(level))
}

// SourcePriority reads back src's priority register. Out-of-range sources
// read as PrioMin.
func (d *Driver) SourcePriority(src int) int {
	if !validSource(src) {
		return PrioMin
	}
	return int(d.regs.Read32(priorityOffset(src)))
}

// SourcePending reports whether src's pending bit is set. Out-of-range
// sources read as not pending. No side effects.
func (d *Driver) SourcePending(src int) bool {
	if !validSource(src) {
		return false
	}
	return d.regs.Read32(pendingOffset(src))&(1<<(uint(src)%32)) != 0
}

// EnableSourceForContext sets src's enable bit for ctx with a
// read-modify-write, leaving the other bits of the enable word untouched.
func (d *Driver) EnableSourceForContext(ctx, src int) {
	if !validContext(ctx) || !validSource(src) {
		return
	}
	off := enableOffset(ctx, src)
	d.regs.Write32(off, d.regs.Read32(off)|1<<(uint(src)%32))
}

// DisableSourceForContext clears src's enable bit for ctx.
func (d *Driver) DisableSourceForContext(ctx, src int) {
	if !validContext(ctx) || !validSource(src) {
		return
	}
	off := enableOffset(ctx, src)
	d.regs.Write32(off, d.regs.Read32(off)&^(1<<(uint(src)%32)))
}

// SourceEnabled reports whether src's enable bit for ctx is set.
func (d *Driver) SourceEnabled(ctx, src int) bool {
	if !validContext(ctx) || !validSource(src) {
		return false
	}
	return d.regs.Read32(enableOffset(ctx, src))&(1<<(uint(src)%32)) != 0
}

// SetContextThreshold writes level into ctx's threshold register. Sources
// with priority at or below the threshold are not delivered to ctx. Levels
// outside [PrioMin, PrioMax] are clamped.
func (d *Driver) SetContextThreshold(ctx, level int) {
	if !validContext(ctx) {
		return
	}
	if level < PrioMin {
		level = PrioMin
	}
	if level > PrioMax {
		level = PrioMax
	}
	d.regs.Write32(thresholdOffset(ctx), uint32(level))
}

// ContextThreshold reads back ctx's threshold register.
func (d *Driver) ContextThreshold(ctx int) int {
	if !validContext(ctx) {
		return PrioMin
	}
	return int(d.regs.Read32(thresholdOffset(ctx)))
}

// ClaimContextInterrupt reads ctx's claim register. The controller
// atomically returns the id of the highest-priority pending enabled source
// and marks it claimed, or 0 when nothing is eligible. An invalid ctx
// returns 0 without touching the registers.
func (d *Driver) ClaimContextInterrupt(ctx int) int {
	if !validContext(ctx) {
		return 0
	}
	return int(d.regs.Read32(claimOffset(ctx)))
}

// CompleteContextInterrupt writes src back into ctx's claim register,
// telling the controller the interrupt has been serviced so the source can
// be claimed again the next time it fires.
func (d *Driver) CompleteContextInterrupt(ctx, src int) {
	if !validContext(ctx) || !validSource(src) {
		return
	}
	d.regs.Write32(claimOffset(ctx), uint32(src))
}

// Init puts the controller into its documented starting state: every source
// disabled by priority but pre-enabled for context 0, so activating a
// source later only takes a priority raise. Call once at boot, before any
// claim.
func (d *Driver) Init() {
	for src := 0; src < SrcCount; src++ {
		d.SetSourcePriority(src, PrioMin)
		d.EnableSourceForContext(0, src)
	}
}

// EnableIRQ raises irq's priority to prio, making it eligible for delivery
// once it clears the context threshold. Idempotent.
func (d *Driver) EnableIRQ(irq, prio int) {
	d.log.Debug("plic: enable irq", "irq", irq, "prio", prio)
	d.SetSourcePriority(irq, prio)
}

// DisableIRQ drops irq's priority to the minimum, stopping delivery. A
// non-positive irq is a caller bug: it is logged and nothing is written.
func (d *Driver) DisableIRQ(irq int) {
	if irq <= 0 {
		d.log.Warn("plic: disable of invalid irq ignored", "irq", irq)
		return
	}
	d.SetSourcePriority(irq, PrioMin)
}

// ClaimIRQ claims the next interrupt on context 0, returning the claimed
// source id or 0 when nothing is pending. The caller must treat 0 as "no
// interrupt, do not dispatch".
func (d *Driver) ClaimIRQ() int {
	irq := d.ClaimContextInterrupt(0)
	d.log.Debug("plic: claim irq", "irq", irq)
	return irq
}

// CloseIRQ completes irq on context 0, signaling the controller that the
// source's interrupt has been fully serviced.
func (d *Driver) CloseIRQ(irq int) {
	d.log.Debug("plic: close irq", "irq", irq)
	d.CompleteContextInterrupt(0, irq)
}

package plic

// Register regions, as byte offsets from the controller base address.
const (
	PriorityBase  = 0x000000 // Priority registers, one word per source
	PendingBase   = 0x001000 // Pending bitmap, one bit per source
	EnableBase    = 0x002000 // Enable bitmaps, one bit per source per context
	ThresholdBase = 0x200000 // Threshold and claim/complete per context
)

// Per-context register strides.
const (
	EnableStride  = 0x80   // Bytes between consecutive contexts' enable bitmaps
	ContextStride = 0x1000 // Bytes between consecutive contexts' threshold blocks

	ClaimOffset = 4 // Claim/complete register within a context's threshold block
)

// Controller geometry. Source 0 is reserved by the hardware and is never
// addressed; this driver serves the machine-mode context of a single hart.
const (
	SrcCount = 1024
	CtxCount = 1

	PrioMin = 0 // Disables the source
	PrioMax = 7
)

// WindowSize is the span of the controller's register window.
const WindowSize uint64 = 0x0400_0000

func priorityOffset(src int) uint64 {
	return PriorityBase + 4*uint64(src)
}

func pendingOffset(src int) uint64 {
	return PendingBase + 4*(uint64(src)/32)
}

func enableOffset(ctx, src int) uint64 {
	return EnableBase + uint64(ctx)*EnableStride + 4*(uint64(src)/32)
}

func thresholdOffset(ctx int) uint64 {
	return ThresholdBase + uint64(ctx)*ContextStride
}

func claimOffset(ctx int) uint64 {
	return thresholdOffset(ctx) + ClaimOffset
}

func validSource(src int) bool {
	return src > 0 && src < SrcCount
}

func validContext(ctx int) bool {
	return ctx >= 0 && ctx < CtxCount
}

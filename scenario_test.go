package plic_test

import (
	"testing"

	"github.com/openhart/plic"
	"github.com/openhart/plic/plicsim"
)

func newDriver(t *testing.T) (*plic.Driver, *plicsim.Controller) {
	t.Helper()
	ctrl := plicsim.New()
	d := plic.New(ctrl, nil)
	d.Init()
	d.SetContextThreshold(0, plic.PrioMin)
	return d, ctrl
}

func TestIdleClaimReturnsZero(t *testing.T) {
	d, _ := newDriver(t)

	if got := d.ClaimIRQ(); got != 0 {
		t.Fatalf("idle controller: expected claim 0, got %d", got)
	}
}

func TestClaimCompleteCycle(t *testing.T) {
	d, ctrl := newDriver(t)

	d.EnableIRQ(5, 3)
	ctrl.Raise(5)

	if !d.SourcePending(5) {
		t.Fatal("source 5: expected pending after raise")
	}
	if got := d.ClaimIRQ(); got != 5 {
		t.Fatalf("expected to claim source 5, got %d", got)
	}
	if d.SourcePending(5) {
		t.Error("source 5: pending bit must clear on claim")
	}

	d.CloseIRQ(5)

	if got := d.ClaimIRQ(); got != 0 {
		t.Fatalf("after completion with the line deasserted: expected 0, got %d", got)
	}
}

func TestClaimOrdersByPriorityThenID(t *testing.T) {
	d, ctrl := newDriver(t)

	d.EnableIRQ(10, 1)
	d.EnableIRQ(5, 3)
	d.EnableIRQ(7, 3)
	ctrl.Raise(10)
	ctrl.Raise(5)
	ctrl.Raise(7)

	var order []int
	for {
		irq := d.ClaimIRQ()
		if irq == 0 {
			break
		}
		order = append(order, irq)
		d.CloseIRQ(irq)
	}

	want := []int{5, 7, 10}
	if len(order) != len(want) {
		t.Fatalf("expected claims %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected claims %v, got %v", want, order)
		}
	}
}

func TestThresholdMasksDelivery(t *testing.T) {
	d, ctrl := newDriver(t)
	d.SetContextThreshold(0, 3)

	d.EnableIRQ(5, 3)
	ctrl.Raise(5)

	// Priority must exceed the threshold, not merely meet it.
	if got := d.ClaimIRQ(); got != 0 {
		t.Fatalf("priority at threshold: expected no claim, got %d", got)
	}

	d.EnableIRQ(5, 4)
	if got := d.ClaimIRQ(); got != 5 {
		t.Fatalf("priority above threshold: expected claim 5, got %d", got)
	}
}

func TestClaimedSourceHeldUntilComplete(t *testing.T) {
	d, ctrl := newDriver(t)

	d.EnableIRQ(5, 3)
	ctrl.Raise(5)

	if got := d.ClaimIRQ(); got != 5 {
		t.Fatalf("expected claim 5, got %d", got)
	}

	// The device re-asserts while the first instance is still in service.
	ctrl.Raise(5)
	if got := d.ClaimIRQ(); got != 0 {
		t.Fatalf("claimed source must not be redelivered, got %d", got)
	}

	d.CloseIRQ(5)
	if got := d.ClaimIRQ(); got != 5 {
		t.Fatalf("after completion: expected claim 5 again, got %d", got)
	}
}

func TestDisabledSourceNotDelivered(t *testing.T) {
	d, ctrl := newDriver(t)

	d.EnableIRQ(5, 3)
	d.DisableIRQ(5)
	ctrl.Raise(5)

	if got := d.ClaimIRQ(); got != 0 {
		t.Fatalf("priority-disabled source: expected no claim, got %d", got)
	}

	// Clearing the enable bit masks delivery even with a live priority.
	d.EnableIRQ(5, 3)
	d.DisableSourceForContext(0, 5)
	if got := d.ClaimIRQ(); got != 0 {
		t.Fatalf("enable-masked source: expected no claim, got %d", got)
	}
}

func TestReservedSourceOperationsAreNoOps(t *testing.T) {
	d, ctrl := newDriver(t)

	d.SetSourcePriority(0, 7)
	d.EnableSourceForContext(0, 0)
	ctrl.Raise(0)

	if d.SourcePending(0) {
		t.Error("reserved source 0 must never read as pending")
	}
	if got := d.ClaimIRQ(); got != 0 {
		t.Fatalf("reserved source must never be delivered, got %d", got)
	}
}

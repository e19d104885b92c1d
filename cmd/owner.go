package cmd

import (
	"sync"

	"github.com/marcus/rangepick/internal/selection"
)

// rangeOwner keeps the authoritative value of a controlled picker, the role
// a form library plays for a controlled field. It accepts every change the
// machine reports and hands its value back through Reconcile.
type rangeOwner struct {
	mu      sync.Mutex
	value   selection.Selection
	machine *selection.Machine
	changes int
}

func newRangeOwner(initial *selection.Selection) *rangeOwner {
	if initial == nil {
		return nil
	}
	return &rangeOwner{value: initial.Clone()}
}

// Attach sets the machine that Reconcile is called on.
func (o *rangeOwner) Attach(m *selection.Machine) {
	o.mu.Lock()
	o.machine = m
	o.mu.Unlock()
}

// Value returns a copy of the owned range.
func (o *rangeOwner) Value() selection.Selection {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value.Clone()
}

// OnChange accepts sel and reconciles the machine with it.
func (o *rangeOwner) OnChange(sel selection.Selection) {
	o.mu.Lock()
	o.value = sel.Clone()
	o.changes++
	v, m := o.value.Clone(), o.machine
	o.mu.Unlock()

	if m != nil {
		m.Reconcile(v)
	}
}


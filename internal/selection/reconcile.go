package selection

// Reconcile folds the owner's authoritative value into the machine. Slots are
// handled independently: a nil owner slot clears a set internal slot, and a
// set owner slot overwrites the internal one when the instants differ.
//
// Internal edits stay visible immediately and are reported through OnChange;
// the owner answers by calling Reconcile again, which is a no-op once both
// sides agree.
func (m *Machine) Reconcile(value Selection) {
	m.update("reconcile", func() error {
		for _, e := range []Endpoint{Start, End} {
			ext, cur := value.Get(e), m.sel.Get(e)
			switch {
			case ext == nil:
				if cur != nil {
					m.sel.set(e, nil)
				}
			case cur == nil || !ext.Equal(*cur):
				m.sel.set(e, ext)
			}
		}
		return nil
	})
}

// Attach is called once the host has mounted the calendar. The first call
// moves nav to the month of the owner's start value, if there is one; later
// calls do nothing.
func (m *Machine) Attach(nav Navigator) {
	m.mu.Lock()
	if m.viewed {
		m.mu.Unlock()
		return
	}
	m.viewed = true
	target := copyTime(m.initialView)
	m.mu.Unlock()

	if target != nil && nav != nil {
		nav.SetViewing(*target)
	}
}

package event

// Stats is a read-only snapshot of the Event Manager's internal state,
// for introspection and tests (SPEC_FULL.md §3: not part of the
// distilled operation list, but implied by spec.md §5's "known
// starvation hazards" being something an implementation must be able to
// observe). Exposed read-only so it cannot perturb ordering.
type Stats struct {
	NEvents           uint64
	PendingInterrupts []int // count per index
	PendingExceptions []int
	PendingScheduling []int
}

// Stats takes a snapshot under the same exclusive-borrow discipline as
// every other entry point.
func (m *Manager) Stats() (Stats, error) {
	if !m.mu.TryLock() {
		return Stats{}, errPermissionDeniedReentrant()
	}
	defer m.mu.Unlock()

	s := Stats{
		NEvents:           m.nevents,
		PendingInterrupts: make([]int, m.w),
		PendingExceptions: make([]int, m.w),
		PendingScheduling: make([]int, NSched),
	}
	for i := range m.pendingInterrupts {
		s.PendingInterrupts[i] = len(m.pendingInterrupts[i])
	}
	for i := range m.pendingExceptions {
		s.PendingExceptions[i] = len(m.pendingExceptions[i])
	}
	for i := range m.pendingScheduling {
		s.PendingScheduling[i] = len(m.pendingScheduling[i])
	}
	return s, nil
}

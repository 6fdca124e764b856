package event

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/errno"
	"github.com/LucasGdosR/kernel/internal/pid"
)

// OwnershipHandle is the opaque token Register returns. Its Close
// unregisters the same (pid, event) pair — the idiomatic Go analogue of
// spec.md §3's "when an EventOwnership handle is dropped, the
// corresponding slot becomes None" (I3): Go has no deterministic
// destructors, so callers are expected to `defer handle.Close()` the way
// a lock guard or file handle is released. Close is idempotent and
// best-effort: a failure is logged, never returned as a fatal condition,
// matching spec.md §4.2.2's "best-effort; failure is logged."
type OwnershipHandle struct {
	mgr     *Manager
	pid     pid.Pid
	ev      Event
	closed  bool
}

// Close unregisters the handle's (pid, event) pair if it is still the
// current owner. Safe to call more than once.
func (h *OwnershipHandle) Close() {
	if h == nil || h.closed {
		return
	}
	h.closed = true
	if err := h.mgr.Unregister(h.pid, h.ev); err != nil {
		h.mgr.log.Warnf("ownership handle drop: unregister pid=%s event=%s failed: %v", h.pid, h.ev, err)
	}
}

func capabilityFor(class Class) capability.Capability {
	switch class {
	case ClassInterrupt:
		return capability.InterruptControl
	case ClassException:
		return capability.ExceptionControl
	default:
		return capability.ProcessManagement
	}
}

func (m *Manager) ownerTable(class Class) []ownerSlot {
	switch class {
	case ClassInterrupt:
		return m.interruptOwner
	case ClassException:
		return m.exceptionOwner
	default:
		return m.schedulingOwner
	}
}

func (m *Manager) indexBound(class Class) int {
	if class == ClassScheduling {
		return NSched
	}
	return m.w
}

func validateEvent(ev Event, bound int) error {
	if ev.Index < 0 || ev.Index >= bound {
		return pkgerrors.Wrapf(errno.ErrInvalidArgument, "event index %d out of range [0,%d)", ev.Index, bound)
	}
	return nil
}

// Register installs p as the owner of ev. See spec.md §4.2.2.
func (m *Manager) Register(p pid.Pid, ev Event) (*OwnershipHandle, error) {
	if !m.mu.TryLock() {
		return nil, errPermissionDeniedReentrant()
	}
	defer m.mu.Unlock()

	if ev.Class == ClassInterrupt && !m.hal.InterruptCapable() {
		return nil, errno.ErrOperationNotSupported
	}
	bound := m.indexBound(ev.Class)
	if err := validateEvent(ev, bound); err != nil {
		return nil, err
	}
	if !m.caps.Has(p, capabilityFor(ev.Class)) {
		return nil, errno.ErrPermissionDenied
	}

	table := m.ownerTable(ev.Class)
	if table[ev.Index].present {
		return nil, errno.ErrResourceBusy
	}
	table[ev.Index] = ownerSlot{owner: p, present: true}

	return &OwnershipHandle{mgr: m, pid: p, ev: ev}, nil
}

// Unregister clears ev's ownership slot. p (the caller always supplies
// its own pid, spec.md §4.2.3) must equal the current owner, whatever its
// value; otherwise Unregister fails with ErrPermissionDenied.
func (m *Manager) Unregister(p pid.Pid, ev Event) error {
	if !m.mu.TryLock() {
		return errPermissionDeniedReentrant()
	}
	defer m.mu.Unlock()
	return m.unregisterLocked(p, ev)
}

func (m *Manager) unregisterLocked(p pid.Pid, ev Event) error {
	bound := m.indexBound(ev.Class)
	if err := validateEvent(ev, bound); err != nil {
		return err
	}
	table := m.ownerTable(ev.Class)
	slot := table[ev.Index]
	if !slot.present || slot.owner != p {
		return errno.ErrPermissionDenied
	}
	table[ev.Index] = ownerSlot{}
	return nil
}

// Owned computes the bitsets of indices p owns in each class, used by
// Wait to recompute the owner set on every entry (spec.md I6).
type Owned struct {
	Interrupt  map[int]bool
	Exception  map[int]bool
	Scheduling map[int]bool
}

func (m *Manager) ownedLocked(p pid.Pid) Owned {
	o := Owned{
		Interrupt:  make(map[int]bool),
		Exception:  make(map[int]bool),
		Scheduling: make(map[int]bool),
	}
	for i, slot := range m.interruptOwner {
		if slot.present && slot.owner == p {
			o.Interrupt[i] = true
		}
	}
	for i, slot := range m.exceptionOwner {
		if slot.present && slot.owner == p {
			o.Exception[i] = true
		}
	}
	for i, slot := range m.schedulingOwner {
		if slot.present && slot.owner == p {
			o.Scheduling[i] = true
		}
	}
	return o
}

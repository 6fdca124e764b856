package event

import (
	"math/bits"

	"github.com/LucasGdosR/kernel/internal/errno"
	"github.com/LucasGdosR/kernel/internal/ipc/mbx"
	"github.com/LucasGdosR/kernel/internal/pid"
	"github.com/LucasGdosR/kernel/internal/pm"
)

// allocSequenceLocked assigns the next globally-increasing sequence
// number (spec.md I2) and bumps the class-rotation counter. Caller must
// hold mu.
func (m *Manager) allocSequenceLocked() uint64 {
	m.nevents++
	return m.nevents
}

// lowestSetBit returns the index of mask's lowest set bit and true, or
// (0, false) if mask is zero. wakeup_interrupt/wakeup_exception process
// only this one bit per call (spec.md §4.3's injection paths).
func lowestSetBit(mask uint64) (int, bool) {
	if mask == 0 {
		return 0, false
	}
	return bits.TrailingZeros64(mask), true
}

// WakeupInterrupt is called by the interrupt trap (spec.md §4.3). It is
// wait-free: TryLock never blocks, so a busy Event Manager simply fails
// the call with ErrPermissionDenied rather than stalling the trap.
func (m *Manager) WakeupInterrupt(irqMask uint64) error {
	if !m.hal.InterruptCapable() {
		// spec.md §9: the source's guard inverts this condition; the
		// corrected condition is authoritative here.
		return errno.ErrOperationNotSupported
	}
	if !m.mu.TryLock() {
		return errPermissionDeniedReentrant()
	}
	defer m.mu.Unlock()

	i, ok := lowestSetBit(irqMask)
	if !ok {
		return errno.ErrInvalidArgument
	}
	if i >= m.w {
		return errno.ErrInvalidArgument
	}

	seq := m.allocSequenceLocked()
	owner := m.interruptOwner[i]
	if !owner.present {
		m.log.Errorf("interrupt %d dropped: no owner", i)
		return errno.ErrNoSuchProcess
	}

	desc := EventDescriptor{Sequence: seq, Event: Event{Class: ClassInterrupt, Index: i}}
	m.pendingInterrupts[i] = append(m.pendingInterrupts[i], desc)
	m.cond.Broadcast()
	return nil
}

// WakeupException is called by the CPU-exception trap (spec.md §4.3). On
// success it returns the ResumeHandle the trap handler blocks on until
// the owner acknowledges via Resume.
func (m *Manager) WakeupException(exceptionMask uint64, faultingPid pid.Pid, payload ExceptionPayload) (*ResumeHandle, error) {
	if !m.mu.TryLock() {
		return nil, errPermissionDeniedReentrant()
	}

	i, ok := lowestSetBit(exceptionMask)
	if !ok || i >= m.w {
		m.mu.Unlock()
		return nil, errno.ErrInvalidArgument
	}

	seq := m.allocSequenceLocked()
	owner := m.exceptionOwner[i]
	payload.FaultingPid = faultingPid
	if !owner.present {
		m.mu.Unlock()
		m.pmgr.Terminate(faultingPid, -1)
		return nil, nil
	}

	handle := newResumeHandle()
	entry := exceptionEntry{
		Desc:    EventDescriptor{Sequence: seq, Event: Event{Class: ClassException, Index: i}},
		Payload: payload,
		Resume:  handle,
	}
	m.pendingExceptions[i] = append(m.pendingExceptions[i], entry)
	m.cond.Broadcast()
	m.mu.Unlock()
	return handle, nil
}

// PostMessage implements IPC send (spec.md §4.3): push into the
// destination mailbox and notify the condvar so a waiter blocked in
// Wait re-polls.
func (m *Manager) PostMessage(dest pid.Pid, msg mbx.Message) error {
	if !m.mu.TryLock() {
		return errPermissionDeniedReentrant()
	}
	defer m.mu.Unlock()

	box := m.pmgr.Mailbox(dest)
	if box == nil {
		return errno.ErrNoSuchProcess
	}
	box.Send(msg)
	m.cond.Broadcast()
	return nil
}

// NotifyProcessTermination publishes a ProcessTermination scheduling
// event (spec.md §4.3, §4.4 step 4).
func (m *Manager) NotifyProcessTermination(info pm.Termination) error {
	if !m.mu.TryLock() {
		return errPermissionDeniedReentrant()
	}
	defer m.mu.Unlock()

	seq := m.allocSequenceLocked()
	owner := m.schedulingOwner[ProcessTermination]
	if !owner.present {
		m.log.Errorf("scheduling event dropped: no owner for ProcessTermination")
		return errno.ErrNoSuchProcess
	}

	desc := EventDescriptor{Sequence: seq, Event: Event{Class: ClassScheduling, Index: ProcessTermination}}
	m.pendingScheduling[ProcessTermination] = append(m.pendingScheduling[ProcessTermination], schedulingEntry{Desc: desc, Term: info})
	m.cond.Broadcast()
	return nil
}

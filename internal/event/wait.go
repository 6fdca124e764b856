package event

import (
	"encoding/binary"

	"github.com/LucasGdosR/kernel/internal/errno"
	"github.com/LucasGdosR/kernel/internal/ipc/mbx"
	"github.com/LucasGdosR/kernel/internal/pid"
)

// EventInformation is the wire-level exception payload (spec.md §6):
// id (u64), pid (u32), number (u32), code (u32), address (u32),
// instruction (u32), placed at payload offset 0.
type EventInformation struct {
	ID          uint64
	Pid         uint32
	Number      uint32
	Code        uint32
	Address     uint32
	Instruction uint32
}

func encodeEventInformation(buf *[mbx.PayloadSize]byte, info EventInformation) {
	binary.LittleEndian.PutUint64(buf[0:8], info.ID)
	binary.LittleEndian.PutUint32(buf[8:12], info.Pid)
	binary.LittleEndian.PutUint32(buf[12:16], info.Number)
	binary.LittleEndian.PutUint32(buf[16:20], info.Code)
	binary.LittleEndian.PutUint32(buf[20:24], info.Address)
	binary.LittleEndian.PutUint32(buf[24:28], info.Instruction)
}

func encodeTerminationPayload(buf *[mbx.PayloadSize]byte, terminatedPid uint32, status int32) {
	binary.LittleEndian.PutUint32(buf[0:4], terminatedPid)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(status))
}

// Wait blocks until a deliverable message exists for p: a pending event
// on a class/index p owns, or (absent any) a message in p's mailbox
// (spec.md §4.3). It is the sole Event Manager operation allowed to
// suspend (spec.md §5).
func (m *Manager) Wait(p pid.Pid) (mbx.Message, error) {
	if !m.mu.TryLock() {
		return mbx.Message{}, errPermissionDeniedReentrant()
	}
	defer m.mu.Unlock()

	for {
		owned := m.ownedLocked(p)
		if msg, ok := m.tryWaitLocked(p, owned); ok {
			return msg, nil
		}
		m.cond.Wait()
	}
}

// tryWaitLocked implements spec.md §4.3's multiplexing policy. Caller
// must hold mu.
func (m *Manager) tryWaitLocked(p pid.Pid, owned Owned) (mbx.Message, bool) {
	selector := int(m.nevents % 3)
	for i := 0; i < 3; i++ {
		class := Class((selector + i) % 3)
		switch class {
		case ClassInterrupt:
			if msg, ok := m.deliverInterruptLocked(p, owned); ok {
				return msg, true
			}
		case ClassException:
			if msg, ok := m.deliverExceptionLocked(p, owned); ok {
				return msg, true
			}
		case ClassScheduling:
			if msg, ok := m.deliverSchedulingLocked(p, owned); ok {
				return msg, true
			}
		}
	}

	if box := m.pmgr.Mailbox(p); box != nil {
		if msg, ok := box.Receive(); ok {
			return msg, true
		}
	}
	return mbx.Message{}, false
}

// deliverInterruptLocked scans owned interrupt indices in ascending
// order (the documented starvation hazard of spec.md §5: "the first set
// bit... is scanned first on every call") and dequeues the first
// non-empty queue.
func (m *Manager) deliverInterruptLocked(p pid.Pid, owned Owned) (mbx.Message, bool) {
	for i := 0; i < m.w; i++ {
		if !owned.Interrupt[i] {
			continue
		}
		q := m.pendingInterrupts[i]
		if len(q) == 0 {
			continue
		}
		m.pendingInterrupts[i] = q[1:]
		return mbx.Message{
			Source:      pidKernel,
			Destination: p,
			Type:        mbx.Interrupt,
		}, true
	}
	return mbx.Message{}, false
}

// deliverExceptionLocked dequeues the head entry and re-pushes it at the
// tail (spec.md §4.3, §9): only Resume removes the entry for good.
func (m *Manager) deliverExceptionLocked(p pid.Pid, owned Owned) (mbx.Message, bool) {
	for i := 0; i < m.w; i++ {
		if !owned.Exception[i] {
			continue
		}
		q := m.pendingExceptions[i]
		if len(q) == 0 {
			continue
		}
		entry := q[0]
		m.pendingExceptions[i] = append(q[1:], entry)

		var msg mbx.Message
		msg.Type = mbx.Exception
		msg.Source = pidKernel
		msg.Destination = p
		info := EventInformation{
			ID:          entry.Desc.Sequence,
			Pid:         uint32(entry.Payload.FaultingPid),
			Number:      entry.Payload.Vector,
			Code:        entry.Payload.Code,
			Address:     entry.Payload.FaultAddress,
			Instruction: entry.Payload.FaultingInstruction,
		}
		encodeEventInformation(&msg.Payload, info)
		return msg, true
	}
	return mbx.Message{}, false
}

func (m *Manager) deliverSchedulingLocked(p pid.Pid, owned Owned) (mbx.Message, bool) {
	for i := 0; i < NSched; i++ {
		if !owned.Scheduling[i] {
			continue
		}
		q := m.pendingScheduling[i]
		if len(q) == 0 {
			continue
		}
		entry := q[0]
		m.pendingScheduling[i] = q[1:]

		var msg mbx.Message
		msg.Type = mbx.SchedulingEvent
		msg.Source = pidKernel
		msg.Destination = p
		encodeTerminationPayload(&msg.Payload, uint32(entry.Term.Pid), entry.Term.ExitStatus)
		return msg, true
	}
	return mbx.Message{}, false
}

// pidKernel is spec.md §3's reserved KERNEL pid, used as Source on every
// kernel-originated message.
const pidKernel pid.Pid = 0

// Resume implements spec.md §4.3's non-blocking resume(event_descriptor).
func (m *Manager) Resume(desc EventDescriptor) error {
	if !m.mu.TryLock() {
		return errPermissionDeniedReentrant()
	}
	defer m.mu.Unlock()

	switch desc.Event.Class {
	case ClassInterrupt, ClassScheduling:
		return nil
	case ClassException:
		return m.resumeExceptionLocked(desc)
	default:
		return errno.ErrInvalidArgument
	}
}

func (m *Manager) resumeExceptionLocked(desc EventDescriptor) error {
	idx := desc.Event.Index
	if idx < 0 || idx >= m.w {
		return errno.ErrInvalidArgument
	}
	q := m.pendingExceptions[idx]
	pos := -1
	for i, e := range q {
		if e.Desc.Sequence == desc.Sequence {
			pos = i
			break
		}
	}
	if pos == -1 {
		return errno.ErrNoSuchEntry
	}
	entry := q[pos]
	m.pendingExceptions[idx] = append(q[:pos], q[pos+1:]...)

	if !m.exceptionOwner[idx].present {
		// Owner unregistered between delivery and resume; the kernel
		// cannot safely continue a faulting process with no registered
		// handler (spec.md §4.3).
		m.pmgr.Terminate(entry.Payload.FaultingPid, -1)
		return nil
	}
	entry.Resume.notify()
	return nil
}

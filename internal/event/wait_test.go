package event

import (
	"testing"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/ipc/mbx"
	"github.com/LucasGdosR/kernel/internal/pid"
	"github.com/LucasGdosR/kernel/internal/pm"
)

// TestDeliverInterruptFIFOWithinQueue covers P3: within one owned
// (class, index) queue, entries are delivered head-first in the order
// they were injected.
func TestDeliverInterruptFIFOWithinQueue(t *testing.T) {
	m, _, _, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.InterruptControl)
	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 0}); err != nil {
		t.Fatalf("register: %v", err)
	}

	first := EventDescriptor{Sequence: 1, Event: Event{Class: ClassInterrupt, Index: 0}}
	second := EventDescriptor{Sequence: 2, Event: Event{Class: ClassInterrupt, Index: 0}}
	m.pendingInterrupts[0] = []EventDescriptor{first, second}
	owned := m.ownedLocked(testPid)

	if _, ok := m.deliverInterruptLocked(testPid, owned); !ok {
		t.Fatal("expected a pending interrupt to be delivered")
	}
	if len(m.pendingInterrupts[0]) != 1 {
		t.Fatalf("expected one entry left in queue, got %d", len(m.pendingInterrupts[0]))
	}
	if m.pendingInterrupts[0][0].Sequence != second.Sequence {
		t.Fatalf("expected the earlier entry (seq %d) dequeued first, seq %d remains",
			first.Sequence, m.pendingInterrupts[0][0].Sequence)
	}
}

// TestSequenceNumbersMonotonicAcrossInterleavedClasses covers P4: the
// global sequence counter strictly increases regardless of which class
// injects next.
func TestSequenceNumbersMonotonicAcrossInterleavedClasses(t *testing.T) {
	m, _, _, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.InterruptControl)
	caps.Grant(testPid, capability.ExceptionControl)
	caps.Grant(testPid, capability.ProcessManagement)
	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 0}); err != nil {
		t.Fatalf("register interrupt: %v", err)
	}
	if _, err := m.Register(testPid, Event{Class: ClassException, Index: 0}); err != nil {
		t.Fatalf("register exception: %v", err)
	}
	if _, err := m.Register(testPid, Event{Class: ClassScheduling, Index: ProcessTermination}); err != nil {
		t.Fatalf("register scheduling: %v", err)
	}

	if err := m.WakeupInterrupt(1); err != nil {
		t.Fatalf("wakeup interrupt: %v", err)
	}
	if _, err := m.WakeupException(1, pid.Pid(7), ExceptionPayload{}); err != nil {
		t.Fatalf("wakeup exception: %v", err)
	}
	if err := m.NotifyProcessTermination(pm.Termination{Pid: 8, ExitStatus: -1}); err != nil {
		t.Fatalf("notify termination: %v", err)
	}
	if err := m.WakeupInterrupt(1); err != nil {
		t.Fatalf("second wakeup interrupt: %v", err)
	}

	if m.nevents != 4 {
		t.Fatalf("expected 4 injected events, nevents=%d", m.nevents)
	}

	gotInterrupt := []uint64{m.pendingInterrupts[0][0].Sequence, m.pendingInterrupts[0][1].Sequence}
	if gotInterrupt[0] != 1 || gotInterrupt[1] != 4 {
		t.Fatalf("expected interrupt sequence numbers [1 4], got %v", gotInterrupt)
	}
	if seq := m.pendingExceptions[0][0].Desc.Sequence; seq != 2 {
		t.Fatalf("expected exception sequence 2, got %d", seq)
	}
	if seq := m.pendingScheduling[ProcessTermination][0].Desc.Sequence; seq != 3 {
		t.Fatalf("expected scheduling sequence 3, got %d", seq)
	}
}

// TestTryWaitRotatesStartingClassBySequenceCounter covers P5: the class
// scanned first rotates with nevents%3, so which class wins a tie
// between two simultaneously-pending classes depends on how many events
// have been injected so far, not a fixed priority order.
func TestTryWaitRotatesStartingClassBySequenceCounter(t *testing.T) {
	m, _, _, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.InterruptControl)
	caps.Grant(testPid, capability.ProcessManagement)
	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 0}); err != nil {
		t.Fatalf("register interrupt: %v", err)
	}
	if _, err := m.Register(testPid, Event{Class: ClassScheduling, Index: ProcessTermination}); err != nil {
		t.Fatalf("register scheduling: %v", err)
	}
	owned := m.ownedLocked(testPid)

	// selector = nevents%3 = 0 -> scan order interrupt, exception, scheduling:
	// the pending interrupt wins even though scheduling is also pending.
	m.pendingInterrupts[0] = []EventDescriptor{{Sequence: 1, Event: Event{Class: ClassInterrupt, Index: 0}}}
	m.pendingScheduling[ProcessTermination] = []schedulingEntry{{
		Desc: EventDescriptor{Sequence: 2, Event: Event{Class: ClassScheduling, Index: ProcessTermination}},
		Term: pm.Termination{Pid: 9, ExitStatus: -1},
	}}
	m.nevents = 3
	msg, ok := m.tryWaitLocked(testPid, owned)
	if !ok || msg.Type != mbx.Interrupt {
		t.Fatalf("selector 0: expected interrupt served first, got type=%v ok=%v", msg.Type, ok)
	}
	if len(m.pendingScheduling[ProcessTermination]) != 1 {
		t.Fatal("selector 0: scheduling entry should remain pending, untouched")
	}

	// selector = nevents%3 = 1 -> scan order exception, scheduling, interrupt:
	// with exception empty, scheduling now wins ahead of a re-pending interrupt.
	m.pendingInterrupts[0] = []EventDescriptor{{Sequence: 3, Event: Event{Class: ClassInterrupt, Index: 0}}}
	m.nevents = 4
	msg2, ok2 := m.tryWaitLocked(testPid, owned)
	if !ok2 || msg2.Type != mbx.SchedulingEvent {
		t.Fatalf("selector 1: expected scheduling served first, got type=%v ok=%v", msg2.Type, ok2)
	}
	if len(m.pendingInterrupts[0]) != 1 {
		t.Fatal("selector 1: interrupt entry should remain pending, untouched")
	}
}

// TestExceptionRedeliveredBeforeResumeButNotAfter covers P6 and P7: an
// un-acknowledged exception is handed out again on every Wait (it is
// re-queued at the tail, not removed), but Resume removes it for good so
// it is never delivered a third time.
func TestExceptionRedeliveredBeforeResumeButNotAfter(t *testing.T) {
	m, _, _, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.ExceptionControl)
	if _, err := m.Register(testPid, Event{Class: ClassException, Index: 0}); err != nil {
		t.Fatalf("register: %v", err)
	}

	handle, err := m.WakeupException(1, pid.Pid(7), ExceptionPayload{Vector: 13})
	if err != nil {
		t.Fatalf("wakeup exception: %v", err)
	}
	if handle == nil {
		t.Fatal("expected a non-nil resume handle for an owned exception")
	}

	msg1, err := m.Wait(testPid)
	if err != nil {
		t.Fatalf("first wait: %v", err)
	}
	if msg1.Type != mbx.Exception {
		t.Fatalf("expected an exception message, got %v", msg1.Type)
	}
	if len(m.pendingExceptions[0]) != 1 {
		t.Fatalf("expected the exception re-queued pending resume, got %d entries", len(m.pendingExceptions[0]))
	}

	msg2, err := m.Wait(testPid)
	if err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if msg2.Type != mbx.Exception {
		t.Fatalf("expected the same unresolved exception redelivered, got %v", msg2.Type)
	}
	if len(m.pendingExceptions[0]) != 1 {
		t.Fatalf("expected the exception still pending after redelivery, got %d entries", len(m.pendingExceptions[0]))
	}

	desc := EventDescriptor{Sequence: 1, Event: Event{Class: ClassException, Index: 0}}
	done := make(chan struct{})
	go func() {
		handle.Wait()
		close(done)
	}()
	if err := m.Resume(desc); err != nil {
		t.Fatalf("resume: %v", err)
	}
	<-done

	if len(m.pendingExceptions[0]) != 0 {
		t.Fatalf("expected the exception entry removed after resume, got %d entries", len(m.pendingExceptions[0]))
	}
}

// TestTryWaitPrefersEventOverMailboxMessage covers P11: an owned
// interrupt/exception/scheduling event takes precedence over a plain IPC
// mailbox message, even when both are deliverable to the same process.
func TestTryWaitPrefersEventOverMailboxMessage(t *testing.T) {
	m, _, p, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.InterruptControl)
	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 0}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := m.WakeupInterrupt(1); err != nil {
		t.Fatalf("wakeup: %v", err)
	}
	box := p.Mailbox(testPid)
	box.Send(mbx.Message{Source: pid.Pid(3), Destination: testPid, Type: mbx.Ipc})

	msg, err := m.Wait(testPid)
	if err != nil {
		t.Fatalf("first wait: %v", err)
	}
	if msg.Type != mbx.Interrupt {
		t.Fatalf("expected the pending event to take precedence over mailbox IPC, got %v", msg.Type)
	}

	msg2, err := m.Wait(testPid)
	if err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if msg2.Type != mbx.Ipc {
		t.Fatalf("expected the mailbox message delivered once the event queue drained, got %v", msg2.Type)
	}
}

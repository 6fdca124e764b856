package event

import (
	"testing"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/klog"
	"github.com/LucasGdosR/kernel/internal/pid"
	"github.com/LucasGdosR/kernel/internal/pm"
	"github.com/LucasGdosR/kernel/internal/testhal"
	"github.com/LucasGdosR/kernel/internal/testpm"
)

const testPid pid.Pid = 42

func newTestManager(t *testing.T, width int) (*Manager, *testhal.Fake, *testpm.Fake, *capability.Set) {
	t.Helper()
	caps := capability.NewSet()
	h := testhal.New(width)
	p := testpm.New(caps)
	m := Init(h, p, caps, klog.Noop())
	t.Cleanup(resetForTest)
	return m, h, p, caps
}

func TestRegisterRequiresCapability(t *testing.T) {
	m, _, _, _ := newTestManager(t, 8)
	_, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 0})
	if err == nil {
		t.Fatal("expected permission denied without capability")
	}
}

func TestRegisterUnregisterRoundTrip(t *testing.T) {
	m, _, _, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.InterruptControl)

	handle, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 3})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = m.Register(testPid, Event{Class: ClassInterrupt, Index: 3})
	if err == nil {
		t.Fatal("expected ErrResourceBusy on double-register")
	}

	handle.Close()

	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 3}); err != nil {
		t.Fatalf("re-register after close: %v", err)
	}
}

func TestRegisterIndexOutOfRange(t *testing.T) {
	m, _, _, caps := newTestManager(t, 4)
	caps.Grant(testPid, capability.InterruptControl)
	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 4}); err == nil {
		t.Fatal("expected out-of-range index to fail")
	}
}

func TestRegisterInterruptRequiresCapableHal(t *testing.T) {
	m, h, _, caps := newTestManager(t, 4)
	h.SetInterruptCapable(false)
	caps.Grant(testPid, capability.InterruptControl)
	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 0}); err == nil {
		t.Fatal("expected ErrOperationNotSupported with no IRQ controller")
	}
}

func TestWakeupInterruptDeliversToOwner(t *testing.T) {
	m, _, _, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.InterruptControl)
	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 2}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := m.WakeupInterrupt(1 << 2); err != nil {
		t.Fatalf("wakeup: %v", err)
	}

	msg, err := m.Wait(testPid)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if msg.Destination != testPid {
		t.Fatalf("destination = %v, want %v", msg.Destination, testPid)
	}
}

func TestWakeupInterruptNoOwnerReturnsNoSuchProcess(t *testing.T) {
	m, _, _, _ := newTestManager(t, 8)
	if err := m.WakeupInterrupt(1); err == nil {
		t.Fatal("expected ErrNoSuchProcess for an orphaned interrupt")
	}
}

func TestExceptionResumeRoundTrip(t *testing.T) {
	m, _, _, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.ExceptionControl)
	if _, err := m.Register(testPid, Event{Class: ClassException, Index: 0}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resumeHandle, err := m.WakeupException(1, pid.Pid(7), ExceptionPayload{Vector: 13})
	if err != nil {
		t.Fatalf("wakeup exception: %v", err)
	}
	if resumeHandle == nil {
		t.Fatal("expected a non-nil resume handle for an owned exception")
	}

	if _, err := m.Wait(testPid); err != nil {
		t.Fatalf("wait: %v", err)
	}

	done := make(chan struct{})
	go func() {
		resumeHandle.Wait()
		close(done)
	}()

	desc := EventDescriptor{Sequence: 1, Event: Event{Class: ClassException, Index: 0}}
	if err := m.Resume(desc); err != nil {
		t.Fatalf("resume: %v", err)
	}
	<-done
}

func TestExceptionOrphanTerminatesFaultingProcess(t *testing.T) {
	m, _, p, _ := newTestManager(t, 8)
	faulting := pid.Pid(9)
	handle, err := m.WakeupException(1, faulting, ExceptionPayload{})
	if err != nil {
		t.Fatalf("wakeup exception: %v", err)
	}
	if handle != nil {
		t.Fatal("expected a nil handle when no owner is registered")
	}
	terminated := p.Terminated()
	if len(terminated) != 1 || terminated[0].Pid != faulting {
		t.Fatalf("expected faulting pid %v terminated, got %v", faulting, terminated)
	}
}

func TestNotifyProcessTerminationRequiresOwner(t *testing.T) {
	m, _, _, _ := newTestManager(t, 8)
	if err := m.NotifyProcessTermination(pm.Termination{Pid: 5, ExitStatus: -1}); err == nil {
		t.Fatal("expected ErrNoSuchProcess with no scheduling-event owner")
	}
}

func TestReentrantRegisterFails(t *testing.T) {
	m, _, _, caps := newTestManager(t, 8)
	caps.Grant(testPid, capability.InterruptControl)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.Register(testPid, Event{Class: ClassInterrupt, Index: 0}); err == nil {
		t.Fatal("expected reentrant borrow to fail deterministically")
	}
}

package event

import (
	"sync"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/errno"
	"github.com/LucasGdosR/kernel/internal/hal"
	"github.com/LucasGdosR/kernel/internal/klog"
	"github.com/LucasGdosR/kernel/internal/pm"
)

// The Event Manager is a process-wide singleton with an init-once /
// use-after lifecycle (spec.md §9). Get returns ErrTryAgain before
// Init; afterwards it returns the Manager from the most recent Init call.
var (
	singletonMu sync.RWMutex
	singleton   *Manager
)

// Init populates the singleton's ownership tables and empty pending
// queues and returns it. Calling Init more than once replaces the
// singleton; callers are expected to call it exactly once at boot, the
// way the teacher's runtimeStatusStore is populated once during startup.
func Init(h hal.Hal, p pm.ProcessManager, caps *capability.Set, log klog.Sink) *Manager {
	w := h.WordWidth()
	m := &Manager{
		hal:  h,
		pmgr: p,
		caps: caps,
		log:  log,
		w:    w,

		interruptOwner:  make([]ownerSlot, w),
		exceptionOwner:  make([]ownerSlot, w),
		schedulingOwner: make([]ownerSlot, NSched),

		pendingInterrupts: make([][]EventDescriptor, w),
		pendingExceptions: make([][]exceptionEntry, w),
		pendingScheduling: make([][]schedulingEntry, NSched),
	}
	m.cond = sync.NewCond(&m.mu)

	singletonMu.Lock()
	singleton = m
	singletonMu.Unlock()
	return m
}

// Get returns the initialized singleton, or ErrTryAgain if Init has not
// run yet (spec.md §9).
func Get() (*Manager, error) {
	singletonMu.RLock()
	defer singletonMu.RUnlock()
	if singleton == nil {
		return nil, errno.ErrTryAgain
	}
	return singleton, nil
}

// resetForTest clears the singleton. Exercised only by internal tests
// that need independent Manager instances across subtests.
func resetForTest() {
	singletonMu.Lock()
	singleton = nil
	singletonMu.Unlock()
}

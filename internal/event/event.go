// Package event implements the Event Manager (spec.md §4.2-§4.3,
// component C3): the ownership registry for interrupts, exceptions and
// scheduling events, their per-event pending queues, the wait/resume
// condvar handshake, and the three injection paths.
//
// Concurrency model follows spec.md §5/§9: a single exclusive-borrow
// discipline over one mutex. Every mutating entry point attempts
// mu.TryLock(); failure means a reentrant call from the same logical
// flow of control (a programming error under the single-dispatcher
// assumption) and returns errno.ErrPermissionDenied immediately rather
// than deadlocking. TryLock never blocks, which is what keeps the
// injection paths wait-free (spec.md §5's "injectors... must not
// block"). Wait is the sole operation allowed to suspend, via
// sync.Cond.Wait, matching spec.md §9's "a single mutex (uncontended on
// uniprocessor)".
package event

import (
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/errno"
	"github.com/LucasGdosR/kernel/internal/hal"
	"github.com/LucasGdosR/kernel/internal/klog"
	"github.com/LucasGdosR/kernel/internal/pid"
	"github.com/LucasGdosR/kernel/internal/pm"
)

// errPermissionDeniedReentrant is returned by every entry point when
// mu.TryLock fails — a reentrant call under the single-exclusive-borrow
// discipline (spec.md §5).
func errPermissionDeniedReentrant() error {
	return pkgerrors.Wrap(errno.ErrPermissionDenied, "reentrant event manager borrow")
}

// Class is one of the three event classes spec.md §3 names.
type Class uint8

const (
	ClassInterrupt Class = iota
	ClassException
	ClassScheduling
)

func (c Class) String() string {
	switch c {
	case ClassInterrupt:
		return "interrupt"
	case ClassException:
		return "exception"
	case ClassScheduling:
		return "scheduling"
	default:
		return "unknown"
	}
}

// NSched is the number of scheduling-event kinds. spec.md §3: "currently
// NSCHED = 1 with the single kind ProcessTermination."
const NSched = 1

// ProcessTermination is the one scheduling-event kind currently defined.
const ProcessTermination = 0

// Event is the tagged (class, index) pair spec.md §3 calls a variant of
// the Event union.
type Event struct {
	Class Class
	Index int
}

// EventDescriptor uniquely identifies one pending event occurrence
// (spec.md §3).
type EventDescriptor struct {
	Sequence uint64
	Event    Event
}

// ExceptionPayload carries the faulting process's context (spec.md §3).
type ExceptionPayload struct {
	FaultingPid         pid.Pid
	Vector              uint32
	Code                uint32
	FaultAddress        uint32
	FaultingInstruction uint32
}

// exceptionEntry is one pending exception occurrence together with the
// condvar the faulting process's trap handler is parked on.
type exceptionEntry struct {
	Desc    EventDescriptor
	Payload ExceptionPayload
	Resume  *ResumeHandle
}

// schedulingEntry is one pending scheduling-event occurrence.
type schedulingEntry struct {
	Desc EventDescriptor
	Term pm.Termination
}

// ownerSlot tracks at most one owning pid for one (class, index) pair.
type ownerSlot struct {
	owner   pid.Pid
	present bool
}

// Manager is the Event Manager singleton described by spec.md §4.2-§4.3.
type Manager struct {
	mu   sync.Mutex
	cond *sync.Cond

	hal  hal.Hal
	pmgr pm.ProcessManager
	caps *capability.Set
	log  klog.Sink

	w int // word width bounding interrupt/exception indices

	interruptOwner  []ownerSlot
	exceptionOwner  []ownerSlot
	schedulingOwner []ownerSlot

	pendingInterrupts [][]EventDescriptor
	pendingExceptions [][]exceptionEntry
	pendingScheduling [][]schedulingEntry

	nevents uint64
}

// ResumeHandle is a one-shot condition variable the faulting process's
// trap-handler thread of control parks on, notified exactly once by the
// owner's Resume call (spec.md §3).
type ResumeHandle struct {
	id   uuid.UUID
	ch   chan struct{}
	once sync.Once
}

func newResumeHandle() *ResumeHandle {
	return &ResumeHandle{id: uuid.New(), ch: make(chan struct{})}
}

// Wait blocks until Resume notifies this handle.
func (h *ResumeHandle) Wait() { <-h.ch }

func (h *ResumeHandle) notify() { h.once.Do(func() { close(h.ch) }) }

// ID is the handle's log-correlation identity (SPEC_FULL.md §1.6); never
// serialized to the wire.
func (h *ResumeHandle) ID() uuid.UUID { return h.id }

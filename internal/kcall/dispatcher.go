package kcall

import (
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/errno"
	"github.com/LucasGdosR/kernel/internal/event"
	"github.com/LucasGdosR/kernel/internal/klog"
	"github.com/LucasGdosR/kernel/internal/pid"
	"github.com/LucasGdosR/kernel/internal/pm"
)

// Credentials is the per-process uid/gid table the identity kcalls
// (spec.md §6) read and write. The Event Manager's capability.Set
// governs event-ownership rights; Credentials is a separate, simpler
// table for the classic Unix identity calls, which spec.md lists but
// does not otherwise specify semantics for.
type Credentials struct {
	Uid, Gid, Euid, Egid uint32
}

// ExternalHandler services a kcall number whose effects spec.md §2
// assigns to a collaborator outside this core (the VM page allocator,
// the MMIO/PMIO port allocator). The dispatcher recognizes the number
// — it is never InvalidSysCall — but delegates the effect.
type ExternalHandler func(Request) int32

// Dispatcher runs the single-threaded cooperative loop of spec.md §4.4:
// pull a request off the scoreboard, dispatch it, report the result,
// and reap zombies into scheduling events before the next iteration.
type Dispatcher struct {
	board Scoreboard
	evmgr *event.Manager
	pmgr  pm.ProcessManager
	caps  *capability.Set
	log   klog.Sink

	external map[Number]ExternalHandler

	credMu sync.Mutex
	creds  map[pid.Pid]*Credentials

	handleMu sync.Mutex
	handles  map[uint32]*event.OwnershipHandle
	nextID   uint32
}

// New builds a Dispatcher. external may be nil; missing entries for
// out-of-scope kcall numbers fall back to a logged stub that reports
// success, since spec.md recognizes the number without detailing an
// effect for this core to perform.
func New(board Scoreboard, evmgr *event.Manager, pmgr pm.ProcessManager, caps *capability.Set, log klog.Sink, external map[Number]ExternalHandler) *Dispatcher {
	if external == nil {
		external = map[Number]ExternalHandler{}
	}
	return &Dispatcher{
		board:    board,
		evmgr:    evmgr,
		pmgr:     pmgr,
		caps:     caps,
		log:      log,
		external: external,
		creds:    make(map[pid.Pid]*Credentials),
		handles:  make(map[uint32]*event.OwnershipHandle),
		nextID:   1,
	}
}

// Run executes the dispatch loop until the scoreboard reports
// ErrInterrupted, or a reaped zombie is PROCD (spec.md §4.4 step 4, §8
// P10, scenario S5) — either way the loop exits and drains whatever
// zombies remain before returning.
func (d *Dispatcher) Run() {
	for {
		req, err := d.board.Handle()
		switch {
		case err == nil:
			ret := d.dispatch(req)
			d.board.Handled(ret)
			if d.reapZombies() {
				d.drainZombies()
				return
			}
		case pkgerrors.Cause(err) == errno.ErrInterrupted:
			d.drainZombies()
			return
		case pkgerrors.Cause(err) == errno.ErrOperationWouldBlock:
			d.pmgr.Switch()
		default:
			d.log.Errorf("scoreboard handle failed: %v", err)
		}
	}
}

// reapZombies publishes one ProcessTermination scheduling event per
// harvested zombie, in harvest order, except for PROCD, which gets no
// event (spec.md §4.4 step 4, P10): PROCD's termination is the
// dispatcher's sole shutdown trigger, not an ordinary scheduling event.
// Zombies harvested in the same batch as PROCD are still published.
// Reports true when the caller must shut down.
func (d *Dispatcher) reapZombies() (shutdown bool) {
	for _, term := range d.pmgr.HarvestZombies() {
		if term.Pid == pid.PROCD {
			d.log.Infof("PROCD terminated status=%d: shutting down", term.ExitStatus)
			shutdown = true
			continue
		}
		if err := d.evmgr.NotifyProcessTermination(term); err != nil {
			d.log.Warnf("process termination notify for pid=%d failed: %v", term.Pid, err)
		}
	}
	return shutdown
}

// drainZombies is reapZombies run to quiescence on shutdown, so no
// terminated process is left unreported (spec.md §4.4's drain-on-stop
// step, supplemented per SPEC_FULL.md §3).
func (d *Dispatcher) drainZombies() {
	for {
		zs := d.pmgr.HarvestZombies()
		if len(zs) == 0 {
			return
		}
		for _, term := range zs {
			d.log.Infof("drain: reaped pid=%d status=%d", term.Pid, term.ExitStatus)
			if err := d.evmgr.NotifyProcessTermination(term); err != nil {
				d.log.Warnf("drain: process termination notify for pid=%d failed: %v", term.Pid, err)
			}
		}
	}
}

func (d *Dispatcher) dispatch(req Request) int32 {
	switch req.Number {
	case Debug:
		return d.handleDebug(req)
	case GetUid, GetGid, GetEuid, GetEgid:
		return d.handleGetCred(req)
	case SetUid, SetGid, SetEuid, SetEgid:
		return d.handleSetCred(req)
	case CapCtl:
		return d.handleCapCtl(req)
	case Terminate:
		return d.handleTerminate(req)
	case EventCtrl:
		return d.handleEventCtrl(req)
	case Send:
		return d.handleSend(req)
	case Recv:
		return d.handleRecv(req)
	case MemoryMap, MemoryUnmap, MemoryCtrl, MemoryCopy,
		AllocMmio, FreeMmio, AllocPmio, FreePmio, ReadPmio, WritePmio:
		return d.handleExternal(req)
	case GetPid, GetTid:
		// spec.md §4.4: these are handled by the trap entry's fast path
		// and must never reach the dispatcher.
		d.log.Errorf("kcall %s reached the dispatcher; trap entry fast path is missing", req.Number)
		return errno.Code(errno.ErrInvalidSysCall)
	default:
		return errno.Code(errno.ErrInvalidSysCall)
	}
}

func (d *Dispatcher) handleExternal(req Request) int32 {
	if h, ok := d.external[req.Number]; ok {
		return h(req)
	}
	d.log.Warnf("kcall %s has no external handler wired; returning success", req.Number)
	return 0
}

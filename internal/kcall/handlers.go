package kcall

import (
	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/errno"
	"github.com/LucasGdosR/kernel/internal/event"
	"github.com/LucasGdosR/kernel/internal/pid"
)

func (d *Dispatcher) handleDebug(req Request) int32 {
	d.log.Infof("debug pid=%s: %s", req.Caller, req.DebugMsg)
	return 0
}

func (d *Dispatcher) credFor(p pid.Pid) *Credentials {
	d.credMu.Lock()
	defer d.credMu.Unlock()
	c, ok := d.creds[p]
	if !ok {
		c = &Credentials{}
		d.creds[p] = c
	}
	return c
}

func (d *Dispatcher) handleGetCred(req Request) int32 {
	c := d.credFor(req.Caller)
	d.credMu.Lock()
	defer d.credMu.Unlock()
	switch req.Number {
	case GetUid:
		return int32(c.Uid)
	case GetGid:
		return int32(c.Gid)
	case GetEuid:
		return int32(c.Euid)
	default:
		return int32(c.Egid)
	}
}

func (d *Dispatcher) handleSetCred(req Request) int32 {
	c := d.credFor(req.Caller)
	d.credMu.Lock()
	defer d.credMu.Unlock()
	v := uint32(req.Args[0])
	switch req.Number {
	case SetUid:
		c.Uid = v
	case SetGid:
		c.Gid = v
	case SetEuid:
		c.Euid = v
	default:
		c.Egid = v
	}
	return 0
}

// handleCapCtl grants or revokes capability bits on a target pid.
// Args: [0]=target pid, [1]=capability bitmask, [2]=0 grant/1 revoke.
func (d *Dispatcher) handleCapCtl(req Request) int32 {
	target := pid.Pid(req.Args[0])
	caps := capability.Capability(req.Args[1])
	revoke := req.Args[2] != 0

	if !d.caps.Has(req.Caller, capability.ProcessManagement) {
		return errno.Code(errno.ErrPermissionDenied)
	}
	if revoke {
		d.caps.Revoke(target, caps)
	} else {
		d.caps.Grant(target, caps)
	}
	return 0
}

// handleTerminate ends the target process. Args[0] is the target pid,
// Args[1] the exit status.
func (d *Dispatcher) handleTerminate(req Request) int32 {
	target := pid.Pid(req.Args[0])
	status := int32(req.Args[1])
	d.pmgr.Terminate(target, status)
	return 0
}

// handleEventCtrl implements evctrl(event, request) (spec.md §6):
// Args[0]=class tag, Args[1]=index, Args[2]=request (0 Register,
// 1 Unregister). On Register, success returns a positive opaque handle
// id rather than the OwnershipHandle itself, since the scoreboard's
// return channel is a single int32.
func (d *Dispatcher) handleEventCtrl(req Request) int32 {
	class, ok := classFromTag(ClassTag(req.Args[0]))
	if !ok {
		return errno.Code(errno.ErrInvalidArgument)
	}
	ev := event.Event{Class: class, Index: int(req.Args[1])}

	switch EventCtrlRequest(req.Args[2]) {
	case EventCtrlRegister:
		handle, err := d.evmgr.Register(req.Caller, ev)
		if err != nil {
			return errno.Code(err)
		}
		d.handleMu.Lock()
		id := d.nextID
		d.nextID++
		d.handles[id] = handle
		d.handleMu.Unlock()
		return int32(id)
	case EventCtrlUnregister:
		if err := d.evmgr.Unregister(req.Caller, ev); err != nil {
			return errno.Code(err)
		}
		return 0
	default:
		return errno.Code(errno.ErrInvalidArgument)
	}
}

func classFromTag(tag ClassTag) (event.Class, bool) {
	switch tag {
	case ClassTagInterrupt:
		return event.ClassInterrupt, true
	case ClassTagException:
		return event.ClassException, true
	case ClassTagScheduling:
		return event.ClassScheduling, true
	default:
		return 0, false
	}
}

// handleSend implements IPC send (spec.md §4.3). req.Msg must be
// populated by the trap entry from the caller's scoreboard slot.
func (d *Dispatcher) handleSend(req Request) int32 {
	if req.Msg == nil {
		return errno.Code(errno.ErrInvalidArgument)
	}
	msg := *req.Msg
	msg.Source = req.Caller
	if err := d.evmgr.PostMessage(msg.Destination, msg); err != nil {
		return errno.Code(err)
	}
	return 0
}

// handleRecv implements IPC receive: block on the Event Manager's Wait
// until a message is deliverable, then store it in *req.Msg when req.Msg
// is non-nil. The actual copy into userland memory is the MemoryCopy
// collaborator's job (spec.md §2, out of scope).
func (d *Dispatcher) handleRecv(req Request) int32 {
	msg, err := d.evmgr.Wait(req.Caller)
	if err != nil {
		return errno.Code(err)
	}
	if req.Msg != nil {
		*req.Msg = msg
	}
	return 0
}

// Package pm declares the Process Manager interface the kernel core
// treats as an external collaborator (spec.md §1, component C2): process
// identity, capabilities, per-process mailbox, context switching, and
// termination/reaping. ELF loading and virtual-memory page allocation
// are out of scope and never referenced here.
package pm

import (
	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/ipc/mbx"
	"github.com/LucasGdosR/kernel/internal/pid"
)

// Termination describes one reaped zombie (spec.md §3's TerminationPayload).
type Termination struct {
	Pid        pid.Pid
	ExitStatus int32
}

// ProcessManager is the narrow surface the Event Manager and kcall
// dispatcher depend on.
type ProcessManager interface {
	// Capabilities returns the live capability table. evctrl's Register
	// path does not call it; it consults the capability.Set passed to
	// event.Init.
	Capabilities() *capability.Set

	// Mailbox returns p's mailbox, creating it on first access.
	Mailbox(p pid.Pid) *mbx.Mailbox

	// Switch yields the dispatcher's thread of control to userland,
	// invoked on ErrOperationWouldBlock from the scoreboard (spec.md
	// §4.4 step 1).
	Switch()

	// HarvestZombies reaps all processes that have exited since the
	// last call and returns their termination records (spec.md §4.4
	// step 4). Order is unspecified; the dispatcher processes each in
	// turn.
	HarvestZombies() []Termination

	// Terminate forcibly ends p with the given exit status. Used by the
	// Event Manager's orphan-exception policy (spec.md §4.3) and the
	// failed-resume path (spec.md §4.3 "Failure mode for exception
	// delivery").
	Terminate(p pid.Pid, status int32)
}

package kcall

import (
	"github.com/LucasGdosR/kernel/internal/ipc/mbx"
	"github.com/LucasGdosR/kernel/internal/pid"
)

// Request is one decoded kcall invocation pulled off the scoreboard.
// Args carries the raw, already-decoded arguments; Msg and DebugMsg
// carry the structured payloads that would otherwise require a raw
// memory-copy collaborator (MemoryCopy, out of scope per spec.md §2's
// external-collaborator list) to assemble from a userland pointer.
type Request struct {
	Caller   pid.Pid
	Number   Number
	Args     [4]uint64
	DebugMsg string
	Msg      *mbx.Message
}

// Scoreboard is the trap-side handoff surface (spec.md §4.4): userland
// deposits a request and blocks (or spins) until Handled reports the
// return value back. Handle returns a request, or an error:
// ErrInterrupted signals a clean shutdown request, ErrOperationWouldBlock
// makes the dispatcher yield via ProcessManager.Switch, and any other
// error is logged.
type Scoreboard interface {
	// Handle blocks until the next request is ready or it has an error
	// to report.
	Handle() (Request, error)
	// Handled reports ret, the kcall's return value (an errno.Code on
	// failure, a non-negative result on success), back to the caller.
	Handled(ret int32)
}

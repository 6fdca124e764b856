// Package pid defines the kernel's process-identifier type and its two
// reserved values.
package pid

import "strconv"

// Pid is an opaque process identifier. Zero is not reserved by this
// package; allocation policy belongs to the Process Manager.
type Pid uint32

const (
	// KERNEL is the reserved pid used as the source of kernel-generated
	// messages (timer ticks, scheduling events with no originating process).
	KERNEL Pid = 0

	// PROCD is the process daemon. Its termination is the sole shutdown
	// trigger for the kcall dispatcher (spec.md §4.4, §9).
	PROCD Pid = 1
)

// String renders well-known pids by name for log readability.
func (p Pid) String() string {
	switch p {
	case KERNEL:
		return "KERNEL"
	case PROCD:
		return "PROCD"
	default:
		return strconv.FormatUint(uint64(p), 10)
	}
}

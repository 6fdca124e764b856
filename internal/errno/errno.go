// Package errno defines the kernel's error taxonomy (spec.md §6/§7) and
// translates it to the negative-i32 wire errno userland expects.
package errno

import (
	"github.com/pkg/errors"
)

// Sentinel errors, one per code in spec.md §6. Call sites may wrap these
// with github.com/pkg/errors.Wrapf to attach context; Code still resolves
// the wrapped error back to its wire value via errors.Cause.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidSysCall       = errors.New("invalid syscall number")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrResourceBusy         = errors.New("resource busy")
	ErrOperationNotSupported = errors.New("operation not supported")
	ErrNoSuchEntry          = errors.New("no such entry")
	ErrNoSuchProcess        = errors.New("no such process")
	ErrOutOfMemory          = errors.New("out of memory")
	ErrTryAgain             = errors.New("try again")
	ErrOperationWouldBlock  = errors.New("operation would block")
	ErrInterrupted          = errors.New("interrupted")
	ErrBadFile              = errors.New("bad file")
)

// wireCode maps each sentinel to its negative i32 wire value. The exact
// magnitudes are this implementation's own allocation (spec.md does not
// mandate specific numbers, only that 0 means success and every other
// code is negative); what matters for interop is that Code is a total,
// stable function.
var wireCode = map[error]int32{
	ErrInvalidArgument:       -1,
	ErrInvalidSysCall:        -2,
	ErrPermissionDenied:      -3,
	ErrResourceBusy:          -4,
	ErrOperationNotSupported: -5,
	ErrNoSuchEntry:           -6,
	ErrNoSuchProcess:         -7,
	ErrOutOfMemory:           -8,
	ErrTryAgain:              -9,
	ErrOperationWouldBlock:   -10,
	ErrInterrupted:           -11,
	ErrBadFile:               -12,
}

// Code translates err (possibly wrapped) to its wire errno. Success (nil)
// maps to 0. An error not found in the taxonomy maps to ErrInvalidArgument's
// code, since that is the closest fit for "malformed/unrecognized input"
// and the dispatcher must never propagate an untranslated error to userland.
func Code(err error) int32 {
	if err == nil {
		return 0
	}
	cause := errors.Cause(err)
	if code, ok := wireCode[cause]; ok {
		return code
	}
	return wireCode[ErrInvalidArgument]
}

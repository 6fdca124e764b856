package boot

import (
	"sync"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/ipc/mbx"
	"github.com/LucasGdosR/kernel/internal/pid"
	"github.com/LucasGdosR/kernel/internal/pm"
)

// SoftPM is a minimal ProcessManager: mailboxes allocated on first
// access, capabilities delegated to an internal/capability.Set, and
// termination tracked in a zombie queue reaped by the kcall dispatcher.
// There is no real scheduler behind Switch; ELF loading and
// virtual-memory teardown on termination are out of scope (spec.md §1).
type SoftPM struct {
	caps *capability.Set

	mu         sync.Mutex
	mailboxes  map[pid.Pid]*mbx.Mailbox
	zombies    []pm.Termination
	terminated map[pid.Pid]bool
}

// NewSoftPM returns an empty SoftPM backed by caps.
func NewSoftPM(caps *capability.Set) *SoftPM {
	return &SoftPM{
		caps:       caps,
		mailboxes:  make(map[pid.Pid]*mbx.Mailbox),
		terminated: make(map[pid.Pid]bool),
	}
}

func (s *SoftPM) Capabilities() *capability.Set { return s.caps }

func (s *SoftPM) Mailbox(p pid.Pid) *mbx.Mailbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	box, ok := s.mailboxes[p]
	if !ok {
		box = mbx.New()
		s.mailboxes[p] = box
	}
	return box
}

// Switch does nothing. A real scheduler context-switches to the next
// runnable process; SoftPM has no scheduler and no other process to
// switch to, so the call returns immediately.
func (s *SoftPM) Switch() {
	// Deliberately minimal: out-of-scope scheduler (spec.md §1).
}

func (s *SoftPM) HarvestZombies() []pm.Termination {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.zombies
	s.zombies = nil
	return out
}

func (s *SoftPM) Terminate(p pid.Pid, status int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated[p] {
		return
	}
	s.terminated[p] = true
	s.zombies = append(s.zombies, pm.Termination{Pid: p, ExitStatus: status})
}

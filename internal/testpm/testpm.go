// Package testpm is an in-memory fake of internal/pm, for tests in
// internal/event and internal/kcall that need a ProcessManager without
// a real scheduler.
package testpm

import (
	"sync"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/ipc/mbx"
	"github.com/LucasGdosR/kernel/internal/pid"
	"github.com/LucasGdosR/kernel/internal/pm"
)

// Fake is a minimal ProcessManager: mailboxes are created lazily,
// Switch counts calls, zombies are queued by test code via Kill and
// drained by HarvestZombies, and Terminate records its calls and queues
// the pid as a zombie instead of doing anything destructive.
type Fake struct {
	mu         sync.Mutex
	caps       *capability.Set
	mailboxes  map[pid.Pid]*mbx.Mailbox
	zombies    []pm.Termination
	switches   int
	terminated []pm.Termination
}

// New returns an empty Fake backed by caps.
func New(caps *capability.Set) *Fake {
	return &Fake{caps: caps, mailboxes: make(map[pid.Pid]*mbx.Mailbox)}
}

func (f *Fake) Capabilities() *capability.Set { return f.caps }

func (f *Fake) Mailbox(p pid.Pid) *mbx.Mailbox {
	f.mu.Lock()
	defer f.mu.Unlock()
	box, ok := f.mailboxes[p]
	if !ok {
		box = mbx.New()
		f.mailboxes[p] = box
	}
	return box
}

func (f *Fake) Switch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switches++
}

// Switches reports how many times Switch was called, for assertions.
func (f *Fake) Switches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.switches
}

// Kill queues a zombie for the next HarvestZombies call, simulating a
// process that exited on its own.
func (f *Fake) Kill(p pid.Pid, status int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zombies = append(f.zombies, pm.Termination{Pid: p, ExitStatus: status})
}

func (f *Fake) HarvestZombies() []pm.Termination {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.zombies
	f.zombies = nil
	return out
}

func (f *Fake) Terminate(p pid.Pid, status int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	term := pm.Termination{Pid: p, ExitStatus: status}
	f.terminated = append(f.terminated, term)
	f.zombies = append(f.zombies, term)
}

// Terminated reports every pid Terminate was called on, for assertions.
func (f *Fake) Terminated() []pm.Termination {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]pm.Termination, len(f.terminated))
	copy(out, f.terminated)
	return out
}

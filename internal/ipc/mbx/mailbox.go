// Package mbx implements the per-process IPC mailbox (spec.md §4.1,
// component C4): a FIFO of fixed-size Message records. Blocking
// semantics live one layer up, in the Event Manager's wait/resume
// handshake — the mailbox itself never blocks.
package mbx

import (
	"sync"

	"github.com/LucasGdosR/kernel/internal/pid"
)

// PayloadSize is the Message payload size: one CPU cache line by design
// (spec.md §3).
const PayloadSize = 64

// MessageType discriminates the four kinds of deliverable spec.md §3
// names.
type MessageType uint32

const (
	Ipc MessageType = iota
	Interrupt
	Exception
	SchedulingEvent
)

// Message is the bit-exact wire record of spec.md §6: source (u32),
// destination (u32), message_type (u32), status (i32), payload ([64]byte).
// Total 80 bytes.
type Message struct {
	Source      pid.Pid
	Destination pid.Pid
	Type        MessageType
	Status      int32
	Payload     [PayloadSize]byte
}

// Mailbox is an unbounded FIFO of Message records belonging to one process.
type Mailbox struct {
	mu    sync.Mutex
	queue []Message
}

// New returns an empty mailbox.
func New() *Mailbox {
	return &Mailbox{}
}

// Send enqueues m at the tail. Never blocks (spec.md §4.1).
func (m *Mailbox) Send(msg Message) {
	m.mu.Lock()
	m.queue = append(m.queue, msg)
	m.mu.Unlock()
}

// Receive pops the head message, or reports ok=false if the mailbox is
// empty. Never blocks (spec.md §4.1); blocking is the Event Manager's
// job.
func (m *Mailbox) Receive() (msg Message, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return Message{}, false
	}
	msg = m.queue[0]
	m.queue = m.queue[1:]
	return msg, true
}

// Len reports the number of pending messages, for introspection/tests.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

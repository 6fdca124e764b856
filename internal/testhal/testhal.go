// Package testhal is an in-memory fake of internal/hal, for tests in
// internal/event and internal/kcall that need a Hal without wiring real
// trap/IDT plumbing.
package testhal

import "sync"

// Fake is a trivial Hal: a fixed word width, a togglable
// InterruptCapable flag, and handler registries only tests inspect.
type Fake struct {
	mu       sync.Mutex
	width    int
	irqOk    bool
	irqH     map[int]func()
	excH     map[int]func()
}

// New returns a Fake with the given word width, interrupt-capable.
func New(width int) *Fake {
	return &Fake{width: width, irqOk: true, irqH: map[int]func(){}, excH: map[int]func(){}}
}

// SetInterruptCapable toggles the flag InterruptCapable reports, for
// exercising the no-IRQ-controller path.
func (f *Fake) SetInterruptCapable(ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.irqOk = ok
}

func (f *Fake) InterruptCapable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.irqOk
}

func (f *Fake) WordWidth() int { return f.width }

func (f *Fake) RegisterInterruptHandler(n int, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.irqH[n] = fn
}

func (f *Fake) RegisterExceptionHandler(n int, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.excH[n] = fn
}

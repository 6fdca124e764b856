// Package boot provides the software stand-ins cmd/kerneld wires at
// startup for the HAL and Process-Manager external collaborators
// (spec.md §1, §2): not hardware drivers or a real scheduler, but
// concrete, minimal implementations of the narrow interfaces
// internal/hal and internal/pm declare, enough to run the Event
// Manager and kcall dispatcher end to end.
package boot

import (
	"sync"

	"github.com/LucasGdosR/kernel/internal/sys/config"
)

// SoftHal is a platform-shaped Hal with no real trap wiring: handler
// registration is recorded but never invoked by hardware, since IDT/GDT
// programming is out of scope (spec.md §1).
type SoftHal struct {
	mu         sync.Mutex
	width      int
	irqCapable bool
	irqH       map[int]func()
	excH       map[int]func()
}

// NewSoftHal builds a SoftHal for platform at the given word width. Only
// PlatformPC is modeled as having a legacy interrupt controller; a
// microvm's minimal boot path has none.
func NewSoftHal(platform config.Platform, width int) *SoftHal {
	return &SoftHal{
		width:      width,
		irqCapable: platform == config.PlatformPC,
		irqH:       map[int]func(){},
		excH:       map[int]func(){},
	}
}

func (h *SoftHal) InterruptCapable() bool { return h.irqCapable }

func (h *SoftHal) WordWidth() int { return h.width }

func (h *SoftHal) RegisterInterruptHandler(n int, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.irqH[n] = fn
}

func (h *SoftHal) RegisterExceptionHandler(n int, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.excH[n] = fn
}

package boot

import (
	"testing"

	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/pid"
	"github.com/LucasGdosR/kernel/internal/sys/config"
)

func TestSoftHalInterruptCapableByPlatform(t *testing.T) {
	if !NewSoftHal(config.PlatformPC, 32).InterruptCapable() {
		t.Fatal("pc platform should be interrupt-capable")
	}
	if NewSoftHal(config.PlatformMicroVM, 32).InterruptCapable() {
		t.Fatal("microvm platform should not be interrupt-capable")
	}
}

func TestSoftPMTerminateIsIdempotent(t *testing.T) {
	p := NewSoftPM(capability.NewSet())
	target := pid.Pid(4)
	p.Terminate(target, -1)
	p.Terminate(target, -1)

	zs := p.HarvestZombies()
	if len(zs) != 1 {
		t.Fatalf("expected exactly one zombie from a repeated Terminate, got %d", len(zs))
	}
}

func TestSoftPMMailboxIsStable(t *testing.T) {
	p := NewSoftPM(capability.NewSet())
	target := pid.Pid(9)
	if p.Mailbox(target) != p.Mailbox(target) {
		t.Fatal("Mailbox should return the same instance across calls")
	}
}

package mbx

import (
	"testing"

	"github.com/LucasGdosR/kernel/internal/pid"
)

func TestSendReceiveFIFO(t *testing.T) {
	box := New()
	box.Send(Message{Source: pid.Pid(1), Destination: pid.Pid(2), Type: Ipc})
	box.Send(Message{Source: pid.Pid(3), Destination: pid.Pid(2), Type: Ipc})

	if box.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", box.Len())
	}

	first, ok := box.Receive()
	if !ok || first.Source != pid.Pid(1) {
		t.Fatalf("first message source = %v, want 1", first.Source)
	}
	second, ok := box.Receive()
	if !ok || second.Source != pid.Pid(3) {
		t.Fatalf("second message source = %v, want 3", second.Source)
	}
}

func TestReceiveEmptyReturnsFalse(t *testing.T) {
	box := New()
	if _, ok := box.Receive(); ok {
		t.Fatal("Receive on empty mailbox should report ok=false")
	}
}

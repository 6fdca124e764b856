package kcall

import "testing"

func TestChannelScoreboardSubmitRoundTrip(t *testing.T) {
	board := NewChannelScoreboard()

	go func() {
		req, err := board.Handle()
		if err != nil {
			t.Errorf("Handle: %v", err)
			return
		}
		if req.Number != Debug {
			t.Errorf("Number = %v, want Debug", req.Number)
		}
		board.Handled(5)
	}()

	if got := board.Submit(Request{Number: Debug}); got != 5 {
		t.Fatalf("Submit = %d, want 5", got)
	}
}

func TestChannelScoreboardStopReportsInterrupted(t *testing.T) {
	board := NewChannelScoreboard()
	board.Stop()
	if _, err := board.Handle(); err == nil {
		t.Fatal("expected Handle to report an error after Stop")
	}
}

package kcall

import "github.com/LucasGdosR/kernel/internal/errno"

// ChannelScoreboard is a Go-channel scoreboard: one request in flight at
// a time, matching the single-threaded dispatcher model (spec.md §4.4,
// §9). Submit is the trap-entry side a caller (a test, or a future
// syscall shim) uses to hand off a request and block for its result;
// Handle/Handled are the Scoreboard interface the dispatcher loop drives.
type ChannelScoreboard struct {
	reqs chan Request
	rets chan int32
	stop chan struct{}
}

// NewChannelScoreboard returns an unbuffered scoreboard: Submit blocks
// until the dispatcher picks up the request, and again until it reports
// a result, so there is never more than one in-flight request.
func NewChannelScoreboard() *ChannelScoreboard {
	return &ChannelScoreboard{
		reqs: make(chan Request),
		rets: make(chan int32),
		stop: make(chan struct{}),
	}
}

// Submit hands req to the dispatcher and blocks for its return value.
func (c *ChannelScoreboard) Submit(req Request) int32 {
	c.reqs <- req
	return <-c.rets
}

// Stop causes the next Handle to report ErrInterrupted, the dispatcher
// loop's clean-shutdown signal (spec.md §4.4).
func (c *ChannelScoreboard) Stop() {
	close(c.stop)
}

func (c *ChannelScoreboard) Handle() (Request, error) {
	select {
	case req := <-c.reqs:
		return req, nil
	case <-c.stop:
		return Request{}, errno.ErrInterrupted
	}
}

func (c *ChannelScoreboard) Handled(ret int32) {
	c.rets <- ret
}

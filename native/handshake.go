package native

import (
	"fmt"
	"time"
)

// Handshake timing. The Steam client's remote stats fetch is asynchronous
// with no documented completion guarantee; a bounded poll keeps one slow or
// unreachable target from hanging the whole batch, at the cost of
// occasionally giving up on a target that would have succeeded with more
// patience.
const (
	statsTimeout      = 3 * time.Second
	statsPollInterval = 50 * time.Millisecond

	// How long backends without a completion signal wait before assuming
	// the stats have landed.
	statsSettleDelay = 1500 * time.Millisecond
)

type handshakeState uint8

const (
	hsNotRequested handshakeState = iota
	hsRequested
	hsReady
	hsTimedOut
)

func (s handshakeState) String() string {
	switch s {
	case hsNotRequested:
		return "NotRequested"
	case hsRequested:
		return "Requested"
	case hsReady:
		return "Ready"
	case hsTimedOut:
		return "TimedOut"
	default:
		return fmt.Sprint(uint8(s))
	}
}

// handshake drives the request-then-poll protocol for remote user stats:
// NotRequested -> Requested -> (Ready | TimedOut). One instance per session.
type handshake struct {
	state    handshakeState
	deadline time.Time

	timeout  time.Duration
	interval time.Duration
	sleep    func(time.Duration)
}

func newHandshake(timeout, interval time.Duration) *handshake {
	if timeout <= 0 {
		timeout = statsTimeout
	}
	if interval <= 0 {
		interval = statsPollInterval
	}

	return &handshake{
		timeout:  timeout,
		interval: interval,
		sleep:    time.Sleep,
	}
}

// request issues the native stats request and arms the deadline.
func (h *handshake) request(b Backend, steamID uint64) error {
	if h.state != hsNotRequested {
		return fmt.Errorf("native: stats already requested (handshake is %s)", h.state)
	}

	if err := b.RequestStats(steamID); err != nil {
		return err
	}

	h.state = hsRequested
	h.deadline = time.Now().Add(h.timeout)
	return nil
}

// pump polls the backend at a fixed interval until the stats arrive or the
// deadline passes. Cancellation is timeout-only by design: once the request
// is in flight there is no safe way to interrupt the native client.
func (h *handshake) pump(b Backend) error {
	for h.state == hsRequested {
		if b.PollReady() {
			h.state = hsReady
			return nil
		}

		if !time.Now().Before(h.deadline) {
			h.state = hsTimedOut
			return ErrStatsUnavailable
		}

		h.sleep(h.interval)
	}

	switch h.state {
	case hsReady:
		return nil
	case hsTimedOut:
		return ErrStatsUnavailable
	default:
		return fmt.Errorf("native: stats never requested")
	}
}

func (h *handshake) ready() bool { return h.state == hsReady }

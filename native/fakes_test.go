package native

import (
	"fmt"
	"time"
)

// fakeBackend records every call so tests can assert on dispatch order and
// absence of native calls.
type fakeBackend struct {
	name string

	bindErr      error
	pipeErr      error
	userErr      error
	userStatsErr error
	requestErr   error

	// PollReady returns true on the nth call; 0 means never.
	readyAfter int
	polls      int

	setCalls   []string
	clearCalls []string
	storeCalls int
	shutdowns  int

	setOK, clearOK, storeOK bool

	shutdownPanic bool

	// Optional shared event log for cross-backend ordering assertions.
	events *[]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		name:       "fake",
		readyAfter: 1,
		setOK:      true,
		clearOK:    true,
		storeOK:    true,
	}
}

func (b *fakeBackend) record(event string) {
	if b.events != nil {
		*b.events = append(*b.events, fmt.Sprintf("%s:%s", b.name, event))
	}
}

func (b *fakeBackend) Kind() Kind { return KindFlatExport }

func (b *fakeBackend) BindClient() error {
	b.record("bind")
	return b.bindErr
}

func (b *fakeBackend) CreatePipe() error  { return b.pipeErr }
func (b *fakeBackend) ConnectUser() error { return b.userErr }

func (b *fakeBackend) BindUserStats() error { return b.userStatsErr }

func (b *fakeBackend) RequestStats(uint64) error {
	b.record("request")
	return b.requestErr
}

func (b *fakeBackend) PollReady() bool {
	b.polls++
	return b.readyAfter > 0 && b.polls >= b.readyAfter
}

func (b *fakeBackend) GetAchievement(string) (bool, bool) { return false, true }

func (b *fakeBackend) SetAchievement(name string) bool {
	b.setCalls = append(b.setCalls, name)
	return b.setOK
}

func (b *fakeBackend) ClearAchievement(name string) bool {
	b.clearCalls = append(b.clearCalls, name)
	return b.clearOK
}

func (b *fakeBackend) StoreStats() bool {
	b.storeCalls++
	return b.storeOK
}

func (b *fakeBackend) Shutdown() {
	b.shutdowns++
	b.record("shutdown")
	if b.shutdownPanic {
		panic("native shutdown blew up")
	}
}

var _ Backend = (*fakeBackend)(nil)

// fakeProvider hands out fake backends and counts constructions.
type fakeProvider struct {
	err      error
	calls    int
	backends []*fakeBackend
	events   *[]string

	// wire configures each backend before it is handed out.
	wire func(*fakeBackend)
}

func (p *fakeProvider) NewBackend() (Backend, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}

	b := newFakeBackend()
	b.name = fmt.Sprintf("backend%d", p.calls)
	b.events = p.events
	if p.wire != nil {
		p.wire(b)
	}
	b.record("new")
	p.backends = append(p.backends, b)
	return b, nil
}

// fastOptions keeps handshake waits negligible in tests.
var fastOptions = SessionOptions{
	StatsTimeout: 100 * time.Millisecond,
	PollInterval: time.Millisecond,
}

package watcher

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// debouncer coalesces rapid calls per key. The callback runs once the key has
// been quiet for delay, or at the latest maxDelay after the first call.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	maxDelay time.Duration
	clock    clock.Clock
	pending  map[string]*pending
	stopped  bool
}

type pending struct {
	timer *clock.Timer
	first time.Time
	fn    func()
}

func newDebouncer(delay, maxDelay time.Duration, clk clock.Clock) *debouncer {
	if clk == nil {
		clk = clock.New()
	}
	if maxDelay < delay {
		maxDelay = delay
	}
	return &debouncer{
		delay:    delay,
		maxDelay: maxDelay,
		clock:    clk,
		pending:  make(map[string]*pending),
	}
}

// Debounce schedules fn for key, replacing any callback already pending
func (d *debouncer) Debounce(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	now := d.clock.Now()
	p, ok := d.pending[key]
	if !ok {
		p = &pending{first: now}
		d.pending[key] = p
	} else {
		p.timer.Stop()
	}
	p.fn = fn

	wait := d.delay
	if remaining := p.first.Add(d.maxDelay).Sub(now); remaining < wait {
		wait = remaining
	}
	if wait < 0 {
		wait = 0
	}

	p.timer = d.clock.AfterFunc(wait, func() {
		d.mu.Lock()
		if d.stopped || d.pending[key] != p {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		fn := p.fn
		d.mu.Unlock()

		fn()
	})
}

// Stop cancels everything pending
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for _, p := range d.pending {
		p.timer.Stop()
	}
	d.pending = make(map[string]*pending)
}

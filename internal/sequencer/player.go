package sequencer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kroneus/kroneus-site/internal/model"
)

// DefaultInterval is the time between ticks.
const DefaultInterval = 800 * time.Millisecond

// ErrStopped is returned by Start after Stop.
var ErrStopped = errors.New("sequencer: player stopped")

// Player runs a Machine on a timer.
//
// Every Select, Reset, Start and Stop bumps a generation counter and stops the
// pending timer. A tick that already fired carries the generation it was
// scheduled under and is dropped when it no longer matches, so a stale tick
// can never advance a reset cursor.
type Player struct {
	mu       sync.Mutex
	m        *Machine
	interval time.Duration
	timer    *time.Timer
	gen      uint64
	release  func() bool
	subs     []chan Snapshot
	stopped  bool
	touched  time.Time
}

// NewPlayer returns an idle player. A non-positive interval uses DefaultInterval.
func NewPlayer(interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Player{
		m:        NewMachine(),
		interval: interval,
		touched:  time.Now(),
	}
}

// Select switches scenario, cancelling any run in progress.
func (p *Player) Select(s model.Scenario) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelLocked()
	p.m.Select(s)
	p.touched = time.Now()
	p.publishLocked()
}

// Start begins a run at layer 0. When ctx is cancelled mid-run the player resets,
// which is how a departed viewer stops the animation.
func (p *Player) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	p.cancelLocked()
	if err := p.m.Start(); err != nil {
		return err
	}
	p.touched = time.Now()

	gen := p.gen
	if ctx != nil {
		p.release = context.AfterFunc(ctx, func() { p.resetIfCurrent(gen) })
	}

	p.scheduleLocked()
	p.publishLocked()
	return nil
}

// Reset cancels any run and returns to Idle.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelLocked()
	p.m.Reset()
	p.touched = time.Now()
	p.publishLocked()
}

// Stop cancels any run permanently and closes subscriber channels.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.cancelLocked()
	p.stopped = true
	for _, ch := range p.subs {
		close(ch)
	}
	p.subs = nil
}

// Snapshot returns the current state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.Snapshot()
}

// Scenario returns the selected scenario, if any.
func (p *Player) Scenario() (model.Scenario, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.Scenario()
}

// LastActive is the time of the last Select, Start or Reset.
func (p *Player) LastActive() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.touched
}

// Subscribe returns a channel receiving a snapshot after every state change.
// Sends never block: a full channel drops the snapshot.
func (p *Player) Subscribe(buffer int) <-chan Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Snapshot, buffer)
	if p.stopped {
		close(ch)
		return ch
	}
	p.subs = append(p.subs, ch)
	return ch
}

func (p *Player) tick(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || gen != p.gen {
		return
	}
	p.timer = nil

	halted := p.m.Tick()
	p.publishLocked()

	if halted {
		p.releaseLocked()
		return
	}
	p.scheduleLocked()
}

func (p *Player) resetIfCurrent(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || gen != p.gen {
		return
	}
	p.cancelLocked()
	p.m.Reset()
	p.publishLocked()
}

func (p *Player) scheduleLocked() {
	gen := p.gen
	p.timer = time.AfterFunc(p.interval, func() { p.tick(gen) })
}

func (p *Player) cancelLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.releaseLocked()
	p.gen++
}

func (p *Player) releaseLocked() {
	if p.release != nil {
		p.release()
		p.release = nil
	}
}

func (p *Player) publishLocked() {
	if len(p.subs) == 0 {
		return
	}
	snap := p.m.Snapshot()
	for _, ch := range p.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

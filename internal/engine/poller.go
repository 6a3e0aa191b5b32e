package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// PollFunc is one polling pass, for example draining an inbox directory. It
// should return promptly when the context is cancelled.
type PollFunc func(ctx context.Context) error

// Poller invokes a PollFunc on a fixed interval with single-flight
// semantics: if a pass is still running when the next tick fires, the tick
// is skipped rather than overlapped.
type Poller struct {
	fn       PollFunc
	interval time.Duration
	running  atomic.Bool
	inflight sync.WaitGroup
	cancel   context.CancelFunc
	done     chan struct{}
	startMu  sync.Mutex
	started  bool
}

// NewPoller creates a poller. interval must be positive.
func NewPoller(interval time.Duration, fn PollFunc) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Poller{
		fn:       fn,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins polling in a background goroutine. The first pass runs
// immediately rather than waiting a full interval. Start is a no-op if
// already started.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)

	go func() {
		defer close(p.done)

		p.launch(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.launch(ctx)
			}
		}
	}()
}

// launch starts one pass unless one is already in flight.
func (p *Poller) launch(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		slog.Debug("Poll pass still in flight, skipping tick")
		return
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer p.running.Store(false)

		if err := p.fn(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("Poll pass failed", "error", err)
		}
	}()
}

// Stop cancels polling and waits for the loop and any in-flight pass to
// finish.
func (p *Poller) Stop() {
	p.startMu.Lock()
	started := p.started
	p.startMu.Unlock()
	if !started {
		return
	}

	p.cancel()
	<-p.done
	p.inflight.Wait()
}

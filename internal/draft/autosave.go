// Package draft persists in-progress bundle drafts in the background.
//
// Edits are debounced per customer: every Schedule restarts the customer's
// timer and replaces the pending draft, so only the latest state is written.
// Writes happen under the customer lock, the same lock the engine holds while
// mutating, which keeps background saves and foreground saves ordered.
package draft

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/bonuswiser/internal/lock"
	"github.com/mmynk/bonuswiser/internal/metrics"
	"github.com/mmynk/bonuswiser/internal/models"
)

// DefaultDelay is the quiet period before a scheduled draft is written.
const DefaultDelay = 500 * time.Millisecond

// Saver writes a draft. storage.DraftStore satisfies it.
type Saver interface {
	SaveDraft(ctx context.Context, draft *models.Draft) error
}

type pending struct {
	draft *models.Draft
	timer *time.Timer
}

// Autosaver debounces draft writes per customer.
type Autosaver struct {
	saver   Saver
	locker  lock.Locker
	delay   time.Duration
	timeout time.Duration
	metrics *metrics.BonusMetrics

	mu      sync.Mutex
	pending map[string]*pending
	closed  bool
	wg      sync.WaitGroup
}

// Option configures an Autosaver.
type Option func(*Autosaver)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(a *Autosaver) {
		if d > 0 {
			a.delay = d
		}
	}
}

// WithMetrics records autosave outcomes.
func WithMetrics(m *metrics.BonusMetrics) Option {
	return func(a *Autosaver) { a.metrics = m }
}

// NewAutosaver creates an autosaver writing through saver.
func NewAutosaver(saver Saver, locker lock.Locker, opts ...Option) *Autosaver {
	a := &Autosaver{
		saver:   saver,
		locker:  locker,
		delay:   DefaultDelay,
		timeout: 5 * time.Second,
		pending: make(map[string]*pending),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Delay reports the debounce delay in use.
func (a *Autosaver) Delay() time.Duration {
	return a.delay
}

// Schedule records d as the customer's latest draft and (re)starts the timer.
func (a *Autosaver) Schedule(d *models.Draft) {
	snapshot := d.Clone()
	id := snapshot.CustomerID

	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.pending[id]
	if !ok {
		p = &pending{}
		a.pending[id] = p
	}
	p.draft = &snapshot
	if a.closed {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(a.delay, func() { a.fire(id) })
}

// Pending returns the unsaved draft for a customer, if any.
func (a *Autosaver) Pending(customerID string) (*models.Draft, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pending[customerID]
	if !ok {
		return nil, false
	}
	d := p.draft.Clone()
	return &d, true
}

// SaveNow writes d immediately and drops any pending write for the customer.
// The caller must hold the customer lock.
func (a *Autosaver) SaveNow(ctx context.Context, d *models.Draft) error {
	a.take(d.CustomerID)
	if err := a.saver.SaveDraft(ctx, d); err != nil {
		a.metrics.ObserveAutosave("error")
		return err
	}
	a.metrics.ObserveAutosave("immediate")
	return nil
}

// Discard drops a pending write without saving it. The caller must hold the
// customer lock.
func (a *Autosaver) Discard(customerID string) {
	a.take(customerID)
}

// take removes and returns the pending draft, stopping its timer.
func (a *Autosaver) take(customerID string) *models.Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.pending[customerID]
	if !ok {
		return nil
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	delete(a.pending, customerID)
	return p.draft
}

func (a *Autosaver) fire(customerID string) {
	a.mu.Lock()
	if a.closed {
		// Close flushes whatever is still pending.
		a.mu.Unlock()
		return
	}
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.flushOne(ctx, customerID); err != nil {
		slog.Warn("Draft autosave failed", "customer_id", customerID, "error", err)
	}
}

// flushOne writes the customer's pending draft under the customer lock. The
// draft is taken after the lock is held so it is the newest one.
func (a *Autosaver) flushOne(ctx context.Context, customerID string) error {
	unlock, err := a.locker.Lock(ctx, lock.CustomerKey(customerID))
	if err != nil {
		return err
	}
	defer unlock()

	d := a.take(customerID)
	if d == nil {
		return nil
	}

	if err := a.saver.SaveDraft(ctx, d); err != nil {
		a.metrics.ObserveAutosave("error")
		a.restore(d)
		return err
	}
	a.metrics.ObserveAutosave("ok")
	slog.Debug("Draft autosaved", "customer_id", customerID, "bundles", len(d.Bundles))
	return nil
}

// restore puts a failed draft back unless a newer one arrived meanwhile. It
// is written again by the next Schedule or Flush.
func (a *Autosaver) restore(d *models.Draft) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.pending[d.CustomerID]; ok {
		return
	}
	a.pending[d.CustomerID] = &pending{draft: d}
}

// Flush writes every pending draft now.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	ids := make([]string, 0, len(a.pending))
	for id, p := range a.pending {
		if p.timer != nil {
			p.timer.Stop()
			p.timer = nil
		}
		ids = append(ids, id)
	}
	a.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := a.flushOne(ctx, id); err != nil {
			slog.Warn("Draft flush failed", "customer_id", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close stops scheduling timers, waits for in-flight saves and flushes what
// is left. Later Schedule calls are kept in memory until the next Flush.
func (a *Autosaver) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.wg.Wait()
	return a.Flush(ctx)
}

// Package engine implements the bonus group rules: group lifecycle, draft
// editing, the auto-promotion queue and redemption. It is the single place
// where thresholds, selection counts and discount arithmetic are enforced.
//
// Every mutation runs under the customer's lock; storage constraints catch
// whatever slips past it across processes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/bonuswiser/internal/bundle"
	"github.com/mmynk/bonuswiser/internal/calculator"
	"github.com/mmynk/bonuswiser/internal/draft"
	"github.com/mmynk/bonuswiser/internal/lock"
	"github.com/mmynk/bonuswiser/internal/metrics"
	"github.com/mmynk/bonuswiser/internal/models"
	"github.com/mmynk/bonuswiser/internal/storage"
)

// settingsLockKey serializes settings updates.
const settingsLockKey = "settings"

// Engine applies bonus operations for customers.
type Engine struct {
	store     storage.Store
	locker    lock.Locker
	autosaver *draft.Autosaver
	metrics   *metrics.BonusMetrics
	defaults  models.Settings
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocker replaces the in-process locker, e.g. with a Redis lock.
func WithLocker(l lock.Locker) Option {
	return func(e *Engine) { e.locker = l }
}

// WithAutosaver sets the draft autosaver. It must use the same locker.
func WithAutosaver(a *draft.Autosaver) Option {
	return func(e *Engine) { e.autosaver = a }
}

// WithMetrics records operation outcomes.
func WithMetrics(m *metrics.BonusMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithDefaultSettings sets the settings used until some are saved.
func WithDefaultSettings(s models.Settings) Option {
	return func(e *Engine) { e.defaults = s }
}

// New creates an engine on top of store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		defaults: models.DefaultSettings(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.locker == nil {
		e.locker = lock.NewLocal()
	}
	if e.autosaver == nil {
		e.autosaver = draft.NewAutosaver(store, e.locker, draft.WithMetrics(e.metrics))
	}
	return e
}

// Autosaver exposes the draft autosaver so the caller can flush it on shutdown.
func (e *Engine) Autosaver() *draft.Autosaver {
	return e.autosaver
}

// withCustomer runs fn under the customer's lock.
func (e *Engine) withCustomer(ctx context.Context, customerID string, fn func() error) error {
	if customerID == "" {
		return validationf("customer id required")
	}
	unlock, err := e.locker.Lock(ctx, lock.CustomerKey(customerID))
	if err != nil {
		return translate(err)
	}
	defer unlock()
	return fn()
}

// observe records a failed operation and normalizes its error.
func (e *Engine) observe(op string, err error) error {
	if err == nil {
		return nil
	}
	err = translate(err)
	kind := KindOf(err)
	e.metrics.ObserveFailure(op, kind)
	if kind == "persistence" {
		slog.Error("Bonus operation failed", "op", op, "error", err)
	} else {
		slog.Debug("Bonus operation rejected", "op", op, "kind", kind, "error", err)
	}
	return err
}

// customerState is everything a rule check needs about one customer.
type customerState struct {
	customer  *models.Customer
	purchases []models.Purchase
	byID      map[string]models.Purchase
	groups    []models.BonusGroup
	claims    bundle.Claims
	settings  models.Settings
}

func (e *Engine) loadState(ctx context.Context, customerID string) (*customerState, error) {
	customer, err := e.store.GetCustomer(ctx, customerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, notFoundf("customer %s not found", customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	purchases, err := e.store.ListPurchasesByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	groups, err := e.store.ListGroupsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	settings, err := e.currentSettings(ctx)
	if err != nil {
		return nil, err
	}

	return &customerState{
		customer:  customer,
		purchases: purchases,
		byID:      calculator.IndexPurchases(purchases),
		groups:    groups,
		claims:    bundle.ClaimsFromGroups(groups),
		settings:  settings,
	}, nil
}

// group finds one of the customer's groups. Groups of other customers are
// reported as not found.
func (s *customerState) group(groupID string) (*models.BonusGroup, error) {
	for i := range s.groups {
		if s.groups[i].ID == groupID {
			return &s.groups[i], nil
		}
	}
	return nil, notFoundf("bonus group %s not found", groupID)
}

// loadDraft returns the newest draft: the unsaved one if a write is pending,
// else the stored one.
func (e *Engine) loadDraft(ctx context.Context, customerID string) (*models.Draft, error) {
	if d, ok := e.autosaver.Pending(customerID); ok {
		return d, nil
	}
	d, err := e.store.GetDraft(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return d, nil
}

// scheduleDraft stamps and hands the draft to the autosaver. Saving is
// asynchronous and never fails the edit.
func (e *Engine) scheduleDraft(d *models.Draft) {
	d.UpdatedAt = e.now().Unix()
	e.autosaver.Schedule(d)
}

// saveDraftNow writes the draft synchronously. A failed write is logged and
// left to the autosaver to retry.
func (e *Engine) saveDraftNow(ctx context.Context, d *models.Draft) {
	d.UpdatedAt = e.now().Unix()
	if err := e.autosaver.SaveNow(ctx, d); err != nil {
		slog.Warn("Draft save failed, will retry", "customer_id", d.CustomerID, "error", err)
		e.autosaver.Schedule(d)
	}
}

// pruneDraft drops purchases that groups have claimed since the draft was
// assembled.
func (e *Engine) pruneDraft(ctx context.Context, customerID string) error {
	groups, err := e.store.ListGroupsByCustomer(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}
	d, err := e.loadDraft(ctx, customerID)
	if err != nil {
		return err
	}

	before := draftSize(d)
	bundle.Prune(d, bundle.ClaimsFromGroups(groups))
	if draftSize(d) != before {
		e.scheduleDraft(d)
	}
	return nil
}

func draftSize(d *models.Draft) int {
	n := len(d.Selection)
	for _, b := range d.Bundles {
		n += len(b.PurchaseIDs)
	}
	return n
}

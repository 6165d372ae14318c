// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/bonuswiser/internal/models"
)

var (
	// ErrNotFound is returned when a customer, purchase or group does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write loses a race: a purchase is already
	// claimed by another group, or a group is no longer active.
	ErrConflict = errors.New("conflict")
)

// PurchaseStore is the read side of the order-sync collaborator plus the
// ingestion hooks it calls.
type PurchaseStore interface {
	// UpsertCustomer creates or replaces a customer record.
	UpsertCustomer(ctx context.Context, customer *models.Customer) error

	// GetCustomer returns ErrNotFound for unknown customers.
	GetCustomer(ctx context.Context, customerID string) (*models.Customer, error)

	// UpsertPurchase creates or replaces a purchase and its line items.
	// Line items without an ID get one assigned. Lines already stored keep
	// their eligibility flag. Returns ErrConflict if the purchase belongs to
	// another customer.
	UpsertPurchase(ctx context.Context, purchase *models.Purchase) error

	// GetPurchase returns ErrNotFound for unknown purchases.
	GetPurchase(ctx context.Context, purchaseID string) (*models.Purchase, error)

	// ListPurchasesByCustomer returns the customer's purchases, oldest first.
	ListPurchasesByCustomer(ctx context.Context, customerID string) ([]models.Purchase, error)

	// SetLineItemEligibility flips a line's discount eligibility flag.
	SetLineItemEligibility(ctx context.Context, purchaseID, lineItemID string, eligible bool) error
}

// GroupStore persists bonus groups.
type GroupStore interface {
	// CreateGroup persists a new active group. The group.ID and CreatedAt fields
	// are populated by the store. Returns ErrConflict if any purchase is already
	// held by another group.
	CreateGroup(ctx context.Context, group *models.BonusGroup) error

	// GetGroup returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.BonusGroup, error)

	// ListGroupsByCustomer returns active and redeemed groups, oldest first.
	ListGroupsByCustomer(ctx context.Context, customerID string) ([]models.BonusGroup, error)

	// UpdateGroup replaces membership, rate and total of an active group.
	// Returns ErrConflict if the group is redeemed or a purchase is held elsewhere.
	UpdateGroup(ctx context.Context, group *models.BonusGroup) error

	// DeleteGroup removes an active group and releases its purchases.
	DeleteGroup(ctx context.Context, groupID string) error

	// RedeemGroup atomically flips an active group that has at least
	// minBundles unique bundles to redeemed, freezing totalDiscount.
	// Returns ErrNotFound, ErrConflict (already redeemed) or ErrBelowThreshold.
	RedeemGroup(ctx context.Context, groupID string, minBundles int, totalDiscount int64, redeemedBy string) (*models.BonusGroup, error)
}

// ErrBelowThreshold is returned by RedeemGroup when the group does not hold
// enough bundles at redemption time.
var ErrBelowThreshold = errors.New("below redemption threshold")

// DraftStore persists per-customer drafts.
type DraftStore interface {
	// GetDraft returns an empty draft when none has been saved.
	GetDraft(ctx context.Context, customerID string) (*models.Draft, error)

	// SaveDraft overwrites the customer's draft.
	SaveDraft(ctx context.Context, draft *models.Draft) error
}

// SettingsStore persists the global bonus settings.
type SettingsStore interface {
	// GetSettings returns ErrNotFound until settings have been saved once.
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error
}

// Store defines the interface for bonus storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the engine.
type Store interface {
	PurchaseStore
	GroupStore
	DraftStore
	SettingsStore

	// Close releases any resources held by the store.
	Close() error
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/bonuswiser/internal/calculator"
	"github.com/mmynk/bonuswiser/internal/models"
	"github.com/mmynk/bonuswiser/internal/storage"
)

func queueOf(st *customerState) calculator.QueueStatus {
	return calculator.Queue(st.purchases, calculator.ClaimedPurchases(st.groups), st.settings)
}

// GetQueueStatus reports the customer's unassigned eligible purchases.
func (e *Engine) GetQueueStatus(ctx context.Context, customerID string) (*calculator.QueueStatus, error) {
	if customerID == "" {
		return nil, e.observe("get_queue", validationf("customer id required"))
	}
	st, err := e.loadState(ctx, customerID)
	if err != nil {
		return nil, e.observe("get_queue", err)
	}
	q := queueOf(st)
	return &q, nil
}

// AutoCreateGroup is called by the promotion sweep once the queue is ready.
// Every queued purchase becomes its own single-purchase bundle.
func (e *Engine) AutoCreateGroup(ctx context.Context, customerID string) (*calculator.GroupState, error) {
	var result *calculator.GroupState
	err := e.withCustomer(ctx, customerID, func() error {
		st, err := e.loadState(ctx, customerID)
		if err != nil {
			return err
		}

		q := queueOf(st)
		if !q.AutoCreateEnabled {
			return validationf("automatic bonus groups are disabled")
		}
		if !q.ReadyForDiscount {
			return validationf("queue holds %d orders, %d required", q.Count, q.Required)
		}

		bundles := make([]models.Bundle, len(q.PurchaseIDs))
		for i, id := range q.PurchaseIDs {
			bundles[i] = models.Bundle{PurchaseIDs: []string{id}}
		}
		result, err = e.create(ctx, st, bundles, 0, modeAuto)
		return err
	})
	return result, e.observe("auto_create_group", err)
}

// IngestPurchase records a purchase from the order feed and returns the
// customer's queue. customer may be nil when the customer is already known.
// A purchase stays with the customer it was first ingested for, and a resend
// keeps the eligibility flags staff have set.
func (e *Engine) IngestPurchase(ctx context.Context, customer *models.Customer, purchase models.Purchase) (*calculator.QueueStatus, error) {
	if customer != nil && customer.ID != "" && purchase.CustomerID == "" {
		purchase.CustomerID = customer.ID
	}
	if err := validatePurchase(purchase); err != nil {
		return nil, e.observe("ingest_purchase", err)
	}
	if customer != nil && customer.ID != purchase.CustomerID {
		return nil, e.observe("ingest_purchase",
			validationf("purchase belongs to customer %s, not %s", purchase.CustomerID, customer.ID))
	}

	var result *calculator.QueueStatus
	err := e.withCustomer(ctx, purchase.CustomerID, func() error {
		existing, err := e.store.GetPurchase(ctx, purchase.ID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			return fmt.Errorf("failed to get purchase: %w", err)
		case existing.CustomerID != purchase.CustomerID:
			return validationf("order %s belongs to customer %s, not %s", purchase.ID, existing.CustomerID, purchase.CustomerID)
		}

		if customer != nil {
			if err := e.store.UpsertCustomer(ctx, customer); err != nil {
				return fmt.Errorf("failed to upsert customer: %w", err)
			}
		} else if _, err := e.store.GetCustomer(ctx, purchase.CustomerID); errors.Is(err, storage.ErrNotFound) {
			if err := e.store.UpsertCustomer(ctx, &models.Customer{ID: purchase.CustomerID}); err != nil {
				return fmt.Errorf("failed to create customer: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to get customer: %w", err)
		}

		if err := e.store.UpsertPurchase(ctx, &purchase); err != nil {
			return fmt.Errorf("failed to upsert purchase: %w", err)
		}

		st, err := e.loadState(ctx, purchase.CustomerID)
		if err != nil {
			return err
		}
		q := queueOf(st)
		result = &q

		slog.Info("Purchase ingested",
			"customer_id", purchase.CustomerID,
			"purchase_id", purchase.ID,
			"eligible_amount", calculator.EligibleAmount(purchase),
			"queue", q.Count,
			"ready", q.ReadyForDiscount)
		return nil
	})
	return result, e.observe("ingest_purchase", err)
}

func validatePurchase(p models.Purchase) error {
	if p.ID == "" {
		return validationf("purchase id required")
	}
	if p.CustomerID == "" {
		return validationf("customer id required")
	}
	for i, line := range p.LineItems {
		if line.Subtotal < 0 {
			return validationf("line item %d has a negative subtotal", i)
		}
	}
	return nil
}

// SetLineItemEligibility flips one line's discount flag. Active group totals
// and the queue follow on the next read; redeemed totals stay frozen.
func (e *Engine) SetLineItemEligibility(ctx context.Context, customerID, purchaseID, lineItemID string, eligible bool) (*PurchaseView, error) {
	var result *PurchaseView
	err := e.withCustomer(ctx, customerID, func() error {
		st, err := e.loadState(ctx, customerID)
		if err != nil {
			return err
		}
		if _, ok := st.byID[purchaseID]; !ok {
			return notFoundf("order %s not found for customer %s", purchaseID, customerID)
		}

		if err := e.store.SetLineItemEligibility(ctx, purchaseID, lineItemID, eligible); err != nil {
			return fmt.Errorf("failed to update line item: %w", err)
		}

		purchases, err := e.store.ListPurchasesByCustomer(ctx, customerID)
		if err != nil {
			return fmt.Errorf("failed to list purchases: %w", err)
		}
		for _, p := range purchases {
			if p.ID == purchaseID {
				view := newPurchaseView(p, st.claims)
				result = &view
			}
		}
		return nil
	})
	return result, e.observe("set_line_eligibility", err)
}

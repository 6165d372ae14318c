package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mmynk/bonuswiser/internal/bundle"
	"github.com/mmynk/bonuswiser/internal/calculator"
	"github.com/mmynk/bonuswiser/internal/models"
)

// minGroupPurchases is the smallest number of purchases a group may hold.
const minGroupPurchases = 2

// Creation modes, used as metric labels.
const (
	modeManual = "manual"
	modeDraft  = "draft"
	modeAuto   = "auto"
)

// checkRate rejects a client that computed its figures with an outdated rate.
// Zero means the client did not send one.
func checkRate(requested float64, settings models.Settings) error {
	if requested == 0 {
		return nil
	}
	if math.Abs(requested-settings.DiscountRate) > 1e-9 {
		return validationf("discount rate is now %v%%, not %v%%; reload and try again", settings.DiscountRate, requested)
	}
	return nil
}

// checkBundles validates a group's membership. Purchases must belong to the
// customer, appear once, and be unclaimed or claimed by editingGroupID.
func checkBundles(st *customerState, bundles []models.Bundle, editingGroupID string) error {
	scratch := &models.Draft{CustomerID: st.customer.ID, EditingGroupID: editingGroupID}
	count := 0
	for _, b := range bundles {
		for _, id := range b.PurchaseIDs {
			if _, ok := st.byID[id]; !ok && id != "" {
				return validationf("order %s does not belong to customer %s", id, st.customer.ID)
			}
		}
		if err := bundle.AddBundle(scratch, b.PurchaseIDs, st.claims); err != nil {
			return err
		}
		count += len(b.PurchaseIDs)
	}
	if count < minGroupPurchases {
		return validationf("a bonus group needs at least %d orders (got %d)", minGroupPurchases, count)
	}
	return nil
}

// create validates and persists a new group. Manual creation must select
// exactly the configured number of units; automatic creation takes at least
// that many.
func (e *Engine) create(ctx context.Context, st *customerState, bundles []models.Bundle, requestedRate float64, mode string) (*calculator.GroupState, error) {
	required := st.settings.OrdersRequiredForDiscount
	if mode == modeAuto {
		if len(bundles) < required {
			return nil, validationf("queue holds %d orders, %d required", len(bundles), required)
		}
	} else if err := bundle.CheckSelection(len(bundles), required); err != nil {
		return nil, err
	}

	if err := checkRate(requestedRate, st.settings); err != nil {
		return nil, err
	}
	if err := checkBundles(st, bundles, ""); err != nil {
		return nil, err
	}

	rate := st.settings.DiscountRate
	total, err := calculator.GroupTotal(bundles, rate, st.byID)
	if err != nil {
		return nil, validationf("%s", err.Error())
	}

	group := &models.BonusGroup{
		CustomerID:    st.customer.ID,
		Bundles:       bundles,
		DiscountRate:  rate,
		TotalDiscount: total,
		Auto:          mode == modeAuto,
		CreatedAt:     e.now().Unix(),
	}
	if err := e.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	e.metrics.ObserveGroupCreated(mode)
	slog.Info("Bonus group created",
		"customer_id", group.CustomerID,
		"group_id", group.ID,
		"mode", mode,
		"bundles", len(group.Bundles),
		"total_discount", group.TotalDiscount)

	if err := e.pruneDraft(ctx, st.customer.ID); err != nil {
		slog.Warn("Failed to prune draft after group creation", "customer_id", st.customer.ID, "error", err)
	}

	state := calculator.Evaluate(*group, required)
	return &state, nil
}

// CreateGroup creates an active group from bundles in the given order.
// requestedRate is the rate the client displayed; zero skips the check.
func (e *Engine) CreateGroup(ctx context.Context, customerID string, bundles []models.Bundle, requestedRate float64) (*calculator.GroupState, error) {
	var result *calculator.GroupState
	err := e.withCustomer(ctx, customerID, func() error {
		st, err := e.loadState(ctx, customerID)
		if err != nil {
			return err
		}
		result, err = e.create(ctx, st, cloneBundles(bundles), requestedRate, modeManual)
		return err
	})
	return result, e.observe("create_group", err)
}

func (e *Engine) update(ctx context.Context, st *customerState, groupID string, bundles []models.Bundle, requestedRate float64) (*calculator.GroupState, error) {
	group, err := st.group(groupID)
	if err != nil {
		return nil, err
	}
	if group.Status == models.GroupStatusRedeemed {
		return nil, conflictf("bonus group %s is redeemed and can no longer be changed", groupID)
	}
	if err := checkRate(requestedRate, st.settings); err != nil {
		return nil, err
	}
	if err := checkBundles(st, bundles, groupID); err != nil {
		return nil, err
	}

	rate := st.settings.DiscountRate
	total, err := calculator.GroupTotal(bundles, rate, st.byID)
	if err != nil {
		return nil, validationf("%s", err.Error())
	}

	updated := *group
	updated.Bundles = bundles
	updated.DiscountRate = rate
	updated.TotalDiscount = total
	if err := e.store.UpdateGroup(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	slog.Info("Bonus group updated",
		"customer_id", updated.CustomerID,
		"group_id", updated.ID,
		"bundles", len(updated.Bundles),
		"total_discount", updated.TotalDiscount)

	if err := e.pruneDraft(ctx, st.customer.ID); err != nil {
		slog.Warn("Failed to prune draft after group update", "customer_id", st.customer.ID, "error", err)
	}

	state := calculator.Evaluate(updated, st.settings.OrdersRequiredForDiscount)
	return &state, nil
}

// UpdateGroup replaces an active group's membership and re-snapshots the
// current rate.
func (e *Engine) UpdateGroup(ctx context.Context, customerID, groupID string, bundles []models.Bundle, requestedRate float64) (*calculator.GroupState, error) {
	var result *calculator.GroupState
	err := e.withCustomer(ctx, customerID, func() error {
		st, err := e.loadState(ctx, customerID)
		if err != nil {
			return err
		}
		result, err = e.update(ctx, st, groupID, cloneBundles(bundles), requestedRate)
		return err
	})
	return result, e.observe("update_group", err)
}

// DeleteGroup removes an active group and returns the purchases it released.
func (e *Engine) DeleteGroup(ctx context.Context, customerID, groupID string) ([]string, error) {
	var released []string
	err := e.withCustomer(ctx, customerID, func() error {
		st, err := e.loadState(ctx, customerID)
		if err != nil {
			return err
		}
		group, err := st.group(groupID)
		if err != nil {
			return err
		}
		if group.Status == models.GroupStatusRedeemed {
			return conflictf("bonus group %s is redeemed and can no longer be deleted", groupID)
		}

		if err := e.store.DeleteGroup(ctx, groupID); err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		released = group.PurchaseIDs()
		e.metrics.ObserveDeleted()
		slog.Info("Bonus group deleted", "customer_id", customerID, "group_id", groupID, "released", len(released))

		// A draft editing the deleted group keeps its bundles as plain bundles.
		d, err := e.loadDraft(ctx, customerID)
		if err != nil {
			slog.Warn("Failed to load draft after group deletion", "customer_id", customerID, "error", err)
			return nil
		}
		if d.EditingGroupID == groupID {
			d.ClearEdit()
			e.scheduleDraft(d)
		}
		return nil
	})
	return released, e.observe("delete_group", err)
}

// CommitDraft turns the draft into a group: an update of the group being
// edited, or a new group under the manual selection rule. The committed
// bundles leave the draft; work held from before an edit stays.
func (e *Engine) CommitDraft(ctx context.Context, customerID string, requestedRate float64) (*calculator.GroupState, error) {
	var result *calculator.GroupState
	err := e.withCustomer(ctx, customerID, func() error {
		st, err := e.loadState(ctx, customerID)
		if err != nil {
			return err
		}
		d, err := e.loadDraft(ctx, customerID)
		if err != nil {
			return err
		}

		selected := bundle.Committed(d)
		if d.EditingGroupID != "" {
			result, err = e.update(ctx, st, d.EditingGroupID, selected, requestedRate)
		} else {
			result, err = e.create(ctx, st, selected, requestedRate, modeDraft)
		}
		if err != nil {
			return err
		}

		e.saveDraftNow(ctx, bundle.AfterCommit(d))
		return nil
	})
	return result, e.observe("commit_draft", err)
}

func cloneBundles(bundles []models.Bundle) []models.Bundle {
	out := make([]models.Bundle, len(bundles))
	for i, b := range bundles {
		out[i] = b.Clone()
	}
	return out
}

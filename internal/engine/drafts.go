package engine

import (
	"context"

	"github.com/mmynk/bonuswiser/internal/bundle"
	"github.com/mmynk/bonuswiser/internal/models"
)

// editDraft loads the draft, applies fn and schedules an autosave. Rule
// violations leave the stored draft untouched.
func (e *Engine) editDraft(ctx context.Context, op, customerID string, fn func(st *customerState, d *models.Draft) error) (*models.Draft, error) {
	var result *models.Draft
	err := e.withCustomer(ctx, customerID, func() error {
		st, err := e.loadState(ctx, customerID)
		if err != nil {
			return err
		}
		d, err := e.loadDraft(ctx, customerID)
		if err != nil {
			return err
		}
		if err := fn(st, d); err != nil {
			return err
		}
		e.scheduleDraft(d)
		result = d
		return nil
	})
	return result, e.observe(op, err)
}

func (st *customerState) checkOwned(ids ...string) error {
	for _, id := range ids {
		if _, ok := st.byID[id]; !ok && id != "" {
			return validationf("order %s does not belong to customer %s", id, st.customer.ID)
		}
	}
	return nil
}

// GetDraft returns the customer's newest draft.
func (e *Engine) GetDraft(ctx context.Context, customerID string) (*models.Draft, error) {
	if customerID == "" {
		return nil, e.observe("get_draft", validationf("customer id required"))
	}
	d, err := e.loadDraft(ctx, customerID)
	return d, e.observe("get_draft", err)
}

// AddBundle appends a bundle of purchases to the draft.
func (e *Engine) AddBundle(ctx context.Context, customerID string, purchaseIDs []string) (*models.Draft, error) {
	return e.editDraft(ctx, "add_bundle", customerID, func(st *customerState, d *models.Draft) error {
		if err := st.checkOwned(purchaseIDs...); err != nil {
			return err
		}
		return bundle.AddBundle(d, purchaseIDs, st.claims)
	})
}

// RemoveBundle drops a draft bundle.
func (e *Engine) RemoveBundle(ctx context.Context, customerID string, bundleIndex int) (*models.Draft, error) {
	return e.editDraft(ctx, "remove_bundle", customerID, func(_ *customerState, d *models.Draft) error {
		return bundle.RemoveBundle(d, bundleIndex)
	})
}

// RemovePurchaseFromBundle takes one purchase out of a draft bundle.
func (e *Engine) RemovePurchaseFromBundle(ctx context.Context, customerID string, bundleIndex int, purchaseID string) (*models.Draft, error) {
	return e.editDraft(ctx, "remove_purchase", customerID, func(_ *customerState, d *models.Draft) error {
		return bundle.RemovePurchaseFromBundle(d, bundleIndex, purchaseID)
	})
}

// ToggleSelection selects or deselects a purchase directly.
func (e *Engine) ToggleSelection(ctx context.Context, customerID, purchaseID string) (*models.Draft, error) {
	return e.editDraft(ctx, "toggle_selection", customerID, func(st *customerState, d *models.Draft) error {
		if err := st.checkOwned(purchaseID); err != nil {
			return err
		}
		return bundle.ToggleSelection(d, purchaseID, st.claims)
	})
}

// StartEditGroup re-opens an active group in the draft with its bundle
// structure intact.
func (e *Engine) StartEditGroup(ctx context.Context, customerID, groupID string) (*models.Draft, error) {
	return e.editDraft(ctx, "start_edit", customerID, func(st *customerState, d *models.Draft) error {
		group, err := st.group(groupID)
		if err != nil {
			return err
		}
		if group.Status == models.GroupStatusRedeemed {
			return conflictf("bonus group %s is redeemed and can no longer be changed", groupID)
		}
		_, err = bundle.StartEditGroup(d, *group)
		return err
	})
}

// CancelEdit removes what StartEditGroup imported and leaves other draft
// bundles alone. Purchases of the group that were moved into new bundles
// during the edit go back to the group.
func (e *Engine) CancelEdit(ctx context.Context, customerID string) (*models.Draft, error) {
	return e.editDraft(ctx, "cancel_edit", customerID, func(st *customerState, d *models.Draft) error {
		if d.EditingGroupID == "" {
			return validationf("no bonus group is being edited")
		}
		bundle.CancelEdit(d, d.ImportedIndices)
		bundle.Prune(d, st.claims)
		return nil
	})
}

// SaveDraft overwrites the draft with the given bundles and selection after
// checking them against the current claims. Repeating the call with the same
// input leaves the same draft. A failed write is retried in the background.
func (e *Engine) SaveDraft(ctx context.Context, in models.Draft) (*models.Draft, error) {
	var result *models.Draft
	err := e.withCustomer(ctx, in.CustomerID, func() error {
		st, err := e.loadState(ctx, in.CustomerID)
		if err != nil {
			return err
		}

		d := &models.Draft{CustomerID: in.CustomerID}
		if in.EditingGroupID != "" {
			group, err := st.group(in.EditingGroupID)
			if err != nil {
				return err
			}
			if group.Status != models.GroupStatusActive {
				return conflictf("bonus group %s is redeemed and can no longer be changed", group.ID)
			}
			d.EditingGroupID = group.ID
		}

		for _, b := range in.Bundles {
			if err := st.checkOwned(b.PurchaseIDs...); err != nil {
				return err
			}
			if err := bundle.AddBundle(d, b.PurchaseIDs, st.claims); err != nil {
				return err
			}
		}
		for _, id := range in.Selection {
			if err := st.checkOwned(id); err != nil {
				return err
			}
			if d.Contains(id) {
				return validationf("order %s is already in the draft", id)
			}
			if err := bundle.ToggleSelection(d, id, st.claims); err != nil {
				return err
			}
		}
		for _, idx := range append(append([]int(nil), in.ImportedIndices...), in.HeldIndices...) {
			if idx < 0 || idx >= len(d.Bundles) {
				return validationf("draft bundle %d does not exist", idx)
			}
		}
		for _, id := range append(append([]string(nil), in.HeldSelection...), in.SeededSelection...) {
			if !inSelection(d, id) {
				return validationf("order %s is not selected in the draft", id)
			}
		}
		if d.EditingGroupID != "" {
			d.ImportedIndices = append([]int(nil), in.ImportedIndices...)
			d.HeldIndices = append([]int(nil), in.HeldIndices...)
			d.HeldSelection = append([]string(nil), in.HeldSelection...)
			d.SeededSelection = append([]string(nil), in.SeededSelection...)
		}

		e.saveDraftNow(ctx, d)
		result = d
		return nil
	})
	return result, e.observe("save_draft", err)
}

func inSelection(d *models.Draft, purchaseID string) bool {
	for _, id := range d.Selection {
		if id == purchaseID {
			return true
		}
	}
	return false
}

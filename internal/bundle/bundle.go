// Package bundle assembles purchases into draft bundles.
//
// All operations are pure: they take a draft, validate the request against the
// purchases already claimed by groups, and mutate the draft in place. Callers are
// responsible for holding the customer's lock and persisting the result.
package bundle

import (
	"errors"
	"fmt"

	"github.com/mmynk/bonuswiser/internal/models"
)

var (
	// ErrInvalid marks a request that violates a bundling rule. The error text is
	// meant to be shown to staff verbatim.
	ErrInvalid = errors.New("invalid bundle request")
)

// invalid wraps ErrInvalid with a human-readable message.
type invalid struct {
	msg string
}

func (e *invalid) Error() string { return e.msg }
func (e *invalid) Unwrap() error { return ErrInvalid }

func invalidf(format string, args ...any) error {
	return &invalid{msg: fmt.Sprintf(format, args...)}
}

// Claims maps a purchase ID to the ID of the group that holds it.
// Purchases of redeemed groups stay claimed forever.
type Claims map[string]string

// ClaimsFromGroups builds the claim index from a customer's groups.
func ClaimsFromGroups(groups []models.BonusGroup) Claims {
	claims := make(Claims)
	for _, g := range groups {
		for _, id := range g.PurchaseIDs() {
			claims[id] = g.ID
		}
	}
	return claims
}

// available reports whether the purchase may be placed in the draft. Purchases
// of the group currently being edited are available again.
func available(d *models.Draft, claims Claims, purchaseID string) error {
	if d.Contains(purchaseID) {
		return invalidf("order %s is already in the draft", purchaseID)
	}
	if groupID, ok := claims[purchaseID]; ok && groupID != d.EditingGroupID {
		return invalidf("order %s is already in a bonus group", purchaseID)
	}
	return nil
}

// AddBundle appends a new bundle made of purchaseIDs.
func AddBundle(d *models.Draft, purchaseIDs []string, claims Claims) error {
	if len(purchaseIDs) == 0 {
		return invalidf("a bundle needs at least one order")
	}

	seen := make(map[string]bool, len(purchaseIDs))
	for _, id := range purchaseIDs {
		if id == "" {
			return invalidf("order id required")
		}
		if seen[id] {
			return invalidf("order %s appears twice in the bundle", id)
		}
		seen[id] = true

		if err := available(d, claims, id); err != nil {
			return err
		}
	}

	d.Bundles = append(d.Bundles, models.Bundle{PurchaseIDs: append([]string(nil), purchaseIDs...)})
	return nil
}

// RemovePurchaseFromBundle takes one purchase out of a bundle. A bundle left
// empty is removed entirely.
func RemovePurchaseFromBundle(d *models.Draft, bundleIndex int, purchaseID string) error {
	if bundleIndex < 0 || bundleIndex >= len(d.Bundles) {
		return invalidf("bundle %d does not exist", bundleIndex)
	}

	ids := d.Bundles[bundleIndex].PurchaseIDs
	pos := -1
	for i, id := range ids {
		if id == purchaseID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return invalidf("order %s is not in bundle %d", purchaseID, bundleIndex)
	}

	remaining := make([]string, 0, len(ids)-1)
	remaining = append(remaining, ids[:pos]...)
	remaining = append(remaining, ids[pos+1:]...)
	if len(remaining) == 0 {
		return RemoveBundle(d, bundleIndex)
	}
	d.Bundles[bundleIndex].PurchaseIDs = remaining
	return nil
}

// RemoveBundle drops a whole bundle, releasing its purchases.
func RemoveBundle(d *models.Draft, bundleIndex int) error {
	if bundleIndex < 0 || bundleIndex >= len(d.Bundles) {
		return invalidf("bundle %d does not exist", bundleIndex)
	}

	d.Bundles = append(d.Bundles[:bundleIndex:bundleIndex], d.Bundles[bundleIndex+1:]...)

	// Keep the edit bookkeeping pointing at the same bundles.
	d.ImportedIndices = dropIndex(d.ImportedIndices, bundleIndex)
	d.HeldIndices = dropIndex(d.HeldIndices, bundleIndex)
	return nil
}

// dropIndex removes removed from indices and shifts the positions after it.
func dropIndex(indices []int, removed int) []int {
	if len(indices) == 0 {
		return indices
	}
	out := make([]int, 0, len(indices))
	for _, idx := range indices {
		switch {
		case idx == removed:
			continue
		case idx > removed:
			out = append(out, idx-1)
		default:
			out = append(out, idx)
		}
	}
	return out
}

func dropID(ids []string, id string) []string {
	if len(ids) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func indexSet(indices []int) map[int]bool {
	set := make(map[int]bool, len(indices))
	for _, idx := range indices {
		set[idx] = true
	}
	return set
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// ToggleSelection adds a purchase to the direct selection, or removes it when
// it is already selected.
func ToggleSelection(d *models.Draft, purchaseID string, claims Claims) error {
	for i, id := range d.Selection {
		if id == purchaseID {
			d.Selection = append(d.Selection[:i:i], d.Selection[i+1:]...)
			d.HeldSelection = dropID(d.HeldSelection, purchaseID)
			d.SeededSelection = dropID(d.SeededSelection, purchaseID)
			return nil
		}
	}
	if purchaseID == "" {
		return invalidf("order id required")
	}
	if err := available(d, claims, purchaseID); err != nil {
		return err
	}
	d.Selection = append(d.Selection, purchaseID)
	return nil
}

// StartEditGroup re-opens an active group in the draft and returns the indices
// of the bundles it imported. The group's bundle structure is preserved as is;
// a group whose bundles all hold a single purchase is imported as a direct
// selection instead, so no single-item bundles are invented.
func StartEditGroup(d *models.Draft, group models.BonusGroup) ([]int, error) {
	if group.Status != models.GroupStatusActive {
		return nil, invalidf("group %s is redeemed and cannot be edited", group.ID)
	}
	if d.EditingGroupID != "" {
		return nil, invalidf("group %s is already being edited", d.EditingGroupID)
	}
	for _, id := range group.PurchaseIDs() {
		if d.Contains(id) {
			return nil, invalidf("order %s is already in the draft", id)
		}
	}

	d.EditingGroupID = group.ID
	d.ImportedIndices = nil
	d.HeldIndices = nil
	for i := range d.Bundles {
		d.HeldIndices = append(d.HeldIndices, i)
	}
	d.HeldSelection = append([]string(nil), d.Selection...)
	d.SeededSelection = nil

	if group.AllSingles() {
		for _, b := range group.Bundles {
			d.Selection = append(d.Selection, b.PurchaseIDs[0])
			d.SeededSelection = append(d.SeededSelection, b.PurchaseIDs[0])
		}
		return nil, nil
	}

	for _, b := range group.Bundles {
		if len(b.PurchaseIDs) == 0 {
			continue
		}
		d.ImportedIndices = append(d.ImportedIndices, len(d.Bundles))
		d.Bundles = append(d.Bundles, b.Clone())
	}
	return append([]int(nil), d.ImportedIndices...), nil
}

// CancelEdit removes exactly the bundles StartEditGroup imported and the
// purchases it seeded into the selection. Everything else in the draft is left
// untouched.
func CancelEdit(d *models.Draft, importedIndices []int) {
	drop := indexSet(importedIndices)
	kept := make([]models.Bundle, 0, len(d.Bundles))
	for i, b := range d.Bundles {
		if !drop[i] {
			kept = append(kept, b)
		}
	}
	d.Bundles = kept

	seeded := idSet(d.SeededSelection)
	selection := make([]string, 0, len(d.Selection))
	for _, id := range d.Selection {
		if !seeded[id] {
			selection = append(selection, id)
		}
	}
	d.Selection = selection
	d.ClearEdit()
}

// Units counts the accounting units currently selected: each bundle and each
// directly selected purchase is one unit.
func Units(d *models.Draft) int {
	return len(d.Bundles) + len(d.Selection)
}

// Selected flattens the draft into the bundles a group would be built from:
// bundles first, then every direct selection as its own single bundle.
func Selected(d *models.Draft) []models.Bundle {
	out := make([]models.Bundle, 0, Units(d))
	for _, b := range d.Bundles {
		out = append(out, b.Clone())
	}
	for _, id := range d.Selection {
		out = append(out, models.Bundle{PurchaseIDs: []string{id}})
	}
	return out
}

// CheckSelection enforces the manual creation rule: exactly required units.
func CheckSelection(units, required int) error {
	switch {
	case units < required:
		return invalidf("select %d orders to create a bonus group (selected %d)", required, units)
	case units > required:
		return invalidf("too many orders selected: a bonus group takes exactly %d (selected %d)", required, units)
	}
	return nil
}

// Committed returns the bundles a commit turns into a group, in draft order.
// While a group is being edited, bundles and selections held from before the
// edit are left out.
func Committed(d *models.Draft) []models.Bundle {
	if d.EditingGroupID == "" {
		return Selected(d)
	}
	held := indexSet(d.HeldIndices)
	heldSel := idSet(d.HeldSelection)

	var out []models.Bundle
	for i, b := range d.Bundles {
		if !held[i] {
			out = append(out, b.Clone())
		}
	}
	for _, id := range d.Selection {
		if !heldSel[id] {
			out = append(out, models.Bundle{PurchaseIDs: []string{id}})
		}
	}
	return out
}

// AfterCommit returns the draft that remains once Committed(d) became a group:
// the held work of an edit, or nothing.
func AfterCommit(d *models.Draft) *models.Draft {
	out := &models.Draft{CustomerID: d.CustomerID}
	if d.EditingGroupID == "" {
		return out
	}
	held := indexSet(d.HeldIndices)
	for i, b := range d.Bundles {
		if held[i] {
			out.Bundles = append(out.Bundles, b.Clone())
		}
	}
	heldSel := idSet(d.HeldSelection)
	for _, id := range d.Selection {
		if heldSel[id] {
			out.Selection = append(out.Selection, id)
		}
	}
	return out
}

// Prune removes purchases that have been claimed by a group other than the one
// being edited. It is used after a group is created outside the draft.
func Prune(d *models.Draft, claims Claims) {
	stale := func(id string) bool {
		groupID, ok := claims[id]
		return ok && groupID != d.EditingGroupID
	}

	for i := len(d.Bundles) - 1; i >= 0; i-- {
		for _, id := range append([]string(nil), d.Bundles[i].PurchaseIDs...) {
			if stale(id) {
				_ = RemovePurchaseFromBundle(d, i, id)
			}
		}
	}

	selection := d.Selection[:0]
	for _, id := range d.Selection {
		if stale(id) {
			d.HeldSelection = dropID(d.HeldSelection, id)
			d.SeededSelection = dropID(d.SeededSelection, id)
			continue
		}
		selection = append(selection, id)
	}
	d.Selection = selection
}

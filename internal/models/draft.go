package models

// Draft is a customer's uncommitted work: bundles being assembled and, when an
// auto-created group is being edited, a direct purchase selection.
type Draft struct {
	CustomerID string

	// Bundles are the uncommitted bundles in display order.
	Bundles []Bundle

	// Selection holds directly selected purchases that are not wrapped in a bundle.
	Selection []string

	// EditingGroupID is set while an existing group is re-opened in the draft.
	EditingGroupID string

	// ImportedIndices are the bundle positions that StartEditGroup added.
	ImportedIndices []int

	// HeldIndices and HeldSelection are the bundles and selected purchases
	// that were in the draft before the edit began. Committing the edit leaves
	// them in the draft.
	HeldIndices   []int
	HeldSelection []string

	// SeededSelection holds the purchases StartEditGroup put in Selection.
	SeededSelection []string

	// UpdatedAt is the Unix timestamp of the last save.
	UpdatedAt int64
}

// Clone returns a deep copy safe to hand to another goroutine.
func (d Draft) Clone() Draft {
	out := Draft{
		CustomerID:     d.CustomerID,
		Selection:      append([]string(nil), d.Selection...),
		EditingGroupID: d.EditingGroupID,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.Bundles != nil {
		out.Bundles = make([]Bundle, len(d.Bundles))
		for i, b := range d.Bundles {
			out.Bundles[i] = b.Clone()
		}
	}
	out.ImportedIndices = append([]int(nil), d.ImportedIndices...)
	out.HeldIndices = append([]int(nil), d.HeldIndices...)
	out.HeldSelection = append([]string(nil), d.HeldSelection...)
	out.SeededSelection = append([]string(nil), d.SeededSelection...)
	return out
}

// Contains reports whether the purchase is already in a bundle or the selection.
func (d *Draft) Contains(purchaseID string) bool {
	for _, b := range d.Bundles {
		for _, id := range b.PurchaseIDs {
			if id == purchaseID {
				return true
			}
		}
	}
	for _, id := range d.Selection {
		if id == purchaseID {
			return true
		}
	}
	return false
}

// ClearEdit drops the edit state and its bookkeeping, leaving bundles and
// selection as they are.
func (d *Draft) ClearEdit() {
	d.EditingGroupID = ""
	d.ImportedIndices = nil
	d.HeldIndices = nil
	d.HeldSelection = nil
	d.SeededSelection = nil
}

package models

// GroupStatus is the persisted lifecycle state of a bonus group.
type GroupStatus string

const (
	// GroupStatusActive groups can still be edited, deleted or redeemed.
	GroupStatusActive GroupStatus = "active"
	// GroupStatusRedeemed is terminal; membership and total are frozen.
	GroupStatusRedeemed GroupStatus = "redeemed"
)

// Bundle is an ordered set of purchases treated as one accounting unit.
type Bundle struct {
	PurchaseIDs []string
}

// IsBundle reports whether the bundle combines more than one purchase.
func (b Bundle) IsBundle() bool {
	return len(b.PurchaseIDs) > 1
}

// Clone returns a deep copy of the bundle.
func (b Bundle) Clone() Bundle {
	return Bundle{PurchaseIDs: append([]string(nil), b.PurchaseIDs...)}
}

// BonusGroup is a committed set of bundles that earns a bonus once it holds
// enough bundles.
type BonusGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// CustomerID is the customer this group belongs to.
	CustomerID string

	// Bundles is the group's membership. A bundle's position is its bundle index.
	Bundles []Bundle

	// DiscountRate is the percentage snapshotted when the group was created or last updated.
	DiscountRate float64

	// TotalDiscount is the cached bonus in cents.
	TotalDiscount int64

	// Status is active until the group is redeemed.
	Status GroupStatus

	// Auto is set for groups created by the queue sweep.
	Auto bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last membership change.
	UpdatedAt int64

	// RedeemedAt is the Unix timestamp of redemption, zero while active.
	RedeemedAt int64

	// RedeemedBy is the staff subject that redeemed the group.
	RedeemedBy string
}

// UniqueBundleCount is the number of threshold units in the group.
// A bundle counts once no matter how many purchases it combines.
func (g *BonusGroup) UniqueBundleCount() int {
	n := 0
	for _, b := range g.Bundles {
		if len(b.PurchaseIDs) > 0 {
			n++
		}
	}
	return n
}

// PurchaseIDs returns every purchase referenced by the group in bundle order.
func (g *BonusGroup) PurchaseIDs() []string {
	var ids []string
	for _, b := range g.Bundles {
		ids = append(ids, b.PurchaseIDs...)
	}
	return ids
}

// AllSingles reports whether every bundle holds exactly one purchase, which is
// how auto-created groups look.
func (g *BonusGroup) AllSingles() bool {
	if len(g.Bundles) == 0 {
		return false
	}
	for _, b := range g.Bundles {
		if len(b.PurchaseIDs) != 1 {
			return false
		}
	}
	return true
}

// Settings is the global bonus program configuration.
type Settings struct {
	// DiscountRate is the bonus percentage applied to eligible amounts.
	DiscountRate float64

	// OrdersRequiredForDiscount is the number of bundles a group needs to be redeemable.
	OrdersRequiredForDiscount int

	// AutoCreateDiscount enables automatic groups once the queue is full.
	AutoCreateDiscount bool
}

// DefaultSettings returns the program defaults.
func DefaultSettings() Settings {
	return Settings{
		DiscountRate:              10,
		OrdersRequiredForDiscount: 3,
	}
}

package calculator

import (
	"fmt"

	"github.com/mmynk/bonuswiser/internal/models"
)

// GroupState is a bonus group together with its derived read values.
type GroupState struct {
	Group             models.BonusGroup
	UniqueBundleCount int
	IsRedeemable      bool
	IsPending         bool
}

// Summary aggregates a customer's bonus position.
//
// PendingBonus only covers committed groups that are still below the threshold.
// ProjectedBonus is an estimate for purchases that are not in any group yet and
// is never folded into PendingBonus.
type Summary struct {
	RedeemableBonus int64
	PendingBonus    int64
	ProjectedBonus  int64
	RedeemedBonus   int64
	Groups          []GroupState
}

// Evaluate derives the read values of a single group against the configured threshold.
func Evaluate(g models.BonusGroup, required int) GroupState {
	count := g.UniqueBundleCount()
	active := g.Status == models.GroupStatusActive
	return GroupState{
		Group:             g,
		UniqueBundleCount: count,
		IsRedeemable:      active && count >= required,
		IsPending:         active && count < required,
	}
}

// Summarize computes the customer's bonus aggregates.
// Active group totals are re-derived from the current eligibility flags using
// each group's own rate snapshot; redeemed totals are taken as stored.
func Summarize(purchases []models.Purchase, groups []models.BonusGroup, settings models.Settings) (*Summary, error) {
	byID := IndexPurchases(purchases)
	summary := &Summary{Groups: make([]GroupState, 0, len(groups))}

	for _, g := range groups {
		if g.Status == models.GroupStatusActive {
			total, err := GroupTotal(g.Bundles, g.DiscountRate, byID)
			if err != nil {
				return nil, fmt.Errorf("group %s: %w", g.ID, err)
			}
			g.TotalDiscount = total
		}

		state := Evaluate(g, settings.OrdersRequiredForDiscount)
		switch {
		case g.Status == models.GroupStatusRedeemed:
			summary.RedeemedBonus += g.TotalDiscount
		case state.IsRedeemable:
			summary.RedeemableBonus += g.TotalDiscount
		default:
			summary.PendingBonus += g.TotalDiscount
		}
		summary.Groups = append(summary.Groups, state)
	}

	claimed := ClaimedPurchases(groups)
	for _, p := range purchases {
		if claimed[p.ID] {
			continue
		}
		summary.ProjectedBonus += DiscountFor(EligibleAmount(p), settings.DiscountRate)
	}

	return summary, nil
}

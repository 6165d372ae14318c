package calculator

import (
	"sort"

	"github.com/mmynk/bonuswiser/internal/models"
)

// QueueStatus describes a customer's un-grouped, bonus-eligible purchases.
type QueueStatus struct {
	Count             int
	Required          int
	AutoCreateEnabled bool
	ReadyForDiscount  bool

	// PurchaseIDs are the queued purchases, oldest first.
	PurchaseIDs []string
}

// Queue counts purchases that are not claimed by any group and have a positive
// eligible amount. ReadyForDiscount is only raised when auto-creation is enabled.
func Queue(purchases []models.Purchase, claimed map[string]bool, settings models.Settings) QueueStatus {
	queued := make([]models.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if claimed[p.ID] || EligibleAmount(p) <= 0 {
			continue
		}
		queued = append(queued, p)
	}
	sort.SliceStable(queued, func(i, j int) bool {
		if queued[i].Date != queued[j].Date {
			return queued[i].Date < queued[j].Date
		}
		return queued[i].ID < queued[j].ID
	})

	status := QueueStatus{
		Count:             len(queued),
		Required:          settings.OrdersRequiredForDiscount,
		AutoCreateEnabled: settings.AutoCreateDiscount,
		PurchaseIDs:       make([]string, len(queued)),
	}
	for i, p := range queued {
		status.PurchaseIDs[i] = p.ID
	}
	status.ReadyForDiscount = status.AutoCreateEnabled && status.Required > 0 && status.Count >= status.Required
	return status
}

// ClaimedPurchases returns the set of purchases referenced by any group.
// Redeemed groups keep their purchases forever.
func ClaimedPurchases(groups []models.BonusGroup) map[string]bool {
	claimed := make(map[string]bool)
	for _, g := range groups {
		for _, id := range g.PurchaseIDs() {
			claimed[id] = true
		}
	}
	return claimed
}

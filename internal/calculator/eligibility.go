package calculator

import (
	"fmt"

	"github.com/mmynk/bonuswiser/internal/models"
)

// EligibleAmount returns the part of a purchase that counts toward a bonus:
// the sum of subtotals over lines flagged as discount eligible.
func EligibleAmount(p models.Purchase) int64 {
	var total int64
	for _, line := range p.LineItems {
		if line.DiscountEligible {
			total += line.Subtotal
		}
	}
	return total
}

// BundleEligibleAmount sums the eligible amounts of the bundle's purchases.
func BundleEligibleAmount(b models.Bundle, purchases map[string]models.Purchase) (int64, error) {
	var total int64
	for _, id := range b.PurchaseIDs {
		p, ok := purchases[id]
		if !ok {
			return 0, fmt.Errorf("purchase not found: %s", id)
		}
		total += EligibleAmount(p)
	}
	return total, nil
}

// IndexPurchases keys purchases by ID.
func IndexPurchases(purchases []models.Purchase) map[string]models.Purchase {
	byID := make(map[string]models.Purchase, len(purchases))
	for _, p := range purchases {
		byID[p.ID] = p
	}
	return byID
}

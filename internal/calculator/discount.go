package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/bonuswiser/internal/models"
)

// DiscountFor applies a percentage rate to an amount in cents, rounding half
// away from zero to the nearest cent.
func DiscountFor(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate / 100))
}

// GroupTotal computes a group's bonus from the current eligibility flags:
// Σ eligible(bundle) × rate / 100, rounded once over the whole group.
func GroupTotal(bundles []models.Bundle, rate float64, purchases map[string]models.Purchase) (int64, error) {
	var eligible int64
	for i, b := range bundles {
		amount, err := BundleEligibleAmount(b, purchases)
		if err != nil {
			return 0, fmt.Errorf("bundle %d: %w", i, err)
		}
		eligible += amount
	}
	return DiscountFor(eligible, rate), nil
}

// ValidateRate checks that a discount rate is a usable percentage.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || rate <= 0 || rate > 100 {
		return fmt.Errorf("discount rate must be greater than 0 and at most 100, got %v", rate)
	}
	return nil
}

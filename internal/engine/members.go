package engine

import (
	"sort"

	"github.com/mmynk/bonuswiser/internal/models"
)

// Member places a purchase in a bundle of a group request.
type Member struct {
	PurchaseID  string
	BundleIndex int
}

// BundlesFromMembers folds flat members into bundles. Bundles are ordered by
// bundle index and renumbered from zero; purchases keep their request order
// within a bundle.
func BundlesFromMembers(members []Member) ([]models.Bundle, error) {
	byIndex := make(map[int][]string)
	for _, m := range members {
		if m.BundleIndex < 0 {
			return nil, validationf("bundle index must not be negative, got %d", m.BundleIndex)
		}
		if m.PurchaseID == "" {
			return nil, validationf("order id required")
		}
		byIndex[m.BundleIndex] = append(byIndex[m.BundleIndex], m.PurchaseID)
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	bundles := make([]models.Bundle, len(indices))
	for i, idx := range indices {
		bundles[i] = models.Bundle{PurchaseIDs: byIndex[idx]}
	}
	return bundles, nil
}

// MembersFromBundles is the inverse of BundlesFromMembers.
func MembersFromBundles(bundles []models.Bundle) []Member {
	var members []Member
	for idx, b := range bundles {
		for _, id := range b.PurchaseIDs {
			members = append(members, Member{PurchaseID: id, BundleIndex: idx})
		}
	}
	return members
}

package service

import (
	"github.com/mmynk/bonuswiser/internal/calculator"
	"github.com/mmynk/bonuswiser/internal/engine"
	"github.com/mmynk/bonuswiser/internal/models"
	api "github.com/mmynk/bonuswiser/pkg/api"
)

func toAPIGroup(state calculator.GroupState) *api.BonusGroup {
	g := state.Group
	out := &api.BonusGroup{
		ID:                g.ID,
		CustomerID:        g.CustomerID,
		Bundles:           toAPIBundles(g.Bundles),
		Members:           make([]api.Member, 0, len(g.PurchaseIDs())),
		DiscountRate:      g.DiscountRate,
		TotalDiscount:     g.TotalDiscount,
		Status:            string(g.Status),
		Auto:              g.Auto,
		UniqueBundleCount: state.UniqueBundleCount,
		IsRedeemable:      state.IsRedeemable,
		IsPending:         state.IsPending,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
		RedeemedAt:        g.RedeemedAt,
		RedeemedBy:        g.RedeemedBy,
	}
	for _, m := range engine.MembersFromBundles(g.Bundles) {
		out.Members = append(out.Members, api.Member{OrderID: m.PurchaseID, BundleIndex: m.BundleIndex})
	}
	return out
}

func toAPIBundles(bundles []models.Bundle) [][]string {
	out := make([][]string, len(bundles))
	for i, b := range bundles {
		out[i] = append([]string{}, b.PurchaseIDs...)
	}
	return out
}

func fromAPIBundles(bundles [][]string) []models.Bundle {
	out := make([]models.Bundle, len(bundles))
	for i, ids := range bundles {
		out[i] = models.Bundle{PurchaseIDs: append([]string(nil), ids...)}
	}
	return out
}

func fromAPIMembers(members []api.Member) ([]models.Bundle, error) {
	in := make([]engine.Member, len(members))
	for i, m := range members {
		in[i] = engine.Member{PurchaseID: m.OrderID, BundleIndex: m.BundleIndex}
	}
	return engine.BundlesFromMembers(in)
}

func toAPIDraft(d *models.Draft) *api.Draft {
	return &api.Draft{
		CustomerID:      d.CustomerID,
		Bundles:         toAPIBundles(d.Bundles),
		Selection:       append([]string{}, d.Selection...),
		EditingGroupID:  d.EditingGroupID,
		ImportedIndices: append([]int(nil), d.ImportedIndices...),
		HeldIndices:     append([]int(nil), d.HeldIndices...),
		HeldSelection:   append([]string(nil), d.HeldSelection...),
		SeededSelection: append([]string(nil), d.SeededSelection...),
		UpdatedAt:       d.UpdatedAt,
	}
}

func toAPIQueue(q calculator.QueueStatus) *api.QueueStatus {
	return &api.QueueStatus{
		Count:             q.Count,
		Required:          q.Required,
		AutoCreateEnabled: q.AutoCreateEnabled,
		ReadyForDiscount:  q.ReadyForDiscount,
		OrderIDs:          append([]string{}, q.PurchaseIDs...),
	}
}

func toAPISettings(s models.Settings) *api.Settings {
	return &api.Settings{
		DiscountRate:              s.DiscountRate,
		OrdersRequiredForDiscount: s.OrdersRequiredForDiscount,
		AutoCreateDiscount:        s.AutoCreateDiscount,
	}
}

func fromAPISettings(s api.Settings) models.Settings {
	return models.Settings{
		DiscountRate:              s.DiscountRate,
		OrdersRequiredForDiscount: s.OrdersRequiredForDiscount,
		AutoCreateDiscount:        s.AutoCreateDiscount,
	}
}

func toAPIPurchase(v engine.PurchaseView) *api.Purchase {
	p := v.Purchase
	out := &api.Purchase{
		ID:             p.ID,
		CustomerID:     p.CustomerID,
		Date:           p.Date,
		LineItems:      make([]api.LineItem, len(p.LineItems)),
		EligibleAmount: v.EligibleAmount,
		GroupID:        v.GroupID,
	}
	for i, line := range p.LineItems {
		eligible := line.DiscountEligible
		out.LineItems[i] = api.LineItem{
			ID:               line.ID,
			Description:      line.Description,
			Subtotal:         line.Subtotal,
			DiscountEligible: &eligible,
		}
	}
	return out
}

func fromAPIPurchase(p api.Purchase) models.Purchase {
	out := models.Purchase{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		Date:       p.Date,
		LineItems:  make([]models.LineItem, len(p.LineItems)),
	}
	for i, line := range p.LineItems {
		eligible := true
		if line.DiscountEligible != nil {
			eligible = *line.DiscountEligible
		}
		out.LineItems[i] = models.LineItem{
			ID:               line.ID,
			Description:      line.Description,
			Subtotal:         line.Subtotal,
			DiscountEligible: eligible,
		}
	}
	return out
}

func toAPIOverview(o *engine.Overview) *api.Overview {
	out := &api.Overview{
		Customer: api.Customer{
			ID:    o.Customer.ID,
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
		},
		Purchases: make([]api.Purchase, len(o.Purchases)),
		Groups:    make([]api.BonusGroup, len(o.Summary.Groups)),
		Totals: api.Totals{
			RedeemableBonus: o.Summary.RedeemableBonus,
			PendingBonus:    o.Summary.PendingBonus,
			ProjectedBonus:  o.Summary.ProjectedBonus,
			RedeemedBonus:   o.Summary.RedeemedBonus,
		},
		Queue:    *toAPIQueue(o.Queue),
		Settings: *toAPISettings(o.Settings),
		Draft:    *toAPIDraft(&o.Draft),
	}
	for i, p := range o.Purchases {
		out.Purchases[i] = *toAPIPurchase(p)
	}
	for i, g := range o.Summary.Groups {
		out.Groups[i] = *toAPIGroup(g)
	}
	return out
}

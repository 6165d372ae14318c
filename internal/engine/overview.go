package engine

import (
	"context"

	"github.com/mmynk/bonuswiser/internal/bundle"
	"github.com/mmynk/bonuswiser/internal/calculator"
	"github.com/mmynk/bonuswiser/internal/models"
)

// PurchaseView is a purchase with its derived amounts.
type PurchaseView struct {
	Purchase       models.Purchase
	EligibleAmount int64
	// GroupID is empty while the purchase is unassigned.
	GroupID string
}

func newPurchaseView(p models.Purchase, claims bundle.Claims) PurchaseView {
	return PurchaseView{
		Purchase:       p,
		EligibleAmount: calculator.EligibleAmount(p),
		GroupID:        claims[p.ID],
	}
}

// Overview is everything the bonus screen shows for one customer.
type Overview struct {
	Customer  models.Customer
	Purchases []PurchaseView
	Summary   calculator.Summary
	Queue     calculator.QueueStatus
	Settings  models.Settings
	Draft     models.Draft
}

// GetOverview derives the customer's bonus position from current data.
func (e *Engine) GetOverview(ctx context.Context, customerID string) (*Overview, error) {
	if customerID == "" {
		return nil, e.observe("get_overview", validationf("customer id required"))
	}
	st, err := e.loadState(ctx, customerID)
	if err != nil {
		return nil, e.observe("get_overview", err)
	}

	summary, err := calculator.Summarize(st.purchases, st.groups, st.settings)
	if err != nil {
		return nil, e.observe("get_overview", err)
	}
	d, err := e.loadDraft(ctx, customerID)
	if err != nil {
		return nil, e.observe("get_overview", err)
	}

	overview := &Overview{
		Customer:  *st.customer,
		Purchases: make([]PurchaseView, len(st.purchases)),
		Summary:   *summary,
		Queue:     queueOf(st),
		Settings:  st.settings,
		Draft:     *d,
	}
	for i, p := range st.purchases {
		overview.Purchases[i] = newPurchaseView(p, st.claims)
	}
	return overview, nil
}

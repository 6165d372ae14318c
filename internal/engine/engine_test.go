package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/bonuswiser/internal/draft"
	"github.com/mmynk/bonuswiser/internal/lock"
	"github.com/mmynk/bonuswiser/internal/models"
	"github.com/mmynk/bonuswiser/internal/storage/sqlstore"
)

type fixture struct {
	engine *Engine
	store  *sqlstore.SQLStore
	ctx    context.Context
}

func newFixture(t *testing.T, settings models.Settings) *fixture {
	t.Helper()

	store, err := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	locker := lock.NewLocal()
	autosaver := draft.NewAutosaver(store, locker, draft.WithDelay(10*time.Millisecond))
	t.Cleanup(func() { autosaver.Close(context.Background()) })

	e := New(store, WithLocker(locker), WithAutosaver(autosaver), WithDefaultSettings(settings))
	return &fixture{engine: e, store: store, ctx: context.Background()}
}

func settingsN(n int) models.Settings {
	return models.Settings{DiscountRate: 10, OrdersRequiredForDiscount: n}
}

func line(subtotal int64, eligible bool) models.LineItem {
	return models.LineItem{Description: "item", Subtotal: subtotal, DiscountEligible: eligible}
}

// seed ingests purchases p<i> of 100.00 fully eligible for the customer.
func (f *fixture) seed(t *testing.T, customerID string, ids ...string) {
	t.Helper()
	for i, id := range ids {
		f.ingest(t, customerID, id, int64(100+i), line(10000, true))
	}
}

func (f *fixture) ingest(t *testing.T, customerID, id string, date int64, lines ...models.LineItem) {
	t.Helper()
	_, err := f.engine.IngestPurchase(f.ctx, &models.Customer{ID: customerID, Name: "Customer " + customerID},
		models.Purchase{ID: id, CustomerID: customerID, Date: date, LineItems: lines})
	require.NoError(t, err)
}

func singles(ids ...string) []models.Bundle {
	out := make([]models.Bundle, len(ids))
	for i, id := range ids {
		out[i] = models.Bundle{PurchaseIDs: []string{id}}
	}
	return out
}

func bundles(groups ...[]string) []models.Bundle {
	out := make([]models.Bundle, len(groups))
	for i, ids := range groups {
		out[i] = models.Bundle{PurchaseIDs: ids}
	}
	return out
}

func TestEligibleAmountIgnoresIneligibleLines(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.ingest(t, "c1", "p1", 1, line(1000, true), line(500, false), line(2000, true))

	overview, err := f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	require.Len(t, overview.Purchases, 1)
	assert.Equal(t, int64(3000), overview.Purchases[0].EligibleAmount)
}

func TestBundleCountIsNotPurchaseCount(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2", "p3")

	state, err := f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p1", "p2"}, []string{"p3"}), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, state.UniqueBundleCount)
	assert.Len(t, state.Group.PurchaseIDs(), 3)
	assert.True(t, state.IsRedeemable)
	assert.True(t, state.Group.Bundles[0].IsBundle())
}

func TestThresholdGate(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2", "p3")

	created, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2", "p3"), 0)
	require.NoError(t, err)
	require.True(t, created.IsRedeemable)
	groupID := created.Group.ID

	shrunk, err := f.engine.UpdateGroup(f.ctx, "c1", groupID, singles("p1", "p2"), 0)
	require.NoError(t, err)
	assert.False(t, shrunk.IsRedeemable)
	assert.True(t, shrunk.IsPending)

	_, err = f.engine.RedeemGroup(f.ctx, "c1", groupID, "staff")
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.engine.UpdateGroup(f.ctx, "c1", groupID, singles("p1", "p2", "p3"), 0)
	require.NoError(t, err)
	redeemed, err := f.engine.RedeemGroup(f.ctx, "c1", groupID, "staff")
	require.NoError(t, err)
	assert.Equal(t, models.GroupStatusRedeemed, redeemed.Group.Status)
}

func TestThresholdFollowsSettings(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2")

	created, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2"), 0)
	require.NoError(t, err)
	require.True(t, created.IsRedeemable)

	_, err = f.engine.UpdateSettings(f.ctx, settingsN(4))
	require.NoError(t, err)

	overview, err := f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	require.Len(t, overview.Summary.Groups, 1)
	assert.False(t, overview.Summary.Groups[0].IsRedeemable)

	_, err = f.engine.RedeemGroup(f.ctx, "c1", created.Group.ID, "staff")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoDoubleAssignment(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2", "p3", "p4", "p5")

	_, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2", "p3"), 0)
	require.NoError(t, err)

	_, err = f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p4", "p5"), 0)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "p1")

	_, err = f.engine.AddBundle(f.ctx, "c1", []string{"p1"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.engine.ToggleSelection(f.ctx, "c1", "p2")
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p4", "p4"}, []string{"p5"}, []string{"p3"}), 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestMonotonicRedemption(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2", "p3", "p4")

	created, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2", "p3"), 0)
	require.NoError(t, err)
	groupID := created.Group.ID

	first, err := f.engine.RedeemGroup(f.ctx, "c1", groupID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Group.RedeemedBy)
	assert.NotZero(t, first.Group.RedeemedAt)
	assert.False(t, first.IsRedeemable)
	assert.False(t, first.IsPending)

	_, err = f.engine.RedeemGroup(f.ctx, "c1", groupID, "bob")
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.engine.UpdateGroup(f.ctx, "c1", groupID, singles("p1", "p2", "p4"), 0)
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.engine.DeleteGroup(f.ctx, "c1", groupID)
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.engine.StartEditGroup(f.ctx, "c1", groupID)
	require.ErrorIs(t, err, ErrConflict)

	after, err := f.store.GetGroup(f.ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, first.Group.TotalDiscount, after.TotalDiscount)
	assert.Equal(t, first.Group.Bundles, after.Bundles)
	assert.Equal(t, "alice", after.RedeemedBy)
}

func TestDiscountArithmeticUsesRateSnapshot(t *testing.T) {
	f := newFixture(t, settingsN(1))
	f.ingest(t, "c1", "p1", 1, line(15000, true))
	f.ingest(t, "c1", "p2", 2, line(5000, true), line(999, false))

	created, err := f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p1", "p2"}), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), created.Group.TotalDiscount)
	assert.Equal(t, 10.0, created.Group.DiscountRate)

	_, err = f.engine.UpdateSettings(f.ctx, models.Settings{DiscountRate: 15, OrdersRequiredForDiscount: 1})
	require.NoError(t, err)

	overview, err := f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	require.Len(t, overview.Summary.Groups, 1)
	assert.Equal(t, int64(2000), overview.Summary.Groups[0].Group.TotalDiscount)
	assert.Equal(t, int64(2000), overview.Summary.RedeemableBonus)
}

func TestStaleRateIsRejected(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2")

	_, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2"), 12)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "reload")
}

func TestDeletionReleasesPurchases(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2")

	created, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2"), 0)
	require.NoError(t, err)

	released, err := f.engine.DeleteGroup(f.ctx, "c1", created.Group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, released)

	_, err = f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p2"}, []string{"p1"}), 0)
	require.NoError(t, err)
}

func TestEditPreservesStructure(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2", "p3", "p4", "p5")

	created, err := f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p1", "p2"}, []string{"p3", "p4"}), 0)
	require.NoError(t, err)

	_, err = f.engine.AddBundle(f.ctx, "c1", []string{"p5"})
	require.NoError(t, err)

	d, err := f.engine.StartEditGroup(f.ctx, "c1", created.Group.ID)
	require.NoError(t, err)
	require.Len(t, d.Bundles, 3)
	assert.Equal(t, []string{"p1", "p2"}, d.Bundles[1].PurchaseIDs)
	assert.Equal(t, []string{"p3", "p4"}, d.Bundles[2].PurchaseIDs)
	assert.Equal(t, []int{1, 2}, d.ImportedIndices)
	assert.Empty(t, d.Selection)

	d, err = f.engine.CancelEdit(f.ctx, "c1")
	require.NoError(t, err)
	require.Len(t, d.Bundles, 1)
	assert.Equal(t, []string{"p5"}, d.Bundles[0].PurchaseIDs)
	assert.Empty(t, d.EditingGroupID)

	_, err = f.engine.CancelEdit(f.ctx, "c1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEditAutoGroupSeedsSelection(t *testing.T) {
	f := newFixture(t, models.Settings{DiscountRate: 10, OrdersRequiredForDiscount: 3, AutoCreateDiscount: true})
	f.seed(t, "c1", "p1", "p2", "p3", "p4")

	auto, err := f.engine.AutoCreateGroup(f.ctx, "c1")
	require.NoError(t, err)
	require.True(t, auto.Group.Auto)

	d, err := f.engine.StartEditGroup(f.ctx, "c1", auto.Group.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Bundles)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3", "p4"}, d.Selection)

	// drop one purchase and commit back as an update
	_, err = f.engine.ToggleSelection(f.ctx, "c1", "p4")
	require.NoError(t, err)
	state, err := f.engine.CommitDraft(f.ctx, "c1", 0)
	require.NoError(t, err)
	assert.Equal(t, auto.Group.ID, state.Group.ID)
	assert.Equal(t, 3, state.UniqueBundleCount)

	q, err := f.engine.GetQueueStatus(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p4"}, q.PurchaseIDs)
}

func TestManualSelectionCount(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2", "p3", "p4")

	_, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2"), 0)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "select 3 orders")

	_, err = f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2", "p3", "p4"), 0)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "too many orders")

	_, err = f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p1", "p2"}, []string{"p3"}, []string{"p4"}), 0)
	require.NoError(t, err)
}

func TestGroupNeedsTwoPurchases(t *testing.T) {
	f := newFixture(t, settingsN(1))
	f.seed(t, "c1", "p1")

	_, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1"), 0)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "at least 2 orders")
}

func TestNotFound(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2")
	f.seed(t, "c2", "q1", "q2")

	_, err := f.engine.GetOverview(f.ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.engine.RedeemGroup(f.ctx, "c1", "missing", "staff")
	require.ErrorIs(t, err, ErrNotFound)

	other, err := f.engine.CreateGroup(f.ctx, "c2", singles("q1", "q2"), 0)
	require.NoError(t, err)

	_, err = f.engine.DeleteGroup(f.ctx, "c1", other.Group.ID)
	require.ErrorIs(t, err, ErrNotFound, "groups of other customers are invisible")

	_, err = f.engine.CreateGroup(f.ctx, "c1", singles("p1", "q1"), 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestConcurrentCreateClaimsOnce(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(other string) {
			defer wg.Done()
			_, err := f.engine.CreateGroup(f.ctx, "c1", singles("p0", other), 0)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict), "unexpected error: %v", err)
		}("p" + string(rune('0'+i)))
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	groups, err := f.store.ListGroupsByCustomer(f.ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestConcurrentRedeemPaysOnce(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2")

	created, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2"), 0)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.RedeemGroup(f.ctx, "c1", created.Group.ID, "staff")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 9, conflicts)
}

func TestAutoCreateFromQueue(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2")
	f.ingest(t, "c1", "p0", 50, line(700, false)) // nothing eligible

	_, err := f.engine.AutoCreateGroup(f.ctx, "c1")
	require.ErrorIs(t, err, ErrValidation, "auto-create is disabled")

	_, err = f.engine.UpdateSettings(f.ctx, models.Settings{DiscountRate: 10, OrdersRequiredForDiscount: 3, AutoCreateDiscount: true})
	require.NoError(t, err)

	q, err := f.engine.GetQueueStatus(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, q.Count)
	assert.False(t, q.ReadyForDiscount)

	_, err = f.engine.AutoCreateGroup(f.ctx, "c1")
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.engine.IngestPurchase(f.ctx, nil, models.Purchase{ID: "p3", CustomerID: "c1", Date: 200, LineItems: []models.LineItem{line(3000, true)}})
	require.NoError(t, err)
	f.seed(t, "c1", "p4")

	q, err = f.engine.GetQueueStatus(f.ctx, "c1")
	require.NoError(t, err)
	assert.True(t, q.ReadyForDiscount)
	assert.Equal(t, 4, q.Count)

	state, err := f.engine.AutoCreateGroup(f.ctx, "c1")
	require.NoError(t, err)
	assert.True(t, state.Group.Auto)
	assert.True(t, state.Group.AllSingles())
	assert.Equal(t, 4, state.UniqueBundleCount, "auto-creation takes every queued purchase")
	assert.Equal(t, int64(3300), state.Group.TotalDiscount)

	q, err = f.engine.GetQueueStatus(f.ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, q.Count)
}

func TestAutoCreatePrunesDraft(t *testing.T) {
	f := newFixture(t, models.Settings{DiscountRate: 10, OrdersRequiredForDiscount: 2, AutoCreateDiscount: true})
	f.seed(t, "c1", "p1", "p2")

	_, err := f.engine.AddBundle(f.ctx, "c1", []string{"p1"})
	require.NoError(t, err)

	_, err = f.engine.AutoCreateGroup(f.ctx, "c1")
	require.NoError(t, err)

	d, err := f.engine.GetDraft(f.ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, d.Bundles)
}

func TestCommitDraftCreatesGroup(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2", "p3", "p4")

	_, err := f.engine.AddBundle(f.ctx, "c1", []string{"p1", "p2"})
	require.NoError(t, err)
	_, err = f.engine.AddBundle(f.ctx, "c1", []string{"p3"})
	require.NoError(t, err)

	_, err = f.engine.CommitDraft(f.ctx, "c1", 0)
	require.ErrorIs(t, err, ErrValidation, "two units are not enough")

	_, err = f.engine.AddBundle(f.ctx, "c1", []string{"p4"})
	require.NoError(t, err)
	d, err := f.engine.RemovePurchaseFromBundle(f.ctx, "c1", 0, "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, d.Bundles[0].PurchaseIDs)

	state, err := f.engine.CommitDraft(f.ctx, "c1", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, state.UniqueBundleCount)
	assert.True(t, state.IsRedeemable)

	d, err = f.engine.GetDraft(f.ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, d.Bundles)

	stored, err := f.store.GetDraft(f.ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, stored.Bundles)
}

func TestDraftAutosave(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2", "p3")

	_, err := f.engine.AddBundle(f.ctx, "c1", []string{"p1", "p2"})
	require.NoError(t, err)
	_, err = f.engine.AddBundle(f.ctx, "c1", []string{"p3"})
	require.NoError(t, err)
	_, err = f.engine.RemoveBundle(f.ctx, "c1", 0)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		d, err := f.store.GetDraft(f.ctx, "c1")
		return err == nil && len(d.Bundles) == 1 && d.Bundles[0].PurchaseIDs[0] == "p3"
	}, 2*time.Second, 10*time.Millisecond)

	_, err = f.engine.RemoveBundle(f.ctx, "c1", 5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveDraftOverwrites(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2", "p3", "p4")

	_, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2"), 0)
	require.NoError(t, err)

	in := models.Draft{
		CustomerID: "c1",
		Bundles:    bundles([]string{"p3"}),
		Selection:  []string{"p4"},
	}
	first, err := f.engine.SaveDraft(f.ctx, in)
	require.NoError(t, err)
	second, err := f.engine.SaveDraft(f.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.Bundles, second.Bundles)
	assert.Equal(t, first.Selection, second.Selection)

	stored, err := f.store.GetDraft(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p4"}, stored.Selection)

	_, err = f.engine.SaveDraft(f.ctx, models.Draft{CustomerID: "c1", Bundles: bundles([]string{"p1"})})
	require.ErrorIs(t, err, ErrValidation, "claimed purchases cannot be drafted")

	_, err = f.engine.SaveDraft(f.ctx, models.Draft{CustomerID: "c1", Bundles: bundles([]string{"p3"}), Selection: []string{"p3"}})
	require.ErrorIs(t, err, ErrValidation)
}

func TestEligibilityToggleRederivesActiveTotals(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.ingest(t, "c1", "p1", 1, line(10000, true), line(5000, true))
	f.ingest(t, "c1", "p2", 2, line(10000, true))
	f.ingest(t, "c1", "p3", 3, line(10000, true))
	f.ingest(t, "c1", "p4", 4, line(10000, true))

	active, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), active.Group.TotalDiscount)

	redeemed, err := f.engine.CreateGroup(f.ctx, "c1", singles("p3", "p4"), 0)
	require.NoError(t, err)
	_, err = f.engine.RedeemGroup(f.ctx, "c1", redeemed.Group.ID, "staff")
	require.NoError(t, err)

	overview, err := f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	lineID := overview.Purchases[0].Purchase.LineItems[1].ID

	view, err := f.engine.SetLineItemEligibility(f.ctx, "c1", "p1", lineID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), view.EligibleAmount)
	assert.Equal(t, active.Group.ID, view.GroupID)

	p3 := overview.Purchases[2].Purchase.LineItems[0].ID
	_, err = f.engine.SetLineItemEligibility(f.ctx, "c1", "p3", p3, false)
	require.NoError(t, err)

	overview, err = f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), overview.Summary.RedeemableBonus)
	assert.Equal(t, int64(2000), overview.Summary.RedeemedBonus, "redeemed totals are frozen")

	_, err = f.engine.SetLineItemEligibility(f.ctx, "c1", "p9", lineID, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverviewSeparatesProjectedBonus(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2", "p3", "p4")

	created, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2", "p3"), 0)
	require.NoError(t, err)
	_, err = f.engine.UpdateGroup(f.ctx, "c1", created.Group.ID, singles("p1", "p2"), 0)
	require.NoError(t, err)

	overview, err := f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), overview.Summary.PendingBonus)
	assert.Equal(t, int64(2000), overview.Summary.ProjectedBonus, "p3 and p4 are unassigned")
	assert.Zero(t, overview.Summary.RedeemableBonus)
	assert.Equal(t, "Customer c1", overview.Customer.Name)
	assert.Equal(t, 2, overview.Queue.Count)
	assert.Equal(t, 3, overview.Settings.OrdersRequiredForDiscount)
}

func TestDeleteWhileEditingKeepsBundles(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2", "p3")

	created, err := f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p1", "p2"}, []string{"p3"}), 0)
	require.NoError(t, err)
	_, err = f.engine.StartEditGroup(f.ctx, "c1", created.Group.ID)
	require.NoError(t, err)

	_, err = f.engine.DeleteGroup(f.ctx, "c1", created.Group.ID)
	require.NoError(t, err)

	d, err := f.engine.GetDraft(f.ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, d.EditingGroupID)
	assert.Len(t, d.Bundles, 2)

	state, err := f.engine.CommitDraft(f.ctx, "c1", 0)
	require.NoError(t, err)
	assert.NotEqual(t, created.Group.ID, state.Group.ID)
}

func TestUpdateSettingsValidates(t *testing.T) {
	f := newFixture(t, settingsN(3))

	got, err := f.engine.GetSettings(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, settingsN(3), got)

	_, err = f.engine.UpdateSettings(f.ctx, models.Settings{DiscountRate: 0, OrdersRequiredForDiscount: 3})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.engine.UpdateSettings(f.ctx, models.Settings{DiscountRate: 10, OrdersRequiredForDiscount: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIngestKeepsPurchaseWithOwner(t *testing.T) {
	f := newFixture(t, settingsN(3))
	f.seed(t, "c1", "p1", "p2", "p3")

	created, err := f.engine.CreateGroup(f.ctx, "c1", singles("p1", "p2", "p3"), 0)
	require.NoError(t, err)

	_, err = f.engine.IngestPurchase(f.ctx, &models.Customer{ID: "c2"},
		models.Purchase{ID: "p1", CustomerID: "c2", Date: 5, LineItems: []models.LineItem{line(10000, true)}})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "belongs to customer c1")

	overview, err := f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	require.Len(t, overview.Purchases, 3)
	assert.Equal(t, int64(3000), overview.Summary.PendingBonus+overview.Summary.RedeemableBonus)

	_, err = f.engine.RedeemGroup(f.ctx, "c1", created.Group.ID, "staff")
	require.NoError(t, err)

	// a resend for the same owner is still accepted
	f.ingest(t, "c1", "p1", 100, line(10000, true))
}

func TestIngestKeepsStaffEligibility(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.ingest(t, "c1", "p1", 1, line(10000, true), line(5000, true))

	overview, err := f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	lines := overview.Purchases[0].Purchase.LineItems
	require.Len(t, lines, 2)

	_, err = f.engine.SetLineItemEligibility(f.ctx, "c1", "p1", lines[1].ID, false)
	require.NoError(t, err)

	// the feed resends the order without line IDs
	f.ingest(t, "c1", "p1", 1, line(10000, true), line(5000, true))
	overview, err = f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), overview.Purchases[0].EligibleAmount)
	assert.Equal(t, lines[1].ID, overview.Purchases[0].Purchase.LineItems[1].ID)

	// and again with them
	resent := overview.Purchases[0].Purchase
	resent.LineItems[1].DiscountEligible = true
	_, err = f.engine.IngestPurchase(f.ctx, nil, resent)
	require.NoError(t, err)
	overview, err = f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), overview.Purchases[0].EligibleAmount)

	// a new line takes the feed's flag
	f.ingest(t, "c1", "p1", 1, line(10000, true), line(5000, true), line(2000, true))
	overview, err = f.engine.GetOverview(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), overview.Purchases[0].EligibleAmount)
}

func TestCommitEditKeepsUnrelatedBundles(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2", "p3", "p4", "p5")

	created, err := f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p1", "p2"}, []string{"p3"}), 0)
	require.NoError(t, err)

	_, err = f.engine.AddBundle(f.ctx, "c1", []string{"p4", "p5"})
	require.NoError(t, err)
	_, err = f.engine.StartEditGroup(f.ctx, "c1", created.Group.ID)
	require.NoError(t, err)

	state, err := f.engine.CommitDraft(f.ctx, "c1", 0)
	require.NoError(t, err)
	assert.Equal(t, created.Group.ID, state.Group.ID)
	require.Len(t, state.Group.Bundles, 2)
	assert.Equal(t, []string{"p1", "p2"}, state.Group.Bundles[0].PurchaseIDs)
	assert.Equal(t, []string{"p3"}, state.Group.Bundles[1].PurchaseIDs)

	d, err := f.engine.GetDraft(f.ctx, "c1")
	require.NoError(t, err)
	require.Len(t, d.Bundles, 1)
	assert.Equal(t, []string{"p4", "p5"}, d.Bundles[0].PurchaseIDs)
	assert.Empty(t, d.EditingGroupID)
	assert.Empty(t, d.HeldIndices)
}

func TestCancelEditKeepsEarlierSelection(t *testing.T) {
	f := newFixture(t, models.Settings{DiscountRate: 10, OrdersRequiredForDiscount: 3, AutoCreateDiscount: true})
	f.seed(t, "c1", "p1", "p2", "p3")

	auto, err := f.engine.AutoCreateGroup(f.ctx, "c1")
	require.NoError(t, err)
	f.ingest(t, "c1", "p4", 200, line(10000, true))

	_, err = f.engine.ToggleSelection(f.ctx, "c1", "p4")
	require.NoError(t, err)
	d, err := f.engine.StartEditGroup(f.ctx, "c1", auto.Group.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3", "p4"}, d.Selection)

	d, err = f.engine.CancelEdit(f.ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p4"}, d.Selection)
}

func TestCancelEditReturnsMovedPurchases(t *testing.T) {
	f := newFixture(t, settingsN(2))
	f.seed(t, "c1", "p1", "p2", "p3")

	created, err := f.engine.CreateGroup(f.ctx, "c1", bundles([]string{"p1", "p2"}, []string{"p3"}), 0)
	require.NoError(t, err)
	_, err = f.engine.StartEditGroup(f.ctx, "c1", created.Group.ID)
	require.NoError(t, err)

	_, err = f.engine.RemovePurchaseFromBundle(f.ctx, "c1", 0, "p2")
	require.NoError(t, err)
	_, err = f.engine.AddBundle(f.ctx, "c1", []string{"p2"})
	require.NoError(t, err)

	d, err := f.engine.CancelEdit(f.ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, d.Bundles, "p2 is still held by the group")
}

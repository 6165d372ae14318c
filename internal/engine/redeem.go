package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/bonuswiser/internal/calculator"
	"github.com/mmynk/bonuswiser/internal/models"
	"github.com/mmynk/bonuswiser/internal/storage"
)

// RedeemGroup pays out an active group that meets the threshold. The check
// and the status change happen in one storage write, so a group is redeemed
// at most once however many requests race. Membership and total are frozen
// from then on.
func (e *Engine) RedeemGroup(ctx context.Context, customerID, groupID, redeemedBy string) (*calculator.GroupState, error) {
	var result *calculator.GroupState
	err := e.withCustomer(ctx, customerID, func() error {
		st, err := e.loadState(ctx, customerID)
		if err != nil {
			return err
		}
		group, err := st.group(groupID)
		if err != nil {
			return err
		}
		if group.Status == models.GroupStatusRedeemed {
			return conflictf("bonus group %s is already redeemed", groupID)
		}

		required := st.settings.OrdersRequiredForDiscount
		if count := group.UniqueBundleCount(); count < required {
			return validationf("bonus group needs %d orders to be redeemed (has %d)", required, count)
		}

		// Freeze the total as of now, with the group's own rate.
		total, err := calculator.GroupTotal(group.Bundles, group.DiscountRate, st.byID)
		if err != nil {
			return fmt.Errorf("failed to compute group total: %w", err)
		}

		redeemed, err := e.store.RedeemGroup(ctx, groupID, required, total, redeemedBy)
		if errors.Is(err, storage.ErrBelowThreshold) {
			return validationf("bonus group needs %d orders to be redeemed", required)
		}
		if err != nil {
			return fmt.Errorf("failed to redeem group: %w", err)
		}

		e.metrics.ObserveRedeemed(redeemed.TotalDiscount)
		slog.Info("Bonus group redeemed",
			"customer_id", customerID,
			"group_id", groupID,
			"total_discount", redeemed.TotalDiscount,
			"redeemed_by", redeemedBy)

		state := calculator.Evaluate(*redeemed, required)
		result = &state
		return nil
	})
	return result, e.observe("redeem_group", err)
}

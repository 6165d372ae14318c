package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/bonuswiser/internal/engine"
	"github.com/mmynk/bonuswiser/internal/middleware"
	"github.com/mmynk/bonuswiser/internal/models"
	api "github.com/mmynk/bonuswiser/pkg/api"
	"github.com/mmynk/bonuswiser/pkg/api/apiconnect"
)

// BonusService implements the Connect BonusService on top of the engine.
type BonusService struct {
	apiconnect.UnimplementedBonusServiceHandler
	engine *engine.Engine
}

// NewBonusService creates a new BonusService.
func NewBonusService(e *engine.Engine) *BonusService {
	return &BonusService{engine: e}
}

// GetOverview returns everything the bonus screen shows for a customer.
func (s *BonusService) GetOverview(ctx context.Context, req *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error) {
	slog.Info("GetOverview request received", "customer_id", req.Msg.CustomerID)

	overview, err := s.engine.GetOverview(ctx, req.Msg.CustomerID)
	if err != nil {
		slog.Error("GetOverview failed", "customer_id", req.Msg.CustomerID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("GetOverview successful",
		"customer_id", req.Msg.CustomerID,
		"purchases", len(overview.Purchases),
		"groups", len(overview.Summary.Groups),
	)

	return connect.NewResponse(&api.GetOverviewResponse{Overview: toAPIOverview(overview)}), nil
}

// CreateGroup creates a bonus group from explicit members.
func (s *BonusService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	slog.Info("CreateGroup request received",
		"customer_id", req.Msg.CustomerID,
		"members_count", len(req.Msg.Members),
		"discount_rate", req.Msg.DiscountRate,
	)

	bundles, err := fromAPIMembers(req.Msg.Members)
	if err != nil {
		return nil, connectError(err)
	}

	state, err := s.engine.CreateGroup(ctx, req.Msg.CustomerID, bundles, req.Msg.DiscountRate)
	if err != nil {
		slog.Error("CreateGroup failed", "customer_id", req.Msg.CustomerID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Group created", "group_id", state.Group.ID, "total_discount", state.Group.TotalDiscount)

	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(*state)}), nil
}

// UpdateGroup replaces an active group's membership.
func (s *BonusService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"customer_id", req.Msg.CustomerID,
		"group_id", req.Msg.GroupID,
		"members_count", len(req.Msg.Members),
	)

	bundles, err := fromAPIMembers(req.Msg.Members)
	if err != nil {
		return nil, connectError(err)
	}

	state, err := s.engine.UpdateGroup(ctx, req.Msg.CustomerID, req.Msg.GroupID, bundles, req.Msg.DiscountRate)
	if err != nil {
		slog.Error("UpdateGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("UpdateGroup successful", "group_id", state.Group.ID, "total_discount", state.Group.TotalDiscount)

	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(*state)}), nil
}

// RedeemGroup pays out a group. The staff ID from the token is recorded.
func (s *BonusService) RedeemGroup(ctx context.Context, req *connect.Request[api.RedeemGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	staffID := middleware.GetStaffID(ctx)
	slog.Info("RedeemGroup request received",
		"customer_id", req.Msg.CustomerID,
		"group_id", req.Msg.GroupID,
		"staff_id", staffID,
	)

	state, err := s.engine.RedeemGroup(ctx, req.Msg.CustomerID, req.Msg.GroupID, staffID)
	if err != nil {
		slog.Error("RedeemGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("RedeemGroup successful", "group_id", state.Group.ID, "total_discount", state.Group.TotalDiscount)

	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(*state)}), nil
}

// DeleteGroup removes an active group.
func (s *BonusService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "customer_id", req.Msg.CustomerID, "group_id", req.Msg.GroupID)

	released, err := s.engine.DeleteGroup(ctx, req.Msg.CustomerID, req.Msg.GroupID)
	if err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("DeleteGroup successful", "group_id", req.Msg.GroupID, "released", len(released))

	return connect.NewResponse(&api.DeleteGroupResponse{
		GroupID:          req.Msg.GroupID,
		ReleasedOrderIDs: released,
	}), nil
}

// SaveDraft overwrites the customer's draft.
func (s *BonusService) SaveDraft(ctx context.Context, req *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	slog.Info("SaveDraft request received",
		"customer_id", req.Msg.CustomerID,
		"bundles", len(req.Msg.Bundles),
		"selection", len(req.Msg.Selection),
	)

	d, err := s.engine.SaveDraft(ctx, models.Draft{
		CustomerID:      req.Msg.CustomerID,
		Bundles:         fromAPIBundles(req.Msg.Bundles),
		Selection:       req.Msg.Selection,
		EditingGroupID:  req.Msg.EditingGroupID,
		ImportedIndices: req.Msg.ImportedIndices,
		HeldIndices:     req.Msg.HeldIndices,
		HeldSelection:   req.Msg.HeldSelection,
		SeededSelection: req.Msg.SeededSelection,
	})
	if err != nil {
		slog.Error("SaveDraft failed", "customer_id", req.Msg.CustomerID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DraftResponse{Draft: toAPIDraft(d)}), nil
}

// AddBundle appends a bundle to the draft.
func (s *BonusService) AddBundle(ctx context.Context, req *connect.Request[api.AddBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	slog.Info("AddBundle request received", "customer_id", req.Msg.CustomerID, "order_ids", req.Msg.OrderIDs)

	d, err := s.engine.AddBundle(ctx, req.Msg.CustomerID, req.Msg.OrderIDs)
	return draftResponse("AddBundle", req.Msg.CustomerID, d, err)
}

// RemoveBundle drops a draft bundle.
func (s *BonusService) RemoveBundle(ctx context.Context, req *connect.Request[api.RemoveBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	slog.Info("RemoveBundle request received", "customer_id", req.Msg.CustomerID, "bundle_index", req.Msg.BundleIndex)

	d, err := s.engine.RemoveBundle(ctx, req.Msg.CustomerID, req.Msg.BundleIndex)
	return draftResponse("RemoveBundle", req.Msg.CustomerID, d, err)
}

// RemovePurchaseFromBundle takes one order out of a draft bundle.
func (s *BonusService) RemovePurchaseFromBundle(ctx context.Context, req *connect.Request[api.RemovePurchaseFromBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	slog.Info("RemovePurchaseFromBundle request received",
		"customer_id", req.Msg.CustomerID,
		"bundle_index", req.Msg.BundleIndex,
		"order_id", req.Msg.OrderID,
	)

	d, err := s.engine.RemovePurchaseFromBundle(ctx, req.Msg.CustomerID, req.Msg.BundleIndex, req.Msg.OrderID)
	return draftResponse("RemovePurchaseFromBundle", req.Msg.CustomerID, d, err)
}

// ToggleSelection selects or deselects an order.
func (s *BonusService) ToggleSelection(ctx context.Context, req *connect.Request[api.ToggleSelectionRequest]) (*connect.Response[api.DraftResponse], error) {
	slog.Info("ToggleSelection request received", "customer_id", req.Msg.CustomerID, "order_id", req.Msg.OrderID)

	d, err := s.engine.ToggleSelection(ctx, req.Msg.CustomerID, req.Msg.OrderID)
	return draftResponse("ToggleSelection", req.Msg.CustomerID, d, err)
}

// StartEditGroup re-opens a group in the draft.
func (s *BonusService) StartEditGroup(ctx context.Context, req *connect.Request[api.StartEditGroupRequest]) (*connect.Response[api.DraftResponse], error) {
	slog.Info("StartEditGroup request received", "customer_id", req.Msg.CustomerID, "group_id", req.Msg.GroupID)

	d, err := s.engine.StartEditGroup(ctx, req.Msg.CustomerID, req.Msg.GroupID)
	return draftResponse("StartEditGroup", req.Msg.CustomerID, d, err)
}

// CancelEdit abandons the open edit.
func (s *BonusService) CancelEdit(ctx context.Context, req *connect.Request[api.CancelEditRequest]) (*connect.Response[api.DraftResponse], error) {
	slog.Info("CancelEdit request received", "customer_id", req.Msg.CustomerID)

	d, err := s.engine.CancelEdit(ctx, req.Msg.CustomerID)
	return draftResponse("CancelEdit", req.Msg.CustomerID, d, err)
}

func draftResponse(op, customerID string, d *models.Draft, err error) (*connect.Response[api.DraftResponse], error) {
	if err != nil {
		slog.Error(op+" failed", "customer_id", customerID, "error", err)
		return nil, connectError(err)
	}
	slog.Debug(op+" successful", "customer_id", customerID, "bundles", len(d.Bundles), "selection", len(d.Selection))
	return connect.NewResponse(&api.DraftResponse{Draft: toAPIDraft(d)}), nil
}

// CommitDraft turns the draft into a group.
func (s *BonusService) CommitDraft(ctx context.Context, req *connect.Request[api.CommitDraftRequest]) (*connect.Response[api.GroupResponse], error) {
	slog.Info("CommitDraft request received", "customer_id", req.Msg.CustomerID)

	state, err := s.engine.CommitDraft(ctx, req.Msg.CustomerID, req.Msg.DiscountRate)
	if err != nil {
		slog.Error("CommitDraft failed", "customer_id", req.Msg.CustomerID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("CommitDraft successful", "group_id", state.Group.ID)

	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(*state)}), nil
}

// GetQueueStatus reports the customer's unassigned eligible orders.
func (s *BonusService) GetQueueStatus(ctx context.Context, req *connect.Request[api.GetQueueStatusRequest]) (*connect.Response[api.QueueStatusResponse], error) {
	slog.Info("GetQueueStatus request received", "customer_id", req.Msg.CustomerID)

	q, err := s.engine.GetQueueStatus(ctx, req.Msg.CustomerID)
	if err != nil {
		slog.Error("GetQueueStatus failed", "customer_id", req.Msg.CustomerID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.QueueStatusResponse{Queue: toAPIQueue(*q)}), nil
}

// AutoCreateGroup creates a group from a full queue.
func (s *BonusService) AutoCreateGroup(ctx context.Context, req *connect.Request[api.AutoCreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	slog.Info("AutoCreateGroup request received", "customer_id", req.Msg.CustomerID)

	state, err := s.engine.AutoCreateGroup(ctx, req.Msg.CustomerID)
	if err != nil {
		slog.Error("AutoCreateGroup failed", "customer_id", req.Msg.CustomerID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("AutoCreateGroup successful", "group_id", state.Group.ID, "bundles", state.UniqueBundleCount)

	return connect.NewResponse(&api.GroupResponse{Group: toAPIGroup(*state)}), nil
}

// IngestPurchase records an order from the order feed.
func (s *BonusService) IngestPurchase(ctx context.Context, req *connect.Request[api.IngestPurchaseRequest]) (*connect.Response[api.QueueStatusResponse], error) {
	slog.Info("IngestPurchase request received",
		"customer_id", req.Msg.Purchase.CustomerID,
		"order_id", req.Msg.Purchase.ID,
		"line_items", len(req.Msg.Purchase.LineItems),
	)

	var customer *models.Customer
	if c := req.Msg.Customer; c != nil {
		customer = &models.Customer{ID: c.ID, Name: c.Name, Email: c.Email}
	}

	q, err := s.engine.IngestPurchase(ctx, customer, fromAPIPurchase(req.Msg.Purchase))
	if err != nil {
		slog.Error("IngestPurchase failed", "order_id", req.Msg.Purchase.ID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.QueueStatusResponse{Queue: toAPIQueue(*q)}), nil
}

// SetLineItemEligibility flips a line item's discount flag.
func (s *BonusService) SetLineItemEligibility(ctx context.Context, req *connect.Request[api.SetLineItemEligibilityRequest]) (*connect.Response[api.PurchaseResponse], error) {
	slog.Info("SetLineItemEligibility request received",
		"customer_id", req.Msg.CustomerID,
		"order_id", req.Msg.OrderID,
		"line_item_id", req.Msg.LineItemID,
		"eligible", req.Msg.DiscountEligible,
	)

	view, err := s.engine.SetLineItemEligibility(ctx, req.Msg.CustomerID, req.Msg.OrderID, req.Msg.LineItemID, req.Msg.DiscountEligible)
	if err != nil {
		slog.Error("SetLineItemEligibility failed", "order_id", req.Msg.OrderID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.PurchaseResponse{Purchase: toAPIPurchase(*view)}), nil
}

// GetSettings returns the program settings.
func (s *BonusService) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.SettingsResponse], error) {
	settings, err := s.engine.GetSettings(ctx)
	if err != nil {
		slog.Error("GetSettings failed", "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.SettingsResponse{Settings: toAPISettings(settings)}), nil
}

// UpdateSettings replaces the program settings.
func (s *BonusService) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.SettingsResponse], error) {
	slog.Info("UpdateSettings request received",
		"discount_rate", req.Msg.Settings.DiscountRate,
		"orders_required", req.Msg.Settings.OrdersRequiredForDiscount,
		"auto_create", req.Msg.Settings.AutoCreateDiscount,
		"staff_id", middleware.GetStaffID(ctx),
	)

	settings, err := s.engine.UpdateSettings(ctx, fromAPISettings(req.Msg.Settings))
	if err != nil {
		slog.Error("UpdateSettings failed", "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.SettingsResponse{Settings: toAPISettings(settings)}), nil
}

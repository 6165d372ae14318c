// Package apiconnect wires the bonuswiser.v1.BonusService messages in
// package api to connect-go. Messages travel as JSON; there is no protobuf
// schema behind them, so the handler and client are registered with the
// package's JSON codec.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	api "github.com/mmynk/bonuswiser/pkg/api"
)

// BonusServiceName is the fully-qualified name of the BonusService service.
const BonusServiceName = "bonuswiser.v1.BonusService"

// These constants are the fully-qualified names of the RPCs defined in this
// package. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	BonusServiceGetOverviewProcedure              = "/bonuswiser.v1.BonusService/GetOverview"
	BonusServiceCreateGroupProcedure              = "/bonuswiser.v1.BonusService/CreateGroup"
	BonusServiceUpdateGroupProcedure              = "/bonuswiser.v1.BonusService/UpdateGroup"
	BonusServiceRedeemGroupProcedure              = "/bonuswiser.v1.BonusService/RedeemGroup"
	BonusServiceDeleteGroupProcedure              = "/bonuswiser.v1.BonusService/DeleteGroup"
	BonusServiceSaveDraftProcedure                = "/bonuswiser.v1.BonusService/SaveDraft"
	BonusServiceAddBundleProcedure                = "/bonuswiser.v1.BonusService/AddBundle"
	BonusServiceRemoveBundleProcedure             = "/bonuswiser.v1.BonusService/RemoveBundle"
	BonusServiceRemovePurchaseFromBundleProcedure = "/bonuswiser.v1.BonusService/RemovePurchaseFromBundle"
	BonusServiceToggleSelectionProcedure          = "/bonuswiser.v1.BonusService/ToggleSelection"
	BonusServiceStartEditGroupProcedure           = "/bonuswiser.v1.BonusService/StartEditGroup"
	BonusServiceCancelEditProcedure               = "/bonuswiser.v1.BonusService/CancelEdit"
	BonusServiceCommitDraftProcedure              = "/bonuswiser.v1.BonusService/CommitDraft"
	BonusServiceGetQueueStatusProcedure           = "/bonuswiser.v1.BonusService/GetQueueStatus"
	BonusServiceAutoCreateGroupProcedure          = "/bonuswiser.v1.BonusService/AutoCreateGroup"
	BonusServiceIngestPurchaseProcedure           = "/bonuswiser.v1.BonusService/IngestPurchase"
	BonusServiceSetLineItemEligibilityProcedure   = "/bonuswiser.v1.BonusService/SetLineItemEligibility"
	BonusServiceGetSettingsProcedure              = "/bonuswiser.v1.BonusService/GetSettings"
	BonusServiceUpdateSettingsProcedure           = "/bonuswiser.v1.BonusService/UpdateSettings"
)

// BonusServiceClient is a client for the bonuswiser.v1.BonusService service.
type BonusServiceClient interface {
	// Returns the customer's purchases, groups, queue, settings, draft and totals.
	GetOverview(context.Context, *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error)
	// Creates an active group from exactly the configured number of units.
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	// Replaces an active group's membership.
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	// Pays out a group that meets the threshold.
	RedeemGroup(context.Context, *connect.Request[api.RedeemGroupRequest]) (*connect.Response[api.GroupResponse], error)
	// Deletes an active group and releases its orders.
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	// Overwrites the customer's draft.
	SaveDraft(context.Context, *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.DraftResponse], error)
	// Appends a bundle to the draft.
	AddBundle(context.Context, *connect.Request[api.AddBundleRequest]) (*connect.Response[api.DraftResponse], error)
	// Drops a draft bundle.
	RemoveBundle(context.Context, *connect.Request[api.RemoveBundleRequest]) (*connect.Response[api.DraftResponse], error)
	// Takes one order out of a draft bundle.
	RemovePurchaseFromBundle(context.Context, *connect.Request[api.RemovePurchaseFromBundleRequest]) (*connect.Response[api.DraftResponse], error)
	// Selects or deselects an order directly.
	ToggleSelection(context.Context, *connect.Request[api.ToggleSelectionRequest]) (*connect.Response[api.DraftResponse], error)
	// Re-opens an active group in the draft.
	StartEditGroup(context.Context, *connect.Request[api.StartEditGroupRequest]) (*connect.Response[api.DraftResponse], error)
	// Abandons the open group edit.
	CancelEdit(context.Context, *connect.Request[api.CancelEditRequest]) (*connect.Response[api.DraftResponse], error)
	// Turns the draft into a new or updated group.
	CommitDraft(context.Context, *connect.Request[api.CommitDraftRequest]) (*connect.Response[api.GroupResponse], error)
	// Reports the customer's unassigned eligible orders.
	GetQueueStatus(context.Context, *connect.Request[api.GetQueueStatusRequest]) (*connect.Response[api.QueueStatusResponse], error)
	// Creates a group from a full queue.
	AutoCreateGroup(context.Context, *connect.Request[api.AutoCreateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	// Records an order from the order feed.
	IngestPurchase(context.Context, *connect.Request[api.IngestPurchaseRequest]) (*connect.Response[api.QueueStatusResponse], error)
	// Flips a line item's discount flag.
	SetLineItemEligibility(context.Context, *connect.Request[api.SetLineItemEligibilityRequest]) (*connect.Response[api.PurchaseResponse], error)
	// Returns the program settings.
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.SettingsResponse], error)
	// Replaces the program settings.
	UpdateSettings(context.Context, *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.SettingsResponse], error)
}

// NewBonusServiceClient constructs a client for the bonuswiser.v1.BonusService
// service. The JSON codec is always used; options may add interceptors.
func NewBonusServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BonusServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &bonusServiceClient{
		getOverview:              connect.NewClient[api.GetOverviewRequest, api.GetOverviewResponse](httpClient, baseURL+BonusServiceGetOverviewProcedure, opts...),
		createGroup:              connect.NewClient[api.CreateGroupRequest, api.GroupResponse](httpClient, baseURL+BonusServiceCreateGroupProcedure, opts...),
		updateGroup:              connect.NewClient[api.UpdateGroupRequest, api.GroupResponse](httpClient, baseURL+BonusServiceUpdateGroupProcedure, opts...),
		redeemGroup:              connect.NewClient[api.RedeemGroupRequest, api.GroupResponse](httpClient, baseURL+BonusServiceRedeemGroupProcedure, opts...),
		deleteGroup:              connect.NewClient[api.DeleteGroupRequest, api.DeleteGroupResponse](httpClient, baseURL+BonusServiceDeleteGroupProcedure, opts...),
		saveDraft:                connect.NewClient[api.SaveDraftRequest, api.DraftResponse](httpClient, baseURL+BonusServiceSaveDraftProcedure, opts...),
		addBundle:                connect.NewClient[api.AddBundleRequest, api.DraftResponse](httpClient, baseURL+BonusServiceAddBundleProcedure, opts...),
		removeBundle:             connect.NewClient[api.RemoveBundleRequest, api.DraftResponse](httpClient, baseURL+BonusServiceRemoveBundleProcedure, opts...),
		removePurchaseFromBundle: connect.NewClient[api.RemovePurchaseFromBundleRequest, api.DraftResponse](httpClient, baseURL+BonusServiceRemovePurchaseFromBundleProcedure, opts...),
		toggleSelection:          connect.NewClient[api.ToggleSelectionRequest, api.DraftResponse](httpClient, baseURL+BonusServiceToggleSelectionProcedure, opts...),
		startEditGroup:           connect.NewClient[api.StartEditGroupRequest, api.DraftResponse](httpClient, baseURL+BonusServiceStartEditGroupProcedure, opts...),
		cancelEdit:               connect.NewClient[api.CancelEditRequest, api.DraftResponse](httpClient, baseURL+BonusServiceCancelEditProcedure, opts...),
		commitDraft:              connect.NewClient[api.CommitDraftRequest, api.GroupResponse](httpClient, baseURL+BonusServiceCommitDraftProcedure, opts...),
		getQueueStatus:           connect.NewClient[api.GetQueueStatusRequest, api.QueueStatusResponse](httpClient, baseURL+BonusServiceGetQueueStatusProcedure, opts...),
		autoCreateGroup:          connect.NewClient[api.AutoCreateGroupRequest, api.GroupResponse](httpClient, baseURL+BonusServiceAutoCreateGroupProcedure, opts...),
		ingestPurchase:           connect.NewClient[api.IngestPurchaseRequest, api.QueueStatusResponse](httpClient, baseURL+BonusServiceIngestPurchaseProcedure, opts...),
		setLineItemEligibility:   connect.NewClient[api.SetLineItemEligibilityRequest, api.PurchaseResponse](httpClient, baseURL+BonusServiceSetLineItemEligibilityProcedure, opts...),
		getSettings:              connect.NewClient[api.GetSettingsRequest, api.SettingsResponse](httpClient, baseURL+BonusServiceGetSettingsProcedure, opts...),
		updateSettings:           connect.NewClient[api.UpdateSettingsRequest, api.SettingsResponse](httpClient, baseURL+BonusServiceUpdateSettingsProcedure, opts...),
	}
}

// bonusServiceClient implements BonusServiceClient.
type bonusServiceClient struct {
	getOverview              *connect.Client[api.GetOverviewRequest, api.GetOverviewResponse]
	createGroup              *connect.Client[api.CreateGroupRequest, api.GroupResponse]
	updateGroup              *connect.Client[api.UpdateGroupRequest, api.GroupResponse]
	redeemGroup              *connect.Client[api.RedeemGroupRequest, api.GroupResponse]
	deleteGroup              *connect.Client[api.DeleteGroupRequest, api.DeleteGroupResponse]
	saveDraft                *connect.Client[api.SaveDraftRequest, api.DraftResponse]
	addBundle                *connect.Client[api.AddBundleRequest, api.DraftResponse]
	removeBundle             *connect.Client[api.RemoveBundleRequest, api.DraftResponse]
	removePurchaseFromBundle *connect.Client[api.RemovePurchaseFromBundleRequest, api.DraftResponse]
	toggleSelection          *connect.Client[api.ToggleSelectionRequest, api.DraftResponse]
	startEditGroup           *connect.Client[api.StartEditGroupRequest, api.DraftResponse]
	cancelEdit               *connect.Client[api.CancelEditRequest, api.DraftResponse]
	commitDraft              *connect.Client[api.CommitDraftRequest, api.GroupResponse]
	getQueueStatus           *connect.Client[api.GetQueueStatusRequest, api.QueueStatusResponse]
	autoCreateGroup          *connect.Client[api.AutoCreateGroupRequest, api.GroupResponse]
	ingestPurchase           *connect.Client[api.IngestPurchaseRequest, api.QueueStatusResponse]
	setLineItemEligibility   *connect.Client[api.SetLineItemEligibilityRequest, api.PurchaseResponse]
	getSettings              *connect.Client[api.GetSettingsRequest, api.SettingsResponse]
	updateSettings           *connect.Client[api.UpdateSettingsRequest, api.SettingsResponse]
}

// GetOverview calls bonuswiser.v1.BonusService.GetOverview.
func (c *bonusServiceClient) GetOverview(ctx context.Context, req *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error) {
	return c.getOverview.CallUnary(ctx, req)
}

// CreateGroup calls bonuswiser.v1.BonusService.CreateGroup.
func (c *bonusServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

// UpdateGroup calls bonuswiser.v1.BonusService.UpdateGroup.
func (c *bonusServiceClient) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

// RedeemGroup calls bonuswiser.v1.BonusService.RedeemGroup.
func (c *bonusServiceClient) RedeemGroup(ctx context.Context, req *connect.Request[api.RedeemGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.redeemGroup.CallUnary(ctx, req)
}

// DeleteGroup calls bonuswiser.v1.BonusService.DeleteGroup.
func (c *bonusServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

// SaveDraft calls bonuswiser.v1.BonusService.SaveDraft.
func (c *bonusServiceClient) SaveDraft(ctx context.Context, req *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.saveDraft.CallUnary(ctx, req)
}

// AddBundle calls bonuswiser.v1.BonusService.AddBundle.
func (c *bonusServiceClient) AddBundle(ctx context.Context, req *connect.Request[api.AddBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.addBundle.CallUnary(ctx, req)
}

// RemoveBundle calls bonuswiser.v1.BonusService.RemoveBundle.
func (c *bonusServiceClient) RemoveBundle(ctx context.Context, req *connect.Request[api.RemoveBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.removeBundle.CallUnary(ctx, req)
}

// RemovePurchaseFromBundle calls bonuswiser.v1.BonusService.RemovePurchaseFromBundle.
func (c *bonusServiceClient) RemovePurchaseFromBundle(ctx context.Context, req *connect.Request[api.RemovePurchaseFromBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.removePurchaseFromBundle.CallUnary(ctx, req)
}

// ToggleSelection calls bonuswiser.v1.BonusService.ToggleSelection.
func (c *bonusServiceClient) ToggleSelection(ctx context.Context, req *connect.Request[api.ToggleSelectionRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.toggleSelection.CallUnary(ctx, req)
}

// StartEditGroup calls bonuswiser.v1.BonusService.StartEditGroup.
func (c *bonusServiceClient) StartEditGroup(ctx context.Context, req *connect.Request[api.StartEditGroupRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.startEditGroup.CallUnary(ctx, req)
}

// CancelEdit calls bonuswiser.v1.BonusService.CancelEdit.
func (c *bonusServiceClient) CancelEdit(ctx context.Context, req *connect.Request[api.CancelEditRequest]) (*connect.Response[api.DraftResponse], error) {
	return c.cancelEdit.CallUnary(ctx, req)
}

// CommitDraft calls bonuswiser.v1.BonusService.CommitDraft.
func (c *bonusServiceClient) CommitDraft(ctx context.Context, req *connect.Request[api.CommitDraftRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.commitDraft.CallUnary(ctx, req)
}

// GetQueueStatus calls bonuswiser.v1.BonusService.GetQueueStatus.
func (c *bonusServiceClient) GetQueueStatus(ctx context.Context, req *connect.Request[api.GetQueueStatusRequest]) (*connect.Response[api.QueueStatusResponse], error) {
	return c.getQueueStatus.CallUnary(ctx, req)
}

// AutoCreateGroup calls bonuswiser.v1.BonusService.AutoCreateGroup.
func (c *bonusServiceClient) AutoCreateGroup(ctx context.Context, req *connect.Request[api.AutoCreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return c.autoCreateGroup.CallUnary(ctx, req)
}

// IngestPurchase calls bonuswiser.v1.BonusService.IngestPurchase.
func (c *bonusServiceClient) IngestPurchase(ctx context.Context, req *connect.Request[api.IngestPurchaseRequest]) (*connect.Response[api.QueueStatusResponse], error) {
	return c.ingestPurchase.CallUnary(ctx, req)
}

// SetLineItemEligibility calls bonuswiser.v1.BonusService.SetLineItemEligibility.
func (c *bonusServiceClient) SetLineItemEligibility(ctx context.Context, req *connect.Request[api.SetLineItemEligibilityRequest]) (*connect.Response[api.PurchaseResponse], error) {
	return c.setLineItemEligibility.CallUnary(ctx, req)
}

// GetSettings calls bonuswiser.v1.BonusService.GetSettings.
func (c *bonusServiceClient) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.SettingsResponse], error) {
	return c.getSettings.CallUnary(ctx, req)
}

// UpdateSettings calls bonuswiser.v1.BonusService.UpdateSettings.
func (c *bonusServiceClient) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.SettingsResponse], error) {
	return c.updateSettings.CallUnary(ctx, req)
}

// BonusServiceHandler is an implementation of the bonuswiser.v1.BonusService service.
type BonusServiceHandler interface {
	// Returns the customer's purchases, groups, queue, settings, draft and totals.
	GetOverview(context.Context, *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error)
	// Creates an active group from exactly the configured number of units.
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	// Replaces an active group's membership.
	UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	// Pays out a group that meets the threshold.
	RedeemGroup(context.Context, *connect.Request[api.RedeemGroupRequest]) (*connect.Response[api.GroupResponse], error)
	// Deletes an active group and releases its orders.
	DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error)
	// Overwrites the customer's draft.
	SaveDraft(context.Context, *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.DraftResponse], error)
	// Appends a bundle to the draft.
	AddBundle(context.Context, *connect.Request[api.AddBundleRequest]) (*connect.Response[api.DraftResponse], error)
	// Drops a draft bundle.
	RemoveBundle(context.Context, *connect.Request[api.RemoveBundleRequest]) (*connect.Response[api.DraftResponse], error)
	// Takes one order out of a draft bundle.
	RemovePurchaseFromBundle(context.Context, *connect.Request[api.RemovePurchaseFromBundleRequest]) (*connect.Response[api.DraftResponse], error)
	// Selects or deselects an order directly.
	ToggleSelection(context.Context, *connect.Request[api.ToggleSelectionRequest]) (*connect.Response[api.DraftResponse], error)
	// Re-opens an active group in the draft.
	StartEditGroup(context.Context, *connect.Request[api.StartEditGroupRequest]) (*connect.Response[api.DraftResponse], error)
	// Abandons the open group edit.
	CancelEdit(context.Context, *connect.Request[api.CancelEditRequest]) (*connect.Response[api.DraftResponse], error)
	// Turns the draft into a new or updated group.
	CommitDraft(context.Context, *connect.Request[api.CommitDraftRequest]) (*connect.Response[api.GroupResponse], error)
	// Reports the customer's unassigned eligible orders.
	GetQueueStatus(context.Context, *connect.Request[api.GetQueueStatusRequest]) (*connect.Response[api.QueueStatusResponse], error)
	// Creates a group from a full queue.
	AutoCreateGroup(context.Context, *connect.Request[api.AutoCreateGroupRequest]) (*connect.Response[api.GroupResponse], error)
	// Records an order from the order feed.
	IngestPurchase(context.Context, *connect.Request[api.IngestPurchaseRequest]) (*connect.Response[api.QueueStatusResponse], error)
	// Flips a line item's discount flag.
	SetLineItemEligibility(context.Context, *connect.Request[api.SetLineItemEligibilityRequest]) (*connect.Response[api.PurchaseResponse], error)
	// Returns the program settings.
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.SettingsResponse], error)
	// Replaces the program settings.
	UpdateSettings(context.Context, *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.SettingsResponse], error)
}

// NewBonusServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewBonusServiceHandler(svc BonusServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	bonusServiceGetOverviewHandler := connect.NewUnaryHandler(
		BonusServiceGetOverviewProcedure,
		svc.GetOverview,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	bonusServiceCreateGroupHandler := connect.NewUnaryHandler(
		BonusServiceCreateGroupProcedure,
		svc.CreateGroup,
		opts...,
	)
	bonusServiceUpdateGroupHandler := connect.NewUnaryHandler(
		BonusServiceUpdateGroupProcedure,
		svc.UpdateGroup,
		opts...,
	)
	bonusServiceRedeemGroupHandler := connect.NewUnaryHandler(
		BonusServiceRedeemGroupProcedure,
		svc.RedeemGroup,
		opts...,
	)
	bonusServiceDeleteGroupHandler := connect.NewUnaryHandler(
		BonusServiceDeleteGroupProcedure,
		svc.DeleteGroup,
		opts...,
	)
	bonusServiceSaveDraftHandler := connect.NewUnaryHandler(
		BonusServiceSaveDraftProcedure,
		svc.SaveDraft,
		opts...,
	)
	bonusServiceAddBundleHandler := connect.NewUnaryHandler(
		BonusServiceAddBundleProcedure,
		svc.AddBundle,
		opts...,
	)
	bonusServiceRemoveBundleHandler := connect.NewUnaryHandler(
		BonusServiceRemoveBundleProcedure,
		svc.RemoveBundle,
		opts...,
	)
	bonusServiceRemovePurchaseFromBundleHandler := connect.NewUnaryHandler(
		BonusServiceRemovePurchaseFromBundleProcedure,
		svc.RemovePurchaseFromBundle,
		opts...,
	)
	bonusServiceToggleSelectionHandler := connect.NewUnaryHandler(
		BonusServiceToggleSelectionProcedure,
		svc.ToggleSelection,
		opts...,
	)
	bonusServiceStartEditGroupHandler := connect.NewUnaryHandler(
		BonusServiceStartEditGroupProcedure,
		svc.StartEditGroup,
		opts...,
	)
	bonusServiceCancelEditHandler := connect.NewUnaryHandler(
		BonusServiceCancelEditProcedure,
		svc.CancelEdit,
		opts...,
	)
	bonusServiceCommitDraftHandler := connect.NewUnaryHandler(
		BonusServiceCommitDraftProcedure,
		svc.CommitDraft,
		opts...,
	)
	bonusServiceGetQueueStatusHandler := connect.NewUnaryHandler(
		BonusServiceGetQueueStatusProcedure,
		svc.GetQueueStatus,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	bonusServiceAutoCreateGroupHandler := connect.NewUnaryHandler(
		BonusServiceAutoCreateGroupProcedure,
		svc.AutoCreateGroup,
		opts...,
	)
	bonusServiceIngestPurchaseHandler := connect.NewUnaryHandler(
		BonusServiceIngestPurchaseProcedure,
		svc.IngestPurchase,
		opts...,
	)
	bonusServiceSetLineItemEligibilityHandler := connect.NewUnaryHandler(
		BonusServiceSetLineItemEligibilityProcedure,
		svc.SetLineItemEligibility,
		opts...,
	)
	bonusServiceGetSettingsHandler := connect.NewUnaryHandler(
		BonusServiceGetSettingsProcedure,
		svc.GetSettings,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	bonusServiceUpdateSettingsHandler := connect.NewUnaryHandler(
		BonusServiceUpdateSettingsProcedure,
		svc.UpdateSettings,
		opts...,
	)
	return "/bonuswiser.v1.BonusService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BonusServiceGetOverviewProcedure:
			bonusServiceGetOverviewHandler.ServeHTTP(w, r)
		case BonusServiceCreateGroupProcedure:
			bonusServiceCreateGroupHandler.ServeHTTP(w, r)
		case BonusServiceUpdateGroupProcedure:
			bonusServiceUpdateGroupHandler.ServeHTTP(w, r)
		case BonusServiceRedeemGroupProcedure:
			bonusServiceRedeemGroupHandler.ServeHTTP(w, r)
		case BonusServiceDeleteGroupProcedure:
			bonusServiceDeleteGroupHandler.ServeHTTP(w, r)
		case BonusServiceSaveDraftProcedure:
			bonusServiceSaveDraftHandler.ServeHTTP(w, r)
		case BonusServiceAddBundleProcedure:
			bonusServiceAddBundleHandler.ServeHTTP(w, r)
		case BonusServiceRemoveBundleProcedure:
			bonusServiceRemoveBundleHandler.ServeHTTP(w, r)
		case BonusServiceRemovePurchaseFromBundleProcedure:
			bonusServiceRemovePurchaseFromBundleHandler.ServeHTTP(w, r)
		case BonusServiceToggleSelectionProcedure:
			bonusServiceToggleSelectionHandler.ServeHTTP(w, r)
		case BonusServiceStartEditGroupProcedure:
			bonusServiceStartEditGroupHandler.ServeHTTP(w, r)
		case BonusServiceCancelEditProcedure:
			bonusServiceCancelEditHandler.ServeHTTP(w, r)
		case BonusServiceCommitDraftProcedure:
			bonusServiceCommitDraftHandler.ServeHTTP(w, r)
		case BonusServiceGetQueueStatusProcedure:
			bonusServiceGetQueueStatusHandler.ServeHTTP(w, r)
		case BonusServiceAutoCreateGroupProcedure:
			bonusServiceAutoCreateGroupHandler.ServeHTTP(w, r)
		case BonusServiceIngestPurchaseProcedure:
			bonusServiceIngestPurchaseHandler.ServeHTTP(w, r)
		case BonusServiceSetLineItemEligibilityProcedure:
			bonusServiceSetLineItemEligibilityHandler.ServeHTTP(w, r)
		case BonusServiceGetSettingsProcedure:
			bonusServiceGetSettingsHandler.ServeHTTP(w, r)
		case BonusServiceUpdateSettingsProcedure:
			bonusServiceUpdateSettingsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedBonusServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBonusServiceHandler struct{}

func (UnimplementedBonusServiceHandler) GetOverview(context.Context, *connect.Request[api.GetOverviewRequest]) (*connect.Response[api.GetOverviewResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.GetOverview is not implemented"))
}

func (UnimplementedBonusServiceHandler) CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.CreateGroup is not implemented"))
}

func (UnimplementedBonusServiceHandler) UpdateGroup(context.Context, *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.UpdateGroup is not implemented"))
}

func (UnimplementedBonusServiceHandler) RedeemGroup(context.Context, *connect.Request[api.RedeemGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.RedeemGroup is not implemented"))
}

func (UnimplementedBonusServiceHandler) DeleteGroup(context.Context, *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.DeleteGroup is not implemented"))
}

func (UnimplementedBonusServiceHandler) SaveDraft(context.Context, *connect.Request[api.SaveDraftRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.SaveDraft is not implemented"))
}

func (UnimplementedBonusServiceHandler) AddBundle(context.Context, *connect.Request[api.AddBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.AddBundle is not implemented"))
}

func (UnimplementedBonusServiceHandler) RemoveBundle(context.Context, *connect.Request[api.RemoveBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.RemoveBundle is not implemented"))
}

func (UnimplementedBonusServiceHandler) RemovePurchaseFromBundle(context.Context, *connect.Request[api.RemovePurchaseFromBundleRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.RemovePurchaseFromBundle is not implemented"))
}

func (UnimplementedBonusServiceHandler) ToggleSelection(context.Context, *connect.Request[api.ToggleSelectionRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.ToggleSelection is not implemented"))
}

func (UnimplementedBonusServiceHandler) StartEditGroup(context.Context, *connect.Request[api.StartEditGroupRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.StartEditGroup is not implemented"))
}

func (UnimplementedBonusServiceHandler) CancelEdit(context.Context, *connect.Request[api.CancelEditRequest]) (*connect.Response[api.DraftResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.CancelEdit is not implemented"))
}

func (UnimplementedBonusServiceHandler) CommitDraft(context.Context, *connect.Request[api.CommitDraftRequest]) (*connect.Response[api.GroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.CommitDraft is not implemented"))
}

func (UnimplementedBonusServiceHandler) GetQueueStatus(context.Context, *connect.Request[api.GetQueueStatusRequest]) (*connect.Response[api.QueueStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.GetQueueStatus is not implemented"))
}

func (UnimplementedBonusServiceHandler) AutoCreateGroup(context.Context, *connect.Request[api.AutoCreateGroupRequest]) (*connect.Response[api.GroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.AutoCreateGroup is not implemented"))
}

func (UnimplementedBonusServiceHandler) IngestPurchase(context.Context, *connect.Request[api.IngestPurchaseRequest]) (*connect.Response[api.QueueStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.IngestPurchase is not implemented"))
}

func (UnimplementedBonusServiceHandler) SetLineItemEligibility(context.Context, *connect.Request[api.SetLineItemEligibilityRequest]) (*connect.Response[api.PurchaseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.SetLineItemEligibility is not implemented"))
}

func (UnimplementedBonusServiceHandler) GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.SettingsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.GetSettings is not implemented"))
}

func (UnimplementedBonusServiceHandler) UpdateSettings(context.Context, *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.SettingsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("bonuswiser.v1.BonusService.UpdateSettings is not implemented"))
}

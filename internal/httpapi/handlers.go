package httpapi

import (
	"net/http"
	"strconv"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"

	api "github.com/mmynk/bonuswiser/pkg/api"
)

// groupBody is the JSON body for POST and PUT on /groups.
type groupBody struct {
	Members      []api.Member `json:"members"`
	DiscountRate float64      `json:"discountRate,omitempty"`
}

// draftBody is the JSON body for PUT /draft.
type draftBody struct {
	Bundles         [][]string `json:"bundles"`
	Selection       []string   `json:"selection"`
	EditingGroupID  string     `json:"editingGroupId,omitempty"`
	ImportedIndices []int      `json:"importedIndices,omitempty"`
	HeldIndices     []int      `json:"heldIndices,omitempty"`
	HeldSelection   []string   `json:"heldSelection,omitempty"`
	SeededSelection []string   `json:"seededSelection,omitempty"`
}

// bundleBody is the JSON body for POST /draft/bundles.
type bundleBody struct {
	OrderIDs []string `json:"orderIds"`
}

// commitBody is the optional JSON body for POST /draft/commit.
type commitBody struct {
	DiscountRate float64 `json:"discountRate,omitempty"`
}

func bundleIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 {
		badRequest(w, "bundle index must be a non-negative integer")
		return 0, false
	}
	return idx, true
}

// GetOverview handles GET /discount/{customerId}.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetOverview(r.Context(), connect.NewRequest(&api.GetOverviewRequest{
		CustomerID: chi.URLParam(r, "customerId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Overview)
}

// GetQueueStatus handles GET /discount/{customerId}/queue.
func (h *Handler) GetQueueStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.GetQueueStatus(r.Context(), connect.NewRequest(&api.GetQueueStatusRequest{
		CustomerID: chi.URLParam(r, "customerId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Queue)
}

// AutoCreateGroup handles POST /discount/{customerId}/auto.
func (h *Handler) AutoCreateGroup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.AutoCreateGroup(r.Context(), connect.NewRequest(&api.AutoCreateGroupRequest{
		CustomerID: chi.URLParam(r, "customerId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Msg.Group)
}

// CreateGroup handles POST /discount/{customerId}/groups.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var body groupBody
	if err := decode(r, &body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	resp, err := h.svc.CreateGroup(r.Context(), connect.NewRequest(&api.CreateGroupRequest{
		CustomerID:   chi.URLParam(r, "customerId"),
		Members:      body.Members,
		DiscountRate: body.DiscountRate,
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Msg.Group)
}

// UpdateGroup handles PUT /discount/{customerId}/groups/{groupId}.
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var body groupBody
	if err := decode(r, &body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	resp, err := h.svc.UpdateGroup(r.Context(), connect.NewRequest(&api.UpdateGroupRequest{
		CustomerID:   chi.URLParam(r, "customerId"),
		GroupID:      chi.URLParam(r, "groupId"),
		Members:      body.Members,
		DiscountRate: body.DiscountRate,
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Group)
}

// RedeemGroup handles PUT /discount/{customerId}/groups/{groupId}/redeem.
func (h *Handler) RedeemGroup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.RedeemGroup(r.Context(), connect.NewRequest(&api.RedeemGroupRequest{
		CustomerID: chi.URLParam(r, "customerId"),
		GroupID:    chi.URLParam(r, "groupId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Group)
}

// DeleteGroup handles DELETE /discount/{customerId}/groups/{groupId}.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.DeleteGroup(r.Context(), connect.NewRequest(&api.DeleteGroupRequest{
		CustomerID: chi.URLParam(r, "customerId"),
		GroupID:    chi.URLParam(r, "groupId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg)
}

// SaveDraft handles PUT /discount/{customerId}/draft.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var body draftBody
	if err := decode(r, &body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	resp, err := h.svc.SaveDraft(r.Context(), connect.NewRequest(&api.SaveDraftRequest{
		CustomerID:      chi.URLParam(r, "customerId"),
		Bundles:         body.Bundles,
		Selection:       body.Selection,
		EditingGroupID:  body.EditingGroupID,
		ImportedIndices: body.ImportedIndices,
		HeldIndices:     body.HeldIndices,
		HeldSelection:   body.HeldSelection,
		SeededSelection: body.SeededSelection,
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Draft)
}

// AddBundle handles POST /discount/{customerId}/draft/bundles.
func (h *Handler) AddBundle(w http.ResponseWriter, r *http.Request) {
	var body bundleBody
	if err := decode(r, &body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	resp, err := h.svc.AddBundle(r.Context(), connect.NewRequest(&api.AddBundleRequest{
		CustomerID: chi.URLParam(r, "customerId"),
		OrderIDs:   body.OrderIDs,
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Draft)
}

// RemoveBundle handles DELETE /discount/{customerId}/draft/bundles/{index}.
func (h *Handler) RemoveBundle(w http.ResponseWriter, r *http.Request) {
	idx, ok := bundleIndex(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.RemoveBundle(r.Context(), connect.NewRequest(&api.RemoveBundleRequest{
		CustomerID:  chi.URLParam(r, "customerId"),
		BundleIndex: idx,
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Draft)
}

// RemovePurchaseFromBundle handles
// DELETE /discount/{customerId}/draft/bundles/{index}/purchases/{orderId}.
func (h *Handler) RemovePurchaseFromBundle(w http.ResponseWriter, r *http.Request) {
	idx, ok := bundleIndex(w, r)
	if !ok {
		return
	}

	resp, err := h.svc.RemovePurchaseFromBundle(r.Context(), connect.NewRequest(&api.RemovePurchaseFromBundleRequest{
		CustomerID:  chi.URLParam(r, "customerId"),
		BundleIndex: idx,
		OrderID:     chi.URLParam(r, "orderId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Draft)
}

// ToggleSelection handles POST /discount/{customerId}/draft/selection/{orderId}.
func (h *Handler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.ToggleSelection(r.Context(), connect.NewRequest(&api.ToggleSelectionRequest{
		CustomerID: chi.URLParam(r, "customerId"),
		OrderID:    chi.URLParam(r, "orderId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Draft)
}

// StartEditGroup handles POST /discount/{customerId}/draft/edit/{groupId}.
func (h *Handler) StartEditGroup(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.StartEditGroup(r.Context(), connect.NewRequest(&api.StartEditGroupRequest{
		CustomerID: chi.URLParam(r, "customerId"),
		GroupID:    chi.URLParam(r, "groupId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Draft)
}

// CancelEdit handles DELETE /discount/{customerId}/draft/edit.
func (h *Handler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.CancelEdit(r.Context(), connect.NewRequest(&api.CancelEditRequest{
		CustomerID: chi.URLParam(r, "customerId"),
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Msg.Draft)
}

// CommitDraft handles POST /discount/{customerId}/draft/commit.
func (h *Handler) CommitDraft(w http.ResponseWriter, r *http.Request) {
	var body commitBody
	if err := decode(r, &body); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	resp, err := h.svc.CommitDraft(r.Context(), connect.NewRequest(&api.CommitDraftRequest{
		CustomerID:   chi.URLParam(r, "customerId"),
		DiscountRate: body.DiscountRate,
	}))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Msg.Group)
}

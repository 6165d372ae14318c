// Package api defines the messages of the bonuswiser.v1.BonusService RPC
// service and the REST endpoints. Money is in cents; rates are percentages.
package api

// Customer is the read-only customer record owned by the order sync.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// LineItem is one line of an order. A line sent without DiscountEligible
// counts toward the bonus.
type LineItem struct {
	ID               string `json:"id,omitempty"`
	Description      string `json:"description,omitempty"`
	Subtotal         int64  `json:"subtotal"`
	DiscountEligible *bool  `json:"discountEligible,omitempty"`
}

// Purchase is an order with its derived eligible amount. GroupID is empty
// while the purchase is not in a group.
type Purchase struct {
	ID             string     `json:"id"`
	CustomerID     string     `json:"customerId"`
	Date           int64      `json:"date"`
	LineItems      []LineItem `json:"lineItems"`
	EligibleAmount int64      `json:"eligibleAmount"`
	GroupID        string     `json:"groupId,omitempty"`
}

// Member places an order in a bundle of a group.
type Member struct {
	OrderID     string `json:"orderId"`
	BundleIndex int    `json:"bundleIndex"`
}

type BonusGroup struct {
	ID                string     `json:"id"`
	CustomerID        string     `json:"customerId"`
	Bundles           [][]string `json:"bundles"`
	Members           []Member   `json:"members"`
	DiscountRate      float64    `json:"discountRate"`
	TotalDiscount     int64      `json:"totalDiscount"`
	Status            string     `json:"status"`
	Auto              bool       `json:"auto"`
	UniqueBundleCount int        `json:"uniqueBundleCount"`
	IsRedeemable      bool       `json:"isRedeemable"`
	IsPending         bool       `json:"isPending"`
	CreatedAt         int64      `json:"createdAt"`
	UpdatedAt         int64      `json:"updatedAt"`
	RedeemedAt        int64      `json:"redeemedAt,omitempty"`
	RedeemedBy        string     `json:"redeemedBy,omitempty"`
}

type Draft struct {
	CustomerID      string     `json:"customerId"`
	Bundles         [][]string `json:"bundles"`
	Selection       []string   `json:"selection"`
	EditingGroupID  string     `json:"editingGroupId,omitempty"`
	ImportedIndices []int      `json:"importedIndices,omitempty"`
	HeldIndices     []int      `json:"heldIndices,omitempty"`
	HeldSelection   []string   `json:"heldSelection,omitempty"`
	SeededSelection []string   `json:"seededSelection,omitempty"`
	UpdatedAt       int64      `json:"updatedAt,omitempty"`
}

type QueueStatus struct {
	Count             int      `json:"count"`
	Required          int      `json:"required"`
	AutoCreateEnabled bool     `json:"autoCreateEnabled"`
	ReadyForDiscount  bool     `json:"readyForDiscount"`
	OrderIDs          []string `json:"orderIds"`
}

type Settings struct {
	DiscountRate              float64 `json:"discountRate"`
	OrdersRequiredForDiscount int     `json:"ordersRequiredForDiscount"`
	AutoCreateDiscount        bool    `json:"autoCreateDiscount"`
}

// Totals are the customer's bonus aggregates. ProjectedBonus estimates
// purchases outside any group and is not part of PendingBonus.
type Totals struct {
	RedeemableBonus int64 `json:"redeemableBonus"`
	PendingBonus    int64 `json:"pendingBonus"`
	ProjectedBonus  int64 `json:"projectedBonus"`
	RedeemedBonus   int64 `json:"redeemedBonus"`
}

type Overview struct {
	Customer  Customer     `json:"customer"`
	Purchases []Purchase   `json:"purchases"`
	Groups    []BonusGroup `json:"groups"`
	Totals    Totals       `json:"totals"`
	Queue     QueueStatus  `json:"queue"`
	Settings  Settings     `json:"settings"`
	Draft     Draft        `json:"draft"`
}

type GetOverviewRequest struct {
	CustomerID string `json:"customerId"`
}

type GetOverviewResponse struct {
	Overview *Overview `json:"overview"`
}

// CreateGroupRequest is also the REST body of POST /discount/{customerId}/groups.
// DiscountRate is the rate the client displayed; zero skips the staleness check.
type CreateGroupRequest struct {
	CustomerID   string   `json:"customerId"`
	Members      []Member `json:"members"`
	DiscountRate float64  `json:"discountRate,omitempty"`
}

type UpdateGroupRequest struct {
	CustomerID   string   `json:"customerId"`
	GroupID      string   `json:"groupId"`
	Members      []Member `json:"members"`
	DiscountRate float64  `json:"discountRate,omitempty"`
}

type RedeemGroupRequest struct {
	CustomerID string `json:"customerId"`
	GroupID    string `json:"groupId"`
}

type DeleteGroupRequest struct {
	CustomerID string `json:"customerId"`
	GroupID    string `json:"groupId"`
}

type DeleteGroupResponse struct {
	GroupID          string   `json:"groupId"`
	ReleasedOrderIDs []string `json:"releasedOrderIds"`
}

// GroupResponse is returned by every call that produces a group.
type GroupResponse struct {
	Group *BonusGroup `json:"group"`
}

type SaveDraftRequest struct {
	CustomerID      string     `json:"customerId"`
	Bundles         [][]string `json:"bundles"`
	Selection       []string   `json:"selection"`
	EditingGroupID  string     `json:"editingGroupId,omitempty"`
	ImportedIndices []int      `json:"importedIndices,omitempty"`
	HeldIndices     []int      `json:"heldIndices,omitempty"`
	HeldSelection   []string   `json:"heldSelection,omitempty"`
	SeededSelection []string   `json:"seededSelection,omitempty"`
}

type AddBundleRequest struct {
	CustomerID string   `json:"customerId"`
	OrderIDs   []string `json:"orderIds"`
}

type RemoveBundleRequest struct {
	CustomerID  string `json:"customerId"`
	BundleIndex int    `json:"bundleIndex"`
}

type RemovePurchaseFromBundleRequest struct {
	CustomerID  string `json:"customerId"`
	BundleIndex int    `json:"bundleIndex"`
	OrderID     string `json:"orderId"`
}

type ToggleSelectionRequest struct {
	CustomerID string `json:"customerId"`
	OrderID    string `json:"orderId"`
}

type StartEditGroupRequest struct {
	CustomerID string `json:"customerId"`
	GroupID    string `json:"groupId"`
}

type CancelEditRequest struct {
	CustomerID string `json:"customerId"`
}

type CommitDraftRequest struct {
	CustomerID   string  `json:"customerId"`
	DiscountRate float64 `json:"discountRate,omitempty"`
}

// DraftResponse is returned by every draft mutation.
type DraftResponse struct {
	Draft *Draft `json:"draft"`
}

type GetQueueStatusRequest struct {
	CustomerID string `json:"customerId"`
}

type QueueStatusResponse struct {
	Queue *QueueStatus `json:"queue"`
}

type AutoCreateGroupRequest struct {
	CustomerID string `json:"customerId"`
}

// IngestPurchaseRequest is sent by the order sync. Customer is optional once
// the customer is known.
type IngestPurchaseRequest struct {
	Customer *Customer `json:"customer,omitempty"`
	Purchase Purchase  `json:"purchase"`
}

type SetLineItemEligibilityRequest struct {
	CustomerID       string `json:"customerId"`
	OrderID          string `json:"orderId"`
	LineItemID       string `json:"lineItemId"`
	DiscountEligible bool   `json:"discountEligible"`
}

type PurchaseResponse struct {
	Purchase *Purchase `json:"purchase"`
}

type GetSettingsRequest struct{}

type UpdateSettingsRequest struct {
	Settings Settings `json:"settings"`
}

type SettingsResponse struct {
	Settings *Settings `json:"settings"`
}

// ErrorResponse is the REST error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

package models

// Purchase is an order imported from the upstream retail system.
// The bonus engine reads purchases but never deletes them.
type Purchase struct {
	// ID is the upstream order identifier.
	ID string

	// CustomerID references the customer who placed the order.
	CustomerID string

	// Date is the Unix timestamp of the order.
	Date int64

	// LineItems are the ordered lines of the purchase.
	LineItems []LineItem
}

// LineItem is a single line on a purchase.
type LineItem struct {
	// ID is the unique identifier for the line (UUID format when generated locally).
	ID string

	// Description is the product name as shown on the receipt.
	Description string

	// Subtotal is the line amount in cents.
	Subtotal int64

	// DiscountEligible marks whether the line counts toward a bonus.
	// Staff can clear it; new lines default to true.
	DiscountEligible bool
}

// Customer is the owner of purchases, drafts and bonus groups.
type Customer struct {
	ID    string
	Name  string
	Email string
}

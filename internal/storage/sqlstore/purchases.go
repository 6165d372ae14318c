package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/bonuswiser/internal/models"
	"github.com/mmynk/bonuswiser/internal/storage"
)

// UpsertCustomer creates or replaces a customer record.
func (s *SQLStore) UpsertCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		return fmt.Errorf("customer id required")
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO customers (id, name, email) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, email = excluded.email`),
		customer.ID, customer.Name, customer.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer by ID.
func (s *SQLStore) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	customer := &models.Customer{}
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT id, name, email FROM customers WHERE id = ?"),
		customerID,
	).Scan(&customer.ID, &customer.Name, &customer.Email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %s: %w", customerID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// UpsertPurchase persists a purchase and replaces its line items. A purchase
// never changes owner. Lines that already exist, matched by ID or else by
// position, keep their stored eligibility flag and ID.
func (s *SQLStore) UpsertPurchase(ctx context.Context, purchase *models.Purchase) error {
	if purchase.ID == "" || purchase.CustomerID == "" {
		return fmt.Errorf("purchase id and customer id required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owner string
	err = tx.QueryRowContext(ctx, s.q("SELECT customer_id FROM purchases WHERE id = ?"), purchase.ID).Scan(&owner)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return fmt.Errorf("failed to get purchase owner: %w", err)
	case owner != purchase.CustomerID:
		return fmt.Errorf("purchase %s belongs to customer %s: %w", purchase.ID, owner, storage.ErrConflict)
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO purchases (id, customer_id, ordered_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET ordered_at = excluded.ordered_at`),
		purchase.ID, purchase.CustomerID, purchase.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert purchase: %w", err)
	}

	existing, err := storedLines(ctx, tx, s.q("SELECT id, position, discount_eligible FROM line_items WHERE purchase_id = ?"), purchase.ID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, s.q("DELETE FROM line_items WHERE purchase_id = ?"), purchase.ID); err != nil {
		return fmt.Errorf("failed to clear line items: %w", err)
	}

	for i := range purchase.LineItems {
		item := &purchase.LineItems[i]
		if prev, ok := existing.match(item.ID, i); ok {
			item.ID = prev.id
			item.DiscountEligible = prev.eligible
		}
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO line_items (id, purchase_id, position, description, subtotal, discount_eligible)
			VALUES (?, ?, ?, ?, ?, ?)`),
			item.ID, purchase.ID, i, item.Description, item.Subtotal, item.DiscountEligible,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type storedLine struct {
	id       string
	eligible bool
}

// lineIndex holds the stored lines of one purchase.
type lineIndex struct {
	byID       map[string]storedLine
	byPosition map[int]storedLine
}

// match finds the stored line an incoming line replaces. Lines with an ID
// match only by ID.
func (l lineIndex) match(id string, position int) (storedLine, bool) {
	if id != "" {
		line, ok := l.byID[id]
		return line, ok
	}
	line, ok := l.byPosition[position]
	return line, ok
}

func storedLines(ctx context.Context, tx *sql.Tx, query, purchaseID string) (lineIndex, error) {
	idx := lineIndex{byID: make(map[string]storedLine), byPosition: make(map[int]storedLine)}

	rows, err := tx.QueryContext(ctx, query, purchaseID)
	if err != nil {
		return idx, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line     storedLine
			position int
		)
		if err := rows.Scan(&line.id, &position, &line.eligible); err != nil {
			return idx, fmt.Errorf("failed to scan line item: %w", err)
		}
		idx.byID[line.id] = line
		idx.byPosition[position] = line
	}
	if err := rows.Err(); err != nil {
		return idx, fmt.Errorf("failed to iterate line items: %w", err)
	}
	return idx, nil
}

// GetPurchase retrieves one purchase with its line items.
func (s *SQLStore) GetPurchase(ctx context.Context, purchaseID string) (*models.Purchase, error) {
	var customerID string
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT customer_id FROM purchases WHERE id = ?"),
		purchaseID,
	).Scan(&customerID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("purchase %s: %w", purchaseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	purchases, err := s.ListPurchasesByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for i := range purchases {
		if purchases[i].ID == purchaseID {
			return &purchases[i], nil
		}
	}
	return nil, fmt.Errorf("purchase %s: %w", purchaseID, storage.ErrNotFound)
}

// ListPurchasesByCustomer retrieves all purchases of a customer with their line items.
func (s *SQLStore) ListPurchasesByCustomer(ctx context.Context, customerID string) ([]models.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT p.id, p.customer_id, p.ordered_at,
		       l.id, l.description, l.subtotal, l.discount_eligible
		FROM purchases p
		LEFT JOIN line_items l ON l.purchase_id = p.id
		WHERE p.customer_id = ?
		ORDER BY p.ordered_at, p.id, l.position`),
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var (
			p           models.Purchase
			lineID      sql.NullString
			description sql.NullString
			subtotal    sql.NullInt64
			eligible    sql.NullBool
		)
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.Date, &lineID, &description, &subtotal, &eligible); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}

		if n := len(purchases); n == 0 || purchases[n-1].ID != p.ID {
			purchases = append(purchases, p)
		}
		if lineID.Valid {
			last := &purchases[len(purchases)-1]
			last.LineItems = append(last.LineItems, models.LineItem{
				ID:               lineID.String,
				Description:      description.String,
				Subtotal:         subtotal.Int64,
				DiscountEligible: eligible.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}

	return purchases, nil
}

// SetLineItemEligibility updates the discount flag of one line item.
func (s *SQLStore) SetLineItemEligibility(ctx context.Context, purchaseID, lineItemID string, eligible bool) error {
	res, err := s.db.ExecContext(ctx,
		s.q("UPDATE line_items SET discount_eligible = ? WHERE id = ? AND purchase_id = ?"),
		eligible, lineItemID, purchaseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update line item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("line item %s on purchase %s: %w", lineItemID, purchaseID, storage.ErrNotFound)
	}
	return nil
}

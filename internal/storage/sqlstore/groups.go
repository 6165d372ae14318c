package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/bonuswiser/internal/models"
	"github.com/mmynk/bonuswiser/internal/storage"
)

const groupColumns = `id, customer_id, discount_rate, total_discount, status, auto,
	created_at, updated_at, redeemed_at, redeemed_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner, g *models.BonusGroup) error {
	var status string
	if err := row.Scan(&g.ID, &g.CustomerID, &g.DiscountRate, &g.TotalDiscount, &status, &g.Auto,
		&g.CreatedAt, &g.UpdatedAt, &g.RedeemedAt, &g.RedeemedBy); err != nil {
		return err
	}
	g.Status = models.GroupStatus(status)
	return nil
}

// CreateGroup persists a new active group with its members.
func (s *SQLStore) CreateGroup(ctx context.Context, group *models.BonusGroup) error {
	// Generate IDs if not set
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	group.UpdatedAt = group.CreatedAt
	group.Status = models.GroupStatusActive

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO bonus_groups (id, customer_id, discount_rate, total_discount, status, auto, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		group.ID, group.CustomerID, group.DiscountRate, group.TotalDiscount, string(group.Status), group.Auto,
		group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := s.insertMembers(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertMembers writes one row per purchase. The purchase_id primary key turns
// a double claim into ErrConflict.
func (s *SQLStore) insertMembers(ctx context.Context, tx *sql.Tx, group *models.BonusGroup) error {
	for bundleIndex, b := range group.Bundles {
		for position, purchaseID := range b.PurchaseIDs {
			_, err := tx.ExecContext(ctx, s.q(`
				INSERT INTO group_members (purchase_id, group_id, bundle_index, position)
				VALUES (?, ?, ?, ?)`),
				purchaseID, group.ID, bundleIndex, position,
			)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("order %s is already in a bonus group: %w", purchaseID, storage.ErrConflict)
				}
				return fmt.Errorf("failed to insert group member: %w", err)
			}
		}
	}
	return nil
}

// GetGroup retrieves a group by ID, including its bundles.
func (s *SQLStore) GetGroup(ctx context.Context, groupID string) (*models.BonusGroup, error) {
	group := &models.BonusGroup{}
	err := scanGroup(s.db.QueryRowContext(ctx,
		s.q("SELECT "+groupColumns+" FROM bonus_groups WHERE id = ?"), groupID), group)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT group_id, purchase_id, bundle_index FROM group_members
		WHERE group_id = ? ORDER BY bundle_index, position`),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	byGroup, err := scanMembers(rows)
	if err != nil {
		return nil, err
	}
	group.Bundles = byGroup[groupID]
	return group, nil
}

// scanMembers folds member rows, ordered by group, bundle index and position,
// into bundles per group.
func scanMembers(rows *sql.Rows) (map[string][]models.Bundle, error) {
	byGroup := make(map[string][]models.Bundle)
	lastIndex := make(map[string]int)
	for rows.Next() {
		var groupID, purchaseID string
		var bundleIndex int
		if err := rows.Scan(&groupID, &purchaseID, &bundleIndex); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}

		bundles := byGroup[groupID]
		if idx, ok := lastIndex[groupID]; !ok || idx != bundleIndex {
			bundles = append(bundles, models.Bundle{})
			lastIndex[groupID] = bundleIndex
		}
		last := &bundles[len(bundles)-1]
		last.PurchaseIDs = append(last.PurchaseIDs, purchaseID)
		byGroup[groupID] = bundles
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return byGroup, nil
}

// ListGroupsByCustomer retrieves all groups of a customer with their bundles.
func (s *SQLStore) ListGroupsByCustomer(ctx context.Context, customerID string) ([]models.BonusGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT "+groupColumns+" FROM bonus_groups WHERE customer_id = ? ORDER BY created_at, id"),
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []models.BonusGroup
	for rows.Next() {
		var g models.BonusGroup
		if err := scanGroup(rows, &g); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	memberRows, err := s.db.QueryContext(ctx, s.q(`
		SELECT m.group_id, m.purchase_id, m.bundle_index
		FROM group_members m
		JOIN bonus_groups g ON g.id = m.group_id
		WHERE g.customer_id = ?
		ORDER BY m.group_id, m.bundle_index, m.position`),
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer memberRows.Close()

	byGroup, err := scanMembers(memberRows)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		groups[i].Bundles = byGroup[groups[i].ID]
	}
	return groups, nil
}

// UpdateGroup replaces the membership, rate and total of an active group.
func (s *SQLStore) UpdateGroup(ctx context.Context, group *models.BonusGroup) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group.UpdatedAt = time.Now().Unix()
	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE bonus_groups SET discount_rate = ?, total_discount = ?, updated_at = ?
		WHERE id = ? AND status = ?`),
		group.DiscountRate, group.TotalDiscount, group.UpdatedAt, group.ID, string(models.GroupStatusActive),
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if err := s.requireActive(ctx, tx, res, group.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, s.q("DELETE FROM group_members WHERE group_id = ?"), group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	if err := s.insertMembers(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	group.Status = models.GroupStatusActive
	return nil
}

// DeleteGroup removes an active group. Its purchases become unassigned again.
func (s *SQLStore) DeleteGroup(ctx context.Context, groupID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Members first: the status guard must hold for both deletes.
	_, err = tx.ExecContext(ctx, s.q(`
		DELETE FROM group_members WHERE group_id IN (
			SELECT id FROM bonus_groups WHERE id = ? AND status = ?)`),
		groupID, string(models.GroupStatusActive),
	)
	if err != nil {
		return fmt.Errorf("failed to delete group members: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		s.q("DELETE FROM bonus_groups WHERE id = ? AND status = ?"),
		groupID, string(models.GroupStatusActive),
	)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if err := s.requireActive(ctx, tx, res, groupID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RedeemGroup is the atomic check-then-set of the redemption ledger: the status
// guard and the bundle threshold are evaluated by the same UPDATE that flips
// the status.
func (s *SQLStore) RedeemGroup(ctx context.Context, groupID string, minBundles int, totalDiscount int64, redeemedBy string) (*models.BonusGroup, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	res, err := tx.ExecContext(ctx, s.q(`
		UPDATE bonus_groups
		SET status = ?, total_discount = ?, redeemed_at = ?, redeemed_by = ?, updated_at = ?
		WHERE id = ? AND status = ?
		  AND (SELECT COUNT(DISTINCT bundle_index) FROM group_members WHERE group_id = ?) >= ?`),
		string(models.GroupStatusRedeemed), totalDiscount, now, redeemedBy, now,
		groupID, string(models.GroupStatusActive),
		groupID, minBundles,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to redeem group: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check redeem result: %w", err)
	}
	if n == 0 {
		var status string
		err := tx.QueryRowContext(ctx, s.q("SELECT status FROM bonus_groups WHERE id = ?"), groupID).Scan(&status)
		switch {
		case err == sql.ErrNoRows:
			return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
		case err != nil:
			return nil, fmt.Errorf("failed to get group status: %w", err)
		case models.GroupStatus(status) == models.GroupStatusRedeemed:
			return nil, fmt.Errorf("group %s is already redeemed: %w", groupID, storage.ErrConflict)
		default:
			return nil, fmt.Errorf("group %s needs %d bundles: %w", groupID, minBundles, storage.ErrBelowThreshold)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetGroup(ctx, groupID)
}

// requireActive turns a zero-row guarded write into ErrNotFound or ErrConflict.
func (s *SQLStore) requireActive(ctx context.Context, tx *sql.Tx, res sql.Result, groupID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check write result: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = tx.QueryRowContext(ctx, s.q("SELECT 1 FROM bonus_groups WHERE id = ?"), groupID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}
	return fmt.Errorf("group %s is redeemed and can no longer change: %w", groupID, storage.ErrConflict)
}

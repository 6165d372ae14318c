package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/bonuswiser/internal/models"
)

// draftBody is the stored JSON shape of a draft.
type draftBody struct {
	Bundles         [][]string `json:"bundles"`
	Selection       []string   `json:"selection,omitempty"`
	EditingGroupID  string     `json:"editingGroupId,omitempty"`
	ImportedIndices []int      `json:"importedIndices,omitempty"`
	HeldIndices     []int      `json:"heldIndices,omitempty"`
	HeldSelection   []string   `json:"heldSelection,omitempty"`
	SeededSelection []string   `json:"seededSelection,omitempty"`
}

// GetDraft retrieves a customer's draft. A customer without a saved draft gets
// an empty one.
func (s *SQLStore) GetDraft(ctx context.Context, customerID string) (*models.Draft, error) {
	var raw string
	var updatedAt int64
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT body, updated_at FROM drafts WHERE customer_id = ?"),
		customerID,
	).Scan(&raw, &updatedAt)
	if err == sql.ErrNoRows {
		return &models.Draft{CustomerID: customerID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var body draftBody
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}

	draft := &models.Draft{
		CustomerID:      customerID,
		Selection:       body.Selection,
		EditingGroupID:  body.EditingGroupID,
		ImportedIndices: body.ImportedIndices,
		HeldIndices:     body.HeldIndices,
		HeldSelection:   body.HeldSelection,
		SeededSelection: body.SeededSelection,
		UpdatedAt:       updatedAt,
	}
	for _, ids := range body.Bundles {
		draft.Bundles = append(draft.Bundles, models.Bundle{PurchaseIDs: ids})
	}
	return draft, nil
}

// SaveDraft overwrites a customer's draft.
func (s *SQLStore) SaveDraft(ctx context.Context, draft *models.Draft) error {
	if draft.CustomerID == "" {
		return fmt.Errorf("draft customer id required")
	}

	body := draftBody{
		Bundles:         make([][]string, len(draft.Bundles)),
		Selection:       draft.Selection,
		EditingGroupID:  draft.EditingGroupID,
		ImportedIndices: draft.ImportedIndices,
		HeldIndices:     draft.HeldIndices,
		HeldSelection:   draft.HeldSelection,
		SeededSelection: draft.SeededSelection,
	}
	for i, b := range draft.Bundles {
		body.Bundles[i] = b.PurchaseIDs
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	draft.UpdatedAt = time.Now().Unix()
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO drafts (customer_id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (customer_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`),
		draft.CustomerID, string(raw), draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

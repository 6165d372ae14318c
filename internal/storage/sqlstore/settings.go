package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/bonuswiser/internal/models"
	"github.com/mmynk/bonuswiser/internal/storage"
)

// settingsRowID is the id of the single settings row.
const settingsRowID = 1

// GetSettings retrieves the global bonus settings.
func (s *SQLStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings := &models.Settings{}
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT discount_rate, orders_required, auto_create FROM settings WHERE id = ?"),
		settingsRowID,
	).Scan(&settings.DiscountRate, &settings.OrdersRequiredForDiscount, &settings.AutoCreateDiscount)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// SaveSettings overwrites the global bonus settings.
func (s *SQLStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO settings (id, discount_rate, orders_required, auto_create) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET discount_rate = excluded.discount_rate,
			orders_required = excluded.orders_required, auto_create = excluded.auto_create`),
		settingsRowID, settings.DiscountRate, settings.OrdersRequiredForDiscount, settings.AutoCreateDiscount,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

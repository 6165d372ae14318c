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

// currentSettings reads the saved settings, falling back to the defaults.
// They are read on every operation and never cached.
func (e *Engine) currentSettings(ctx context.Context) (models.Settings, error) {
	s, err := e.store.GetSettings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return e.defaults, nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return *s, nil
}

// GetSettings returns the program settings in effect.
func (e *Engine) GetSettings(ctx context.Context) (models.Settings, error) {
	s, err := e.currentSettings(ctx)
	return s, e.observe("get_settings", err)
}

// ValidateSettings checks that settings can drive the rules.
func ValidateSettings(s models.Settings) error {
	if err := calculator.ValidateRate(s.DiscountRate); err != nil {
		return validationf("%s", err.Error())
	}
	if s.OrdersRequiredForDiscount < 1 {
		return validationf("orders required for discount must be at least 1, got %d", s.OrdersRequiredForDiscount)
	}
	return nil
}

// UpdateSettings replaces the program settings. Existing groups keep the rate
// they were created with.
func (e *Engine) UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	if err := ValidateSettings(s); err != nil {
		return models.Settings{}, e.observe("update_settings", err)
	}

	unlock, err := e.locker.Lock(ctx, settingsLockKey)
	if err != nil {
		return models.Settings{}, e.observe("update_settings", err)
	}
	defer unlock()

	if err := e.store.SaveSettings(ctx, &s); err != nil {
		return models.Settings{}, e.observe("update_settings", fmt.Errorf("failed to save settings: %w", err))
	}
	slog.Info("Bonus settings updated",
		"discount_rate", s.DiscountRate,
		"orders_required", s.OrdersRequiredForDiscount,
		"auto_create", s.AutoCreateDiscount)
	return s, nil
}

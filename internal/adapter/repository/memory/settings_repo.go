package memory

import (
	"context"

	"github.com/iho/famledger/internal/domain"
	"github.com/iho/famledger/internal/usecase"
)

// SettingsRepository implements usecase.SettingsRepository.
type SettingsRepository struct {
	store *Store
}

// Get returns the saved settings or the defaults.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var saved *domain.Settings
	r.store.read(func(s *state) {
		saved = s.settings
	})
	if saved == nil {
		return domain.DefaultSettings(), nil
	}
	return saved.Clone(), nil
}

// Save stages a replacement of the settings.
func (r *SettingsRepository) Save(ctx context.Context, tx usecase.Transaction, settings *domain.Settings) error {
	staged := settings.Clone()
	return stage(tx, func(s *state) error {
		s.settings = staged
		return nil
	})
}

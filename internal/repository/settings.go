package repository

import (
	"context"
	"database/sql"
	stderrors "errors"

	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/models"
)

type SettingsRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSettingsRepository(db *sql.DB, log logger.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "settings"}),
	}
}

// Get returns the defaults for users without a stored row.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (models.Settings, error) {
	var s models.Settings
	query := `SELECT dark_mode, notifications, public_profile, two_factor FROM settings WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.DarkMode, &s.Notifications, &s.PublicProfile, &s.TwoFactor)
	if stderrors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, errors.NewDatabaseQueryFailedError("get settings", err)
	}
	return s, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, userID string, s models.Settings) error {
	query := `INSERT INTO settings (user_id, dark_mode, notifications, public_profile, two_factor, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			dark_mode = EXCLUDED.dark_mode,
			notifications = EXCLUDED.notifications,
			public_profile = EXCLUDED.public_profile,
			two_factor = EXCLUDED.two_factor,
			updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, userID, s.DarkMode, s.Notifications, s.PublicProfile, s.TwoFactor); err != nil {
		return errors.NewDatabaseQueryFailedError("upsert settings", err)
	}
	return nil
}

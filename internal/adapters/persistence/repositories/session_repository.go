package repositories

import (
	"context"
	"time"

	"vgt-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session audit repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// CloseOpen stamps logout_at on every open session of the user
func (r *sessionRepository) CloseOpen(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.UserSession{}).
		Where("user_id = ?", userID).
		Where("logout_at IS NULL").
		Update("logout_at", at).Error
}

// CloseStale closes sessions opened before the cutoff that never logged out
func (r *sessionRepository) CloseStale(ctx context.Context, before, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.UserSession{}).
		Where("login_at < ?", before).
		Where("logout_at IS NULL").
		Update("logout_at", at)
	return res.RowsAffected, res.Error
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.UserSession, error) {
	var sessions []*models.UserSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("login_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

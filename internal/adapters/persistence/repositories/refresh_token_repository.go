package repositories

import (
	"context"
	"time"

	"vgt-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository stores the hashed refresh tokens issued by the
// local identity provider.
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByTokenHash returns the token row whether or not it was revoked; the
// caller tells reuse of a rotated token apart from an unknown one.
func (r *refreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, id uint) (bool, error) {
	n, err := r.revoke(ctx, "id = ?", id)
	return n == 1, err
}

func (r *refreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.revoke(ctx, "token_hash = ?", tokenHash)
	return err
}

// RevokeAllByIdentityID signs an identity out of every device
func (r *refreshTokenRepository) RevokeAllByIdentityID(ctx context.Context, identityID string) error {
	_, err := r.revoke(ctx, "identity_id = ?", identityID)
	return err
}

// revoke stamps revoked_at on the live tokens matching the condition and
// returns how many it changed. Already revoked rows keep their timestamp.
func (r *refreshTokenRepository) revoke(ctx context.Context, cond string, arg interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where(cond, arg).
		Where("revoked_at IS NULL").
		Update("revoked_at", time.Now())
	return res.RowsAffected, res.Error
}

// DeleteExpired removes tokens past their expiry, revoked or not
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

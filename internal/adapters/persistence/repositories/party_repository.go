package repositories

import (
	"context"

	"vgt-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type partyRepository struct {
	db *gorm.DB
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

// Create creates a new party
func (r *partyRepository) Create(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Create(party).Error
}

// GetByCode gets a party by its 6-digit code
func (r *partyRepository) GetByCode(ctx context.Context, code string) (*models.Party, error) {
	var party models.Party
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

// Update updates a party
func (r *partyRepository) Update(ctx context.Context, party *models.Party) error {
	return r.db.WithContext(ctx).Save(party).Error
}

// List lists parties ordered by name, matching search against name or code
func (r *partyRepository) List(ctx context.Context, filter PartyFilter, offset, limit int) ([]*models.Party, int64, error) {
	var parties []*models.Party
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Party{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR code LIKE ?)", pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(query.Order("name ASC"), offset, limit).Find(&parties).Error; err != nil {
		return nil, 0, err
	}

	return parties, total, nil
}

// ExistsByCode checks if a party code is taken
func (r *partyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Party{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

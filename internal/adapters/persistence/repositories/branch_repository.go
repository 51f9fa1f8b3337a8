package repositories

import (
	"context"

	"vgt-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

// Create creates a new branch
func (r *branchRepository) Create(ctx context.Context, branch *models.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

// GetByCode gets a branch by code
func (r *branchRepository) GetByCode(ctx context.Context, code string) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// Update updates a branch
func (r *branchRepository) Update(ctx context.Context, branch *models.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

// List lists branches ordered by name
func (r *branchRepository) List(ctx context.Context, filter BranchFilter) ([]*models.Branch, error) {
	var branches []*models.Branch

	query := r.db.WithContext(ctx).Model(&models.Branch{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	err := query.Order("name ASC").Find(&branches).Error
	return branches, err
}

// ExistsByCode checks if a branch code is taken
func (r *branchRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Branch{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

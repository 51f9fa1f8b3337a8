package repositories

import (
	"context"

	"vgt-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

type challanRepository struct {
	db *gorm.DB
}

// NewChallanRepository creates a new challan repository
func NewChallanRepository(db *gorm.DB) ChallanRepository {
	return &challanRepository{db: db}
}

// Create creates a new challan
func (r *challanRepository) Create(ctx context.Context, challan *models.Challan) error {
	return r.db.WithContext(ctx).Create(challan).Error
}

// GetByChallanNo gets a challan by its number
func (r *challanRepository) GetByChallanNo(ctx context.Context, challanNo string) (*models.Challan, error) {
	var challan models.Challan
	if err := r.db.WithContext(ctx).Where("challan_no = ?", challanNo).First(&challan).Error; err != nil {
		return nil, err
	}
	return &challan, nil
}

// ExistsByChallanNo checks if a challan number is taken
func (r *challanRepository) ExistsByChallanNo(ctx context.Context, challanNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Challan{}).Where("challan_no = ?", challanNo).Count(&count).Error
	return count > 0, err
}

// List lists challans, newest first
func (r *challanRepository) List(ctx context.Context, filter ChallanFilter, offset, limit int) ([]*models.Challan, int64, error) {
	var challans []*models.Challan
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Challan{})
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("(LOWER(challan_no) LIKE ? OR LOWER(vehicle_no) LIKE ?)", pattern, pattern)
	}
	if filter.Branch != "" {
		query = query.Where("(origin_branch = ? OR destination_branch = ?)", filter.Branch, filter.Branch)
	}
	if filter.Type != "" {
		query = query.Where("challan_type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = betweenDates(query, "challan_date", filter.From, filter.To)
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(query.Order("challan_date DESC, id DESC"), offset, limit).Find(&challans).Error; err != nil {
		return nil, 0, err
	}

	return challans, total, nil
}

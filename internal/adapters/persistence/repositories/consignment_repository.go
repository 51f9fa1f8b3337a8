package repositories

import (
	"context"
	"fmt"

	"vgt-backoffice/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// cnNumberBase offsets the row id so CN numbers start at S800001
const cnNumberBase = 800000

type consignmentRepository struct {
	db *gorm.DB
}

// NewConsignmentRepository creates a new consignment repository
func NewConsignmentRepository(db *gorm.DB) ConsignmentRepository {
	return &consignmentRepository{db: db}
}

// Create inserts the consignment and assigns its CN number from the row id
// in the same transaction.
func (r *consignmentRepository) Create(ctx context.Context, cn *models.Consignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cn.CNNo = nil
		if err := tx.Create(cn).Error; err != nil {
			return err
		}
		no := fmt.Sprintf("S%06d", cnNumberBase+cn.ID)
		if err := tx.Model(cn).Update("cn_no", no).Error; err != nil {
			return err
		}
		cn.CNNo = &no
		return nil
	})
}

// GetByCNNo gets a consignment by CN number
func (r *consignmentRepository) GetByCNNo(ctx context.Context, cnNo string) (*models.Consignment, error) {
	var cn models.Consignment
	if err := r.db.WithContext(ctx).Where("cn_no = ?", cnNo).First(&cn).Error; err != nil {
		return nil, err
	}
	return &cn, nil
}

// Update updates a consignment
func (r *consignmentRepository) Update(ctx context.Context, cn *models.Consignment) error {
	return r.db.WithContext(ctx).Save(cn).Error
}

// List lists consignments, newest booking first
func (r *consignmentRepository) List(ctx context.Context, filter ConsignmentFilter, offset, limit int) ([]*models.Consignment, int64, error) {
	var items []*models.Consignment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Consignment{})
	if !filter.IncludeCancelled {
		query = query.Where("is_cancelled = ?", false)
	}
	if filter.Branch != "" {
		query = query.Where("(booking_branch = ? OR dest_branch = ?)", filter.Branch, filter.Branch)
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("(LOWER(cn_no) LIKE ? OR LOWER(consignor_name) LIKE ? OR LOWER(consignee_name) LIKE ?)",
			pattern, pattern, pattern)
	}
	query = betweenDates(query, "booking_date", filter.From, filter.To)
	query = query.Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := paginate(query.Order("booking_date DESC, id DESC"), offset, limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountPayableRepository implements finance.PayableRepository using GORM
type GormAccountPayableRepository struct {
	db *gorm.DB
}

var _ finance.PayableRepository = (*GormAccountPayableRepository)(nil)

// NewGormAccountPayableRepository creates a new GormAccountPayableRepository
func NewGormAccountPayableRepository(db *gorm.DB) *GormAccountPayableRepository {
	return &GormAccountPayableRepository{db: db}
}

// Create stores a payable with any payments it already carries
func (r *GormAccountPayableRepository) Create(ctx context.Context, ap *finance.AccountPayable) error {
	return r.db.WithContext(ctx).Create(models.AccountPayableModelFromDomain(ap)).Error
}

// Update saves the payable columns and appends payments that are not stored yet.
// Stored payments are never rewritten.
func (r *GormAccountPayableRepository) Update(ctx context.Context, ap *finance.AccountPayable) error {
	model := models.AccountPayableModelFromDomain(ap)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).Select("*").Omit("created_at", clause.Associations).Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if len(model.Payments) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Payments).Error
	})
}

// FindByID loads a payable with its payments
func (r *GormAccountPayableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.AccountPayable, error) {
	var model models.AccountPayableModel
	err := r.db.WithContext(ctx).
		Preload("Payments", orderSettlements).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists payables. The date range applies to due_date.
func (r *GormAccountPayableRepository) FindAll(ctx context.Context, filter finance.TitleFilter) ([]*finance.AccountPayable, int64, error) {
	query := applyTitleFilter(r.db.WithContext(ctx).Model(&models.AccountPayableModel{}), filter, "supplier_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*models.AccountPayableModel
	err := paginate(query, filter.Filter, titleSort).
		Preload("Payments", orderSettlements).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*finance.AccountPayable, len(rows))
	for i, row := range rows {
		result[i] = row.ToDomain()
	}
	return result, total, nil
}

func orderSettlements(db *gorm.DB) *gorm.DB {
	return db.Order("settled_at ASC, created_at ASC")
}

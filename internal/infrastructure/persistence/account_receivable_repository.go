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

// GormAccountReceivableRepository implements finance.ReceivableRepository using GORM
type GormAccountReceivableRepository struct {
	db *gorm.DB
}

var _ finance.ReceivableRepository = (*GormAccountReceivableRepository)(nil)

// NewGormAccountReceivableRepository creates a new GormAccountReceivableRepository
func NewGormAccountReceivableRepository(db *gorm.DB) *GormAccountReceivableRepository {
	return &GormAccountReceivableRepository{db: db}
}

// Create stores a receivable with any receipts it already carries
func (r *GormAccountReceivableRepository) Create(ctx context.Context, ar *finance.AccountReceivable) error {
	return r.db.WithContext(ctx).Create(models.AccountReceivableModelFromDomain(ar)).Error
}

// Update saves the receivable columns and appends receipts that are not stored yet.
// Stored receipts are never rewritten.
func (r *GormAccountReceivableRepository) Update(ctx context.Context, ar *finance.AccountReceivable) error {
	model := models.AccountReceivableModelFromDomain(ar)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(model).Select("*").Omit("created_at", clause.Associations).Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if len(model.Receipts) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Receipts).Error
	})
}

// FindByID loads a receivable with its receipts
func (r *GormAccountReceivableRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.AccountReceivable, error) {
	var model models.AccountReceivableModel
	err := r.db.WithContext(ctx).
		Preload("Receipts", orderSettlements).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists receivables. The date range applies to due_date.
func (r *GormAccountReceivableRepository) FindAll(ctx context.Context, filter finance.TitleFilter) ([]*finance.AccountReceivable, int64, error) {
	query := applyTitleFilter(r.db.WithContext(ctx).Model(&models.AccountReceivableModel{}), filter, "customer_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*models.AccountReceivableModel
	err := paginate(query, filter.Filter, titleSort).
		Preload("Receipts", orderSettlements).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*finance.AccountReceivable, len(rows))
	for i, row := range rows {
		result[i] = row.ToDomain()
	}
	return result, total, nil
}

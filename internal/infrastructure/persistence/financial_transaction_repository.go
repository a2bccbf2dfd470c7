package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormFinancialTransactionRepository implements finance.TransactionRepository using GORM
type GormFinancialTransactionRepository struct {
	db *gorm.DB
}

var _ finance.TransactionRepository = (*GormFinancialTransactionRepository)(nil)

// NewGormFinancialTransactionRepository creates a new GormFinancialTransactionRepository
func NewGormFinancialTransactionRepository(db *gorm.DB) *GormFinancialTransactionRepository {
	return &GormFinancialTransactionRepository{db: db}
}

// Create creates a new transaction
func (r *GormFinancialTransactionRepository) Create(ctx context.Context, tx *finance.FinancialTransaction) error {
	return r.db.WithContext(ctx).Create(models.FinancialTransactionModelFromDomain(tx)).Error
}

// Update saves every column of an existing transaction
func (r *GormFinancialTransactionRepository) Update(ctx context.Context, tx *finance.FinancialTransaction) error {
	model := models.FinancialTransactionModelFromDomain(tx)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("created_at").Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a transaction by ID
func (r *GormFinancialTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.FinancialTransaction, error) {
	var model models.FinancialTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists transactions. The date range applies to due_date.
func (r *GormFinancialTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]*finance.FinancialTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FinancialTransactionModel{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		query = query.Where(`LOWER(description) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	if filter.Overdue {
		query = whereOverdue(query, time.Now().UTC())
	}
	query = whereDateRange(query, "due_date", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*models.FinancialTransactionModel
	if err := paginate(query, filter.Filter, transactionSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	result := make([]*finance.FinancialTransaction, len(rows))
	for i, row := range rows {
		result[i] = row.ToDomain()
	}
	return result, total, nil
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// SaleNumberSequence is the postgres sequence backing human-readable sale numbers
const SaleNumberSequence = "sale_number_seq"

// GormSaleRepository implements sales.Repository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

var _ sales.Repository = (*GormSaleRepository)(nil)

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create assigns the next sale number and stores the sale with its items in
// one transaction.
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextSaleNumber(tx)
		if err != nil {
			return err
		}
		sale.Number = number
		return tx.Create(models.SaleModelFromDomain(sale)).Error
	})
}

func nextSaleNumber(tx *gorm.DB) (int64, error) {
	var number int64
	var err error
	if tx.Dialector.Name() == "postgres" {
		err = tx.Raw("SELECT nextval('" + SaleNumberSequence + "')").Scan(&number).Error
	} else {
		err = tx.Model(&models.SaleModel{}).Select("COALESCE(MAX(number), 0) + 1").Scan(&number).Error
	}
	return number, err
}

// UpdateStatus persists the lifecycle columns of a sale. Items are immutable.
func (r *GormSaleRepository) UpdateStatus(ctx context.Context, sale *sales.Sale) error {
	result := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("id = ?", sale.ID).
		Updates(map[string]any{
			"status":        sale.Status,
			"amount_paid":   sale.AmountPaid,
			"change_amount": sale.Change,
			"completed_at":  sale.CompletedAt,
			"cancel_reason": sale.CancelReason,
			"cancelled_at":  sale.CancelledAt,
			"cancelled_by":  sale.CancelledBy,
			"updated_at":    sale.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID loads a sale with its items in entry order
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists sales. The date range applies to created_at.
func (r *GormSaleRepository) FindAll(ctx context.Context, filter sales.Filter) ([]*sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CashierID != nil {
		query = query.Where("cashier_id = ?", *filter.CashierID)
	}
	if filter.Search != "" {
		query = query.Where(`LOWER(customer_name) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	query = whereDateRange(query, "created_at", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*models.SaleModel
	err := paginate(query, filter.Filter, saleSort).
		Preload("Items", orderItems).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*sales.Sale, len(rows))
	for i, row := range rows {
		result[i] = row.ToDomain()
	}
	return result, total, nil
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/audit"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Repository. It never updates or deletes rows.
type GormAuditLogRepository struct {
	db *gorm.DB
}

var _ audit.Repository = (*GormAuditLogRepository)(nil)

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create inserts an audit record
func (r *GormAuditLogRepository) Create(ctx context.Context, log *audit.Log) error {
	return r.db.WithContext(ctx).Create(models.AuditLogModelFromDomain(log)).Error
}

// FindByID finds an audit record by ID
func (r *GormAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.Log, error) {
	var model models.AuditLogModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists audit records, newest first by default
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter audit.Filter) ([]*audit.Log, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLogModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	query = whereDateRange(query, "created_at", filter.DateRange)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*models.AuditLogModel
	if err := paginate(query, filter.Filter, auditLogSort).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]*audit.Log, len(rows))
	for i, row := range rows {
		logs[i] = row.ToDomain()
	}
	return logs, total, nil
}

// whereDateRange restricts column to [From, To)
func whereDateRange(query *gorm.DB, column string, dr shared.DateRange) *gorm.DB {
	if dr.From != nil {
		query = query.Where(column+" >= ?", *dr.From)
	}
	if dr.To != nil {
		query = query.Where(column+" < ?", *dr.To)
	}
	return query
}

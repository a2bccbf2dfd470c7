package persistence

import (
	"context"
	"errors"

	"github.com/pdv/backend/internal/domain/settings"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements settings.Repository. Each table holds at
// most one row, keyed by the unique singleton_key column.
type GormSettingsRepository struct {
	db *gorm.DB
}

var _ settings.Repository = (*GormSettingsRepository)(nil)

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// upsertSingleton inserts the row or, when it already exists, overwrites its
// columns while keeping the stored ID and created_at.
func upsertSingleton(ctx context.Context, db *gorm.DB, model any) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton_key"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

func firstSingleton(ctx context.Context, db *gorm.DB, model any) error {
	err := db.WithContext(ctx).Where("singleton_key = ?", models.SingletonKey).First(model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// GetCompanyInfo returns shared.ErrNotFound until the first save
func (r *GormSettingsRepository) GetCompanyInfo(ctx context.Context) (*settings.CompanyInfo, error) {
	var model models.CompanyInfoModel
	if err := firstSingleton(ctx, r.db, &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveCompanyInfo upserts the company row
func (r *GormSettingsRepository) SaveCompanyInfo(ctx context.Context, info *settings.CompanyInfo) error {
	model := models.CompanyInfoModelFromDomain(info)
	if err := upsertSingleton(ctx, r.db, model); err != nil {
		return err
	}
	info.UpdatedAt = model.UpdatedAt
	return nil
}

// GetPrinterConfig returns shared.ErrNotFound until the first save
func (r *GormSettingsRepository) GetPrinterConfig(ctx context.Context) (*settings.PrinterConfig, error) {
	var model models.PrinterConfigModel
	if err := firstSingleton(ctx, r.db, &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SavePrinterConfig upserts the printer row
func (r *GormSettingsRepository) SavePrinterConfig(ctx context.Context, cfg *settings.PrinterConfig) error {
	model := models.PrinterConfigModelFromDomain(cfg)
	if err := upsertSingleton(ctx, r.db, model); err != nil {
		return err
	}
	cfg.UpdatedAt = model.UpdatedAt
	return nil
}

// GetScaleConfig returns shared.ErrNotFound until the first save
func (r *GormSettingsRepository) GetScaleConfig(ctx context.Context) (*settings.ScaleConfig, error) {
	var model models.ScaleConfigModel
	if err := firstSingleton(ctx, r.db, &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveScaleConfig upserts the scale row
func (r *GormSettingsRepository) SaveScaleConfig(ctx context.Context, cfg *settings.ScaleConfig) error {
	model := models.ScaleConfigModelFromDomain(cfg)
	if err := upsertSingleton(ctx, r.db, model); err != nil {
		return err
	}
	cfg.UpdatedAt = model.UpdatedAt
	return nil
}

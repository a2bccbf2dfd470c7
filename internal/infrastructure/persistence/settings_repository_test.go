package persistence

import (
	"context"
	"testing"

	"github.com/pdv/backend/internal/domain/settings"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSettingsRepository_CompanyInfoUpsertKeepsOneRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSettingsRepository(db)
	ctx := context.Background()

	_, err := repo.GetCompanyInfo(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	info := &settings.CompanyInfo{Name: "Mercado Bom Preço", TaxID: "12.345.678/0001-90"}
	require.NoError(t, repo.SaveCompanyInfo(ctx, info))
	assert.False(t, info.UpdatedAt.IsZero())

	var first models.CompanyInfoModel
	require.NoError(t, db.First(&first).Error)

	info.Name = "Mercado Bom Preço Ltda"
	info.ReceiptFooter = "Volte sempre!"
	require.NoError(t, repo.SaveCompanyInfo(ctx, info))

	var count int64
	require.NoError(t, db.Model(&models.CompanyInfoModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var second models.CompanyInfoModel
	require.NoError(t, db.First(&second).Error)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetCompanyInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mercado Bom Preço Ltda", got.Name)
	assert.Equal(t, "Volte sempre!", got.ReceiptFooter)
}

func TestGormSettingsRepository_PrinterAndScale(t *testing.T) {
	repo := NewGormSettingsRepository(setupTestDB(t))
	ctx := context.Background()

	printer := settings.DefaultPrinterConfig()
	printer.Enabled = true
	printer.PaperWidthMM = 58
	require.NoError(t, repo.SavePrinterConfig(ctx, &printer))

	printer.Enabled = false
	require.NoError(t, repo.SavePrinterConfig(ctx, &printer))

	gotPrinter, err := repo.GetPrinterConfig(ctx)
	require.NoError(t, err)
	assert.False(t, gotPrinter.Enabled)
	assert.Equal(t, 58, gotPrinter.PaperWidthMM)

	_, err = repo.GetScaleConfig(ctx)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	scale := settings.DefaultScaleConfig()
	scale.Port = "/dev/ttyUSB0"
	require.NoError(t, repo.SaveScaleConfig(ctx, &scale))

	gotScale, err := repo.GetScaleConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", gotScale.Port)
}

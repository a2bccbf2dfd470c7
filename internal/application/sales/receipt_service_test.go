package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/domain/settings"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUsers struct {
	identity.UserRepository
	user *identity.User
}

func (s stubUsers) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

type stubSettings struct {
	company settings.CompanyInfo
	err     error
}

func (s stubSettings) CompanyInfo(context.Context) (settings.CompanyInfo, error) {
	return s.company, s.err
}

func (s stubSettings) PrinterConfig(context.Context) (settings.PrinterConfig, error) {
	return settings.DefaultPrinterConfig(), nil
}

func (s stubSettings) LogoURL(_ context.Context, key string) string {
	return "https://cdn.example.com/" + key
}

type captureRenderer struct {
	data ReceiptData
}

func (r *captureRenderer) RenderReceipt(_ context.Context, data ReceiptData) (*ReceiptDocument, error) {
	r.data = data
	return &ReceiptDocument{Filename: data.Sale.Code() + ".pdf", ContentType: "application/pdf", Body: []byte("%PDF")}, nil
}

func TestReceiptService_Render(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	sale := newCompletedSale(t)
	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)

	user, err := identity.NewUser("caixa@example.com", "secret123", "Joana Lima", identity.RoleCashier)
	require.NoError(t, err)
	user.ID = sale.CashierID

	company := settings.DefaultCompanyInfo()
	company.LogoKey = "company/logo.png"
	renderer := &captureRenderer{}

	svc := NewReceiptService(saleRepo, stubUsers{user: user}, stubSettings{company: company}, renderer, zap.NewNop())
	doc, err := svc.Render(context.Background(), sale.ID)

	require.NoError(t, err)
	assert.Equal(t, "V000007.pdf", doc.Filename)
	assert.Equal(t, "Joana Lima", renderer.data.CashierName)
	assert.Equal(t, "https://cdn.example.com/company/logo.png", renderer.data.LogoURL)
	assert.Equal(t, 80, renderer.data.Printer.PaperWidthMM)
	assert.False(t, renderer.data.IssuedAt.IsZero())
}

func TestReceiptService_Render_MissingCashierStillRenders(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	sale := newCompletedSale(t)
	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	renderer := &captureRenderer{}

	svc := NewReceiptService(saleRepo, stubUsers{}, stubSettings{company: settings.DefaultCompanyInfo()}, renderer, zap.NewNop())
	_, err := svc.Render(context.Background(), sale.ID)

	require.NoError(t, err)
	assert.Empty(t, renderer.data.CashierName)
	assert.Empty(t, renderer.data.LogoURL)
}

func TestReceiptService_Render_Errors(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	missing := uuid.New()
	saleRepo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	sale := newCompletedSale(t)
	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)

	svc := NewReceiptService(saleRepo, stubUsers{}, stubSettings{err: errors.New("db down")}, &captureRenderer{}, zap.NewNop())

	_, err := svc.Render(context.Background(), missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Render(context.Background(), sale.ID)
	assert.EqualError(t, err, "db down")
}

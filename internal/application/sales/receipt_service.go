package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/pdv/backend/internal/domain/settings"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ReceiptSettings provides the configuration printed on receipts
type ReceiptSettings interface {
	CompanyInfo(ctx context.Context) (settings.CompanyInfo, error)
	PrinterConfig(ctx context.Context) (settings.PrinterConfig, error)

	// LogoURL returns a temporary URL for the stored logo, or "" when unavailable
	LogoURL(ctx context.Context, key string) string
}

// ReceiptService renders printable sale receipts
type ReceiptService struct {
	saleRepo sales.Repository
	userRepo identity.UserRepository
	settings ReceiptSettings
	renderer ReceiptRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	saleRepo sales.Repository,
	userRepo identity.UserRepository,
	settings ReceiptSettings,
	renderer ReceiptRenderer,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		saleRepo: saleRepo,
		userRepo: userRepo,
		settings: settings,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// Render builds the receipt of a sale in any status
func (s *ReceiptService) Render(ctx context.Context, id uuid.UUID) (_ *ReceiptDocument, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "receipt", "render", telemetry.SpanAttrSaleID, id.String())
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	company, err := s.settings.CompanyInfo(ctx)
	if err != nil {
		return nil, err
	}
	printer, err := s.settings.PrinterConfig(ctx)
	if err != nil {
		return nil, err
	}

	data := ReceiptData{
		Sale:     sale,
		Company:  company,
		Printer:  printer,
		IssuedAt: s.now(),
	}
	if company.LogoKey != "" {
		data.LogoURL = s.settings.LogoURL(ctx, company.LogoKey)
	}
	if cashier, err := s.userRepo.FindByID(ctx, sale.CashierID); err == nil {
		data.CashierName = cashier.FullName
	} else {
		s.logger.Warn("Cashier not found for receipt",
			zap.String("sale_id", sale.ID.String()),
			zap.String("cashier_id", sale.CashierID.String()),
			zap.Error(err))
	}

	return s.renderer.RenderReceipt(ctx, data)
}

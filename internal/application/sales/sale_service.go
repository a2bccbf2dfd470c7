// Package sales implements the sale use cases: registration, status
// transitions, listing and receipts.
package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/catalog"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SaleService handles sale operations
type SaleService struct {
	saleRepo    sales.Repository
	productRepo catalog.ProductRepository
	idempotency shared.IdempotencyStore
	metrics     *telemetry.BusinessMetrics
	logger      *zap.Logger
}

// NewSaleService creates a new SaleService. metrics may be nil.
func NewSaleService(
	saleRepo sales.Repository,
	productRepo catalog.ProductRepository,
	idempotency shared.IdempotencyStore,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		idempotency: idempotency,
		metrics:     metrics,
		logger:      logger,
	}
}

// Create registers a completed sale priced from the catalog. A non-empty
// idempotencyKey already used by the same cashier is rejected with
// DUPLICATE_REQUEST; the key is released again if the sale is not stored.
func (s *SaleService) Create(ctx context.Context, cashier identity.Identity, idempotencyKey string, req CreateSaleRequest) (_ *SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create",
		telemetry.SpanAttrUserID, cashier.UserID.String(),
		telemetry.SpanAttrItemsCount, len(req.Items),
		telemetry.SpanAttrPaymentMethod, req.PaymentMethod,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if idempotencyKey != "" {
		key := cashier.UserID.String() + ":" + idempotencyKey
		fresh, markErr := s.idempotency.MarkProcessed(ctx, key, shared.DefaultIdempotencyTTL)
		switch {
		case markErr != nil:
			s.logger.Warn("Idempotency store unavailable, accepting request", zap.Error(markErr))
		case !fresh:
			s.logger.Info("Duplicate sale request", zap.String("idempotency_key", idempotencyKey))
			return nil, shared.ErrDuplicateRequest
		default:
			defer func() {
				if err == nil {
					return
				}
				if relErr := s.idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
					s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
				}
			}()
		}
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	sale, err := sales.NewSale(cashier.UserID, items, req.Discount, sales.PaymentMethod(req.PaymentMethod), req.AmountPaid)
	if err != nil {
		return nil, err
	}
	sale.CustomerName = req.CustomerName
	sale.Notes = req.Notes

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		s.logger.Error("Failed to save sale", zap.Error(err))
		return nil, err
	}

	s.metrics.RecordSaleCreated(ctx, string(sale.PaymentMethod), sale.Total)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleID, sale.ID.String(),
		telemetry.SpanAttrSaleNumber, sale.Number,
		telemetry.SpanAttrAmount, sale.Total.InexactFloat64(),
	)
	s.logger.Info("Sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("code", sale.Code()),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.String("cashier_id", cashier.UserID.String()))

	resp := ToSaleResponse(sale)
	return &resp, nil
}

// buildItems loads the referenced products and snapshots their name, price and cost
func (s *SaleService) buildItems(ctx context.Context, reqs []SaleItemRequest) ([]sales.Item, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	seen := make(map[uuid.UUID]struct{}, len(reqs))
	parsed := make([]uuid.UUID, len(reqs))
	for i, r := range reqs {
		id, err := uuid.Parse(r.ProductID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("items[%d].productId must be a UUID", i))
		}
		parsed[i] = id
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]sales.Item, 0, len(reqs))
	for i, r := range reqs {
		p, ok := byID[parsed[i]]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", fmt.Sprintf("Product %s not found", parsed[i]))
		}
		if !p.Active {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE", fmt.Sprintf("Product %s is inactive", p.Name))
		}
		item, err := sales.NewItem(p.ID, p.Name, r.Quantity, p.Price, p.Cost, r.Discount)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID retrieves a sale with its items
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// List returns a page of sales, newest first by default
func (s *SaleService) List(ctx context.Context, f SaleListFilter) ([]SaleResponse, int64, error) {
	filter := sales.Filter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		DateRange: shared.DayRange(f.From, f.To),
	}
	if f.Status != "" {
		status := sales.Status(f.Status)
		filter.Status = &status
	}
	if f.CashierID != "" {
		id, err := uuid.Parse(f.CashierID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "cashierId must be a UUID")
		}
		filter.CashierID = &id
	}
	filter.Normalize()

	list, total, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SaleResponse, 0, len(list))
	for _, sale := range list {
		out = append(out, ToSaleResponse(sale))
	}
	return out, total, nil
}

// Cancel cancels a sale. Cancelling a cancelled sale is rejected.
func (s *SaleService) Cancel(ctx context.Context, actor identity.Identity, id uuid.UUID, req CancelSaleRequest) (*SaleChange, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "cancel", telemetry.SpanAttrSaleID, id.String())
	defer span.End()

	change, err := s.transition(ctx, id, func(sale *sales.Sale) error {
		return sale.Cancel(actor.UserID, req.Reason)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordSaleCancelled(ctx)
	s.logger.Info("Sale cancelled",
		zap.String("sale_id", id.String()),
		zap.String("by", actor.UserID.String()),
		zap.String("reason", req.Reason))
	return change, nil
}

// Reopen moves a cancelled sale back to open
func (s *SaleService) Reopen(ctx context.Context, actor identity.Identity, id uuid.UUID) (*SaleChange, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "reopen", telemetry.SpanAttrSaleID, id.String())
	defer span.End()

	change, err := s.transition(ctx, id, func(sale *sales.Sale) error {
		return sale.Reopen()
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordSaleReopened(ctx)
	s.logger.Info("Sale reopened", zap.String("sale_id", id.String()), zap.String("by", actor.UserID.String()))
	return change, nil
}

// Complete finalizes an open sale
func (s *SaleService) Complete(ctx context.Context, actor identity.Identity, id uuid.UUID, req CompleteSaleRequest) (*SaleChange, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "complete", telemetry.SpanAttrSaleID, id.String())
	defer span.End()

	change, err := s.transition(ctx, id, func(sale *sales.Sale) error {
		return sale.Complete(req.AmountPaid)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Sale completed", zap.String("sale_id", id.String()), zap.String("by", actor.UserID.String()))
	return change, nil
}

func (s *SaleService) transition(ctx context.Context, id uuid.UUID, apply func(*sales.Sale) error) (*SaleChange, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := ToSaleResponse(sale)

	if err := apply(sale); err != nil {
		return nil, err
	}
	if err := s.saleRepo.UpdateStatus(ctx, sale); err != nil {
		return nil, err
	}
	return &SaleChange{Before: before, After: ToSaleResponse(sale)}, nil
}

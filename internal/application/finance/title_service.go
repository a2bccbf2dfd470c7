package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PayableService handles accounts payable
type PayableService struct {
	repo    finance.PayableRepository
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewPayableService creates a new PayableService
func NewPayableService(repo finance.PayableRepository, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *PayableService {
	return &PayableService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// Create registers an open payable
func (s *PayableService) Create(ctx context.Context, actor identity.Identity, req TitleRequest) (*TitleResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	ap, err := finance.NewAccountPayable(in, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ap); err != nil {
		return nil, err
	}
	s.logger.Info("Account payable created", zap.String("payable_id", ap.ID.String()), zap.String("total", ap.TotalAmount.StringFixed(2)))
	resp := ToTitleResponse(&ap.Title, s.now())
	return &resp, nil
}

// GetByID retrieves a payable with its payments
func (s *PayableService) GetByID(ctx context.Context, id uuid.UUID) (*TitleResponse, error) {
	ap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTitleResponse(&ap.Title, s.now())
	return &resp, nil
}

// List returns a page of payables ordered by due date
func (s *PayableService) List(ctx context.Context, f TitleListFilter) ([]TitleResponse, int64, error) {
	list, total, err := s.repo.FindAll(ctx, titleFilter(f))
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]TitleResponse, 0, len(list))
	for _, ap := range list {
		out = append(out, ToTitleResponse(&ap.Title, now))
	}
	return out, total, nil
}

// Update edits a payable while no payment was recorded
func (s *PayableService) Update(ctx context.Context, id uuid.UUID, req TitleRequest) (*TitleChange, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(ap *finance.AccountPayable) error {
		return ap.Update(in)
	})
}

// RecordPayment applies a payment. Paying the outstanding amount settles the payable.
func (s *PayableService) RecordPayment(ctx context.Context, actor identity.Identity, id uuid.UUID, req SettlementRequest) (*TitleChange, error) {
	in, err := req.toInput(actor.UserID)
	if err != nil {
		return nil, err
	}
	change, err := s.mutate(ctx, id, func(ap *finance.AccountPayable) error {
		_, err := ap.RecordPayment(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSettlement(ctx, "payable")
	s.logger.Info("Payment recorded",
		zap.String("payable_id", id.String()),
		zap.String("amount", in.Amount.StringFixed(2)),
		zap.String("status", change.After.Status))
	return change, nil
}

// Cancel cancels a payable without payments
func (s *PayableService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*TitleChange, error) {
	change, err := s.mutate(ctx, id, func(ap *finance.AccountPayable) error {
		return ap.Cancel(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Account payable cancelled", zap.String("payable_id", id.String()))
	return change, nil
}

func (s *PayableService) mutate(ctx context.Context, id uuid.UUID, apply func(*finance.AccountPayable) error) (*TitleChange, error) {
	ap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	before := ToTitleResponse(&ap.Title, now)

	if err := apply(ap); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ap); err != nil {
		return nil, err
	}
	return &TitleChange{Before: before, After: ToTitleResponse(&ap.Title, now)}, nil
}

// ReceivableService handles accounts receivable
type ReceivableService struct {
	repo    finance.ReceivableRepository
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewReceivableService creates a new ReceivableService
func NewReceivableService(repo finance.ReceivableRepository, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *ReceivableService {
	return &ReceivableService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// Create registers an open receivable
func (s *ReceivableService) Create(ctx context.Context, actor identity.Identity, req TitleRequest) (*TitleResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	ar, err := finance.NewAccountReceivable(in, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ar); err != nil {
		return nil, err
	}
	s.logger.Info("Account receivable created", zap.String("receivable_id", ar.ID.String()), zap.String("total", ar.TotalAmount.StringFixed(2)))
	resp := ToTitleResponse(&ar.Title, s.now())
	return &resp, nil
}

// GetByID retrieves a receivable with its receipts
func (s *ReceivableService) GetByID(ctx context.Context, id uuid.UUID) (*TitleResponse, error) {
	ar, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTitleResponse(&ar.Title, s.now())
	return &resp, nil
}

// List returns a page of receivables ordered by due date
func (s *ReceivableService) List(ctx context.Context, f TitleListFilter) ([]TitleResponse, int64, error) {
	list, total, err := s.repo.FindAll(ctx, titleFilter(f))
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]TitleResponse, 0, len(list))
	for _, ar := range list {
		out = append(out, ToTitleResponse(&ar.Title, now))
	}
	return out, total, nil
}

// Update edits a receivable while no receipt was recorded
func (s *ReceivableService) Update(ctx context.Context, id uuid.UUID, req TitleRequest) (*TitleChange, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(ar *finance.AccountReceivable) error {
		return ar.Update(in)
	})
}

// RecordReceipt applies a receipt. Receiving the outstanding amount settles the receivable.
func (s *ReceivableService) RecordReceipt(ctx context.Context, actor identity.Identity, id uuid.UUID, req SettlementRequest) (*TitleChange, error) {
	in, err := req.toInput(actor.UserID)
	if err != nil {
		return nil, err
	}
	change, err := s.mutate(ctx, id, func(ar *finance.AccountReceivable) error {
		_, err := ar.RecordReceipt(in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSettlement(ctx, "receivable")
	s.logger.Info("Receipt recorded",
		zap.String("receivable_id", id.String()),
		zap.String("amount", in.Amount.StringFixed(2)),
		zap.String("status", change.After.Status))
	return change, nil
}

// Cancel cancels a receivable without receipts
func (s *ReceivableService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*TitleChange, error) {
	change, err := s.mutate(ctx, id, func(ar *finance.AccountReceivable) error {
		return ar.Cancel(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Account receivable cancelled", zap.String("receivable_id", id.String()))
	return change, nil
}

func (s *ReceivableService) mutate(ctx context.Context, id uuid.UUID, apply func(*finance.AccountReceivable) error) (*TitleChange, error) {
	ar, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	before := ToTitleResponse(&ar.Title, now)

	if err := apply(ar); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ar); err != nil {
		return nil, err
	}
	return &TitleChange{Before: before, After: ToTitleResponse(&ar.Title, now)}, nil
}

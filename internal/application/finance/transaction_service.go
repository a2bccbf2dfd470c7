// Package finance implements financial transactions, accounts payable and
// accounts receivable use cases.
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// TransactionService handles one-off income and expense entries
type TransactionService struct {
	repo    finance.TransactionRepository
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(repo finance.TransactionRepository, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Create registers an open transaction
func (s *TransactionService) Create(ctx context.Context, actor identity.Identity, req TransactionRequest) (*TransactionResponse, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	tx, err := finance.NewFinancialTransaction(in, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("Financial transaction created",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("type", string(tx.Type)),
		zap.String("amount", tx.Amount.StringFixed(2)))
	resp := ToTransactionResponse(tx, s.now())
	return &resp, nil
}

// GetByID retrieves a transaction
func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(tx, s.now())
	return &resp, nil
}

// List returns a page of transactions ordered by due date
func (s *TransactionService) List(ctx context.Context, f TransactionListFilter) ([]TransactionResponse, int64, error) {
	filter := finance.TransactionFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		DateRange: shared.DayRange(f.From, f.To),
		Category:  f.Category,
		Overdue:   f.Overdue,
	}
	if f.Type != "" {
		t := finance.TransactionType(f.Type)
		filter.Type = &t
	}
	if f.Status != "" {
		status := finance.Status(f.Status)
		filter.Status = &status
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "due_date"
		if filter.OrderDir == "" {
			filter.OrderDir = "asc"
		}
	}
	filter.Normalize()

	list, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]TransactionResponse, 0, len(list))
	for _, tx := range list {
		out = append(out, ToTransactionResponse(tx, now))
	}
	return out, total, nil
}

// Update edits an open transaction
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, req TransactionRequest) (*TransactionChange, error) {
	in, err := req.toInput()
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(tx *finance.FinancialTransaction) error {
		return tx.Update(in)
	})
}

// Settle marks the transaction paid (expense) or received (income)
func (s *TransactionService) Settle(ctx context.Context, id uuid.UUID, req SettleRequest) (*TransactionChange, error) {
	var at time.Time
	if req.SettledAt != "" {
		var err error
		if at, err = parseDate("settledAt", req.SettledAt); err != nil {
			return nil, err
		}
	}
	change, err := s.mutate(ctx, id, func(tx *finance.FinancialTransaction) error {
		return tx.Settle(finance.PaymentMethod(req.Method), at)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSettlement(ctx, "financial_transaction")
	s.logger.Info("Financial transaction settled", zap.String("transaction_id", id.String()), zap.String("status", change.After.Status))
	return change, nil
}

// Cancel cancels an open transaction. The cancellation cannot be undone.
func (s *TransactionService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*TransactionChange, error) {
	change, err := s.mutate(ctx, id, func(tx *finance.FinancialTransaction) error {
		return tx.Cancel(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Financial transaction cancelled", zap.String("transaction_id", id.String()))
	return change, nil
}

func (s *TransactionService) mutate(ctx context.Context, id uuid.UUID, apply func(*finance.FinancialTransaction) error) (*TransactionChange, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	before := ToTransactionResponse(tx, now)

	if err := apply(tx); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tx); err != nil {
		return nil, err
	}
	return &TransactionChange{Before: before, After: ToTransactionResponse(tx, now)}, nil
}

package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
)

// TransactionRepository persists financial transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *FinancialTransaction) error
	Update(ctx context.Context, tx *FinancialTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialTransaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]*FinancialTransaction, int64, error)
}

// PayableRepository persists accounts payable with their payments
type PayableRepository interface {
	Create(ctx context.Context, ap *AccountPayable) error
	// Update saves the payable and inserts settlements not yet persisted
	Update(ctx context.Context, ap *AccountPayable) error
	FindByID(ctx context.Context, id uuid.UUID) (*AccountPayable, error)
	FindAll(ctx context.Context, filter TitleFilter) ([]*AccountPayable, int64, error)
}

// ReceivableRepository persists accounts receivable with their receipts
type ReceivableRepository interface {
	Create(ctx context.Context, ar *AccountReceivable) error
	// Update saves the receivable and inserts settlements not yet persisted
	Update(ctx context.Context, ar *AccountReceivable) error
	FindByID(ctx context.Context, id uuid.UUID) (*AccountReceivable, error)
	FindAll(ctx context.Context, filter TitleFilter) ([]*AccountReceivable, int64, error)
}

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	shared.Filter
	shared.DateRange // on due date

	Type     *TransactionType
	Status   *Status
	Category string
	Overdue  bool
}

// TitleFilter narrows payable and receivable listings
type TitleFilter struct {
	shared.Filter
	shared.DateRange // on due date

	Status   *Status
	Category string
	Overdue  bool
}

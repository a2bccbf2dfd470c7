package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of due and settlement dates
const DateLayout = "2006-01-02"

// TransactionRequest is the body of POST and PUT /financial/transactions
type TransactionRequest struct {
	Type        string          `json:"type" binding:"required,oneof=income expense"`
	Category    string          `json:"category" binding:"max=100"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Amount      decimal.Decimal `json:"amount" binding:"gt=0"`
	DueDate     string          `json:"dueDate" binding:"required,datetime=2006-01-02"`
}

// SettleRequest is the body of POST /financial/transactions/:id/settle
type SettleRequest struct {
	Method    string `json:"method" binding:"required,oneof=cash bank_transfer pix card boleto other"`
	SettledAt string `json:"settledAt" binding:"omitempty,datetime=2006-01-02"`
}

// CancelRequest is the body of the cancel endpoints
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// TitleRequest is the body of POST and PUT for payables and receivables
type TitleRequest struct {
	Counterparty string          `json:"counterparty" binding:"required,min=1,max=200"`
	Document     string          `json:"document" binding:"max=50"`
	Description  string          `json:"description" binding:"required,min=1,max=500"`
	Category     string          `json:"category" binding:"max=100"`
	TotalAmount  decimal.Decimal `json:"totalAmount" binding:"gt=0"`
	DueDate      string          `json:"dueDate" binding:"required,datetime=2006-01-02"`
}

// SettlementRequest records a payment on a payable or a receipt on a receivable
type SettlementRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"gt=0"`
	Method    string          `json:"method" binding:"required,oneof=cash bank_transfer pix card boleto other"`
	SettledAt string          `json:"settledAt" binding:"omitempty,datetime=2006-01-02"`
	Note      string          `json:"note" binding:"max=500"`
}

// TransactionListFilter holds the query parameters of GET /financial/transactions
type TransactionListFilter struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"orderBy" binding:"omitempty,oneof=due_date amount created_at status category"`
	OrderDir string     `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	Search   string     `form:"search" binding:"max=100"`
	Type     string     `form:"type" binding:"omitempty,oneof=income expense"`
	Status   string     `form:"status" binding:"omitempty,oneof=open paid received cancelled"`
	Category string     `form:"category" binding:"max=100"`
	Overdue  bool       `form:"overdue"`
	From     *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To       *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// TitleListFilter holds the query parameters of the payable and receivable listings
type TitleListFilter struct {
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"orderBy" binding:"omitempty,oneof=due_date total_amount settled_amount created_at status category"`
	OrderDir string     `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	Search   string     `form:"search" binding:"max=100"`
	Status   string     `form:"status" binding:"omitempty,oneof=open partial paid received cancelled"`
	Category string     `form:"category" binding:"max=100"`
	Overdue  bool       `form:"overdue"`
	From     *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To       *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// TransactionResponse represents a financial transaction in API responses
type TransactionResponse struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      string          `json:"dueDate"`
	Status       string          `json:"status"`
	Overdue      bool            `json:"overdue"`
	Method       string          `json:"method,omitempty"`
	SettledAt    *time.Time      `json:"settledAt,omitempty"`
	CancelReason string          `json:"cancelReason,omitempty"`
	CancelledAt  *time.Time      `json:"cancelledAt,omitempty"`
	CreatedBy    uuid.UUID       `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// SettlementResponse is a payment or receipt in API responses
type SettlementResponse struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	SettledAt  time.Time       `json:"settledAt"`
	Note       string          `json:"note,omitempty"`
	RecordedBy uuid.UUID       `json:"recordedBy"`
}

// TitleResponse represents a payable or receivable in API responses
type TitleResponse struct {
	ID            uuid.UUID            `json:"id"`
	Counterparty  string               `json:"counterparty"`
	Document      string               `json:"document"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	SettledAmount decimal.Decimal      `json:"settledAmount"`
	Outstanding   decimal.Decimal      `json:"outstanding"`
	DueDate       string               `json:"dueDate"`
	Status        string               `json:"status"`
	Overdue       bool                 `json:"overdue"`
	Settlements   []SettlementResponse `json:"settlements"`
	SettledAt     *time.Time           `json:"settledAt,omitempty"`
	CancelReason  string               `json:"cancelReason,omitempty"`
	CancelledAt   *time.Time           `json:"cancelledAt,omitempty"`
	CreatedBy     uuid.UUID            `json:"createdBy"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// TransactionChange carries a transaction before and after a mutation
type TransactionChange struct {
	Before TransactionResponse
	After  TransactionResponse
}

// TitleChange carries a payable or receivable before and after a mutation
type TitleChange struct {
	Before TitleResponse
	After  TitleResponse
}

// ToTransactionResponse converts a domain transaction, deriving overdue at now
func ToTransactionResponse(tx *finance.FinancialTransaction, now time.Time) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID,
		Type:         string(tx.Type),
		Category:     tx.Category,
		Description:  tx.Description,
		Amount:       tx.Amount,
		DueDate:      tx.DueDate.Format(DateLayout),
		Status:       tx.Status.String(),
		Overdue:      tx.IsOverdue(now),
		Method:       string(tx.Method),
		SettledAt:    tx.SettledAt,
		CancelReason: tx.CancelReason,
		CancelledAt:  tx.CancelledAt,
		CreatedBy:    tx.CreatedBy,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}

// ToTitleResponse converts a payable or receivable, deriving overdue at now
func ToTitleResponse(t *finance.Title, now time.Time) TitleResponse {
	settlements := make([]SettlementResponse, 0, len(t.Settlements))
	for _, s := range t.Settlements {
		settlements = append(settlements, SettlementResponse{
			ID:         s.ID,
			Amount:     s.Amount,
			Method:     string(s.Method),
			SettledAt:  s.SettledAt,
			Note:       s.Note,
			RecordedBy: s.RecordedBy,
		})
	}
	return TitleResponse{
		ID:            t.ID,
		Counterparty:  t.Counterparty,
		Document:      t.Document,
		Description:   t.Description,
		Category:      t.Category,
		TotalAmount:   t.TotalAmount,
		SettledAmount: t.SettledAmount,
		Outstanding:   t.Outstanding(),
		DueDate:       t.DueDate.Format(DateLayout),
		Status:        t.Status.String(),
		Overdue:       t.IsOverdue(now),
		Settlements:   settlements,
		SettledAt:     t.SettledAt,
		CancelReason:  t.CancelReason,
		CancelledAt:   t.CancelledAt,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (r TransactionRequest) toInput() (finance.TransactionInput, error) {
	due, err := parseDate("dueDate", r.DueDate)
	if err != nil {
		return finance.TransactionInput{}, err
	}
	return finance.TransactionInput{
		Type:        finance.TransactionType(r.Type),
		Category:    r.Category,
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     due,
	}, nil
}

func (r TitleRequest) toInput() (finance.TitleInput, error) {
	due, err := parseDate("dueDate", r.DueDate)
	if err != nil {
		return finance.TitleInput{}, err
	}
	return finance.TitleInput{
		Counterparty: r.Counterparty,
		Document:     r.Document,
		Description:  r.Description,
		Category:     r.Category,
		TotalAmount:  r.TotalAmount,
		DueDate:      due,
	}, nil
}

func (r SettlementRequest) toInput(recordedBy uuid.UUID) (finance.SettlementInput, error) {
	var at time.Time
	if r.SettledAt != "" {
		var err error
		if at, err = parseDate("settledAt", r.SettledAt); err != nil {
			return finance.SettlementInput{}, err
		}
	}
	return finance.SettlementInput{
		Amount:     r.Amount,
		Method:     finance.PaymentMethod(r.Method),
		SettledAt:  at,
		Note:       r.Note,
		RecordedBy: recordedBy,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_INPUT", field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

func titleFilter(f TitleListFilter) finance.TitleFilter {
	filter := finance.TitleFilter{
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
	return filter
}

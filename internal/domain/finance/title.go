package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Settlement is a single payment made against a payable or a receipt taken
// against a receivable.
type Settlement struct {
	ID         uuid.UUID
	Amount     decimal.Decimal
	Method     PaymentMethod
	SettledAt  time.Time
	Note       string
	RecordedBy uuid.UUID
}

// Title holds the state common to payables and receivables: a total owed,
// how much of it has been settled and the installments that settled it.
type Title struct {
	shared.BaseEntity
	Counterparty  string
	Document      string
	Description   string
	Category      string
	TotalAmount   decimal.Decimal
	SettledAmount decimal.Decimal
	DueDate       time.Time
	Status        Status
	Settlements   []Settlement
	SettledAt     *time.Time
	CancelReason  string
	CancelledAt   *time.Time
	CreatedBy     uuid.UUID
}

// TitleInput carries the editable attributes of a payable or receivable
type TitleInput struct {
	Counterparty string
	Document     string
	Description  string
	Category     string
	TotalAmount  decimal.Decimal
	DueDate      time.Time
}

// SettlementInput describes one payment or receipt
type SettlementInput struct {
	Amount     decimal.Decimal
	Method     PaymentMethod
	SettledAt  time.Time
	Note       string
	RecordedBy uuid.UUID
}

func newTitle(in TitleInput, createdBy uuid.UUID) (Title, error) {
	t := Title{
		BaseEntity:    shared.NewBaseEntity(),
		SettledAmount: decimal.Zero,
		Status:        StatusOpen,
		Settlements:   make([]Settlement, 0),
		CreatedBy:     createdBy,
	}
	if err := t.apply(in); err != nil {
		return Title{}, err
	}
	return t, nil
}

// Outstanding returns the amount still to be settled
func (t *Title) Outstanding() decimal.Decimal {
	if t.Status == StatusCancelled {
		return decimal.Zero
	}
	return t.TotalAmount.Sub(t.SettledAmount)
}

// IsOverdue returns true if the due date passed and the title is not terminal
func (t *Title) IsOverdue(now time.Time) bool {
	return !t.Status.IsTerminal() && isPastDue(t.DueDate, now)
}

func (t *Title) update(in TitleInput) error {
	if t.Status != StatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit a %s record", t.Status))
	}
	if err := t.apply(in); err != nil {
		return err
	}
	t.Touch()
	return nil
}

func (t *Title) settle(in SettlementInput, done Status) (*Settlement, error) {
	if t.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot settle a %s record", t.Status))
	}
	if !in.Amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if !in.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	amount := in.Amount.Round(2)
	outstanding := t.Outstanding()
	if amount.GreaterThan(outstanding) {
		return nil, shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Amount %s exceeds outstanding amount %s", amount.StringFixed(2), outstanding.StringFixed(2)))
	}
	at := in.SettledAt
	if at.IsZero() {
		at = shared.Now()
	}

	s := Settlement{
		ID:         uuid.New(),
		Amount:     amount,
		Method:     in.Method,
		SettledAt:  at,
		Note:       strings.TrimSpace(in.Note),
		RecordedBy: in.RecordedBy,
	}
	t.Settlements = append(t.Settlements, s)
	t.SettledAmount = t.SettledAmount.Add(amount)

	if t.Outstanding().IsZero() {
		t.Status = done
		t.SettledAt = &at
	} else {
		t.Status = StatusPartial
	}
	t.Touch()
	return &s, nil
}

// cancel closes an open or partially settled title. Settlements already
// recorded stay on the title and keep counting in cash reports.
func (t *Title) cancel(reason string) error {
	if t.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s record", t.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	now := shared.Now()
	t.Status = StatusCancelled
	t.CancelReason = reason
	t.CancelledAt = &now
	t.UpdatedAt = now
	return nil
}

func (t *Title) apply(in TitleInput) error {
	counterparty := strings.TrimSpace(in.Counterparty)
	if counterparty == "" {
		return shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty name is required")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}
	if !in.TotalAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount must be greater than zero")
	}
	if in.DueDate.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	t.Counterparty = counterparty
	t.Document = strings.TrimSpace(in.Document)
	t.Description = description
	t.Category = strings.TrimSpace(in.Category)
	t.TotalAmount = in.TotalAmount.Round(2)
	t.DueDate = in.DueDate
	return nil
}

package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money in from money out
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// IsValid reports whether t is a known type
func (t TransactionType) IsValid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// settledStatus is the terminal success state for the type
func (t TransactionType) settledStatus() Status {
	if t == TransactionIncome {
		return StatusReceived
	}
	return StatusPaid
}

// FinancialTransaction is a one-off income or expense entry.
// Lifecycle: open -> paid (expense) | received (income); open -> cancelled.
type FinancialTransaction struct {
	shared.BaseEntity
	Type         TransactionType
	Category     string
	Description  string
	Amount       decimal.Decimal
	DueDate      time.Time
	Status       Status
	Method       PaymentMethod
	SettledAt    *time.Time
	CancelReason string
	CancelledAt  *time.Time
	CreatedBy    uuid.UUID
}

// TransactionInput carries the editable attributes of a transaction
type TransactionInput struct {
	Type        TransactionType
	Category    string
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
}

// NewFinancialTransaction creates an open transaction
func NewFinancialTransaction(in TransactionInput, createdBy uuid.UUID) (*FinancialTransaction, error) {
	if !in.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Transaction type must be income or expense")
	}
	tx := &FinancialTransaction{
		BaseEntity: shared.NewBaseEntity(),
		Type:       in.Type,
		Status:     StatusOpen,
		CreatedBy:  createdBy,
	}
	if err := tx.apply(in); err != nil {
		return nil, err
	}
	return tx, nil
}

// Update edits an open transaction. The type cannot change.
func (tx *FinancialTransaction) Update(in TransactionInput) error {
	if tx.Status != StatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit a %s transaction", tx.Status))
	}
	if in.Type != "" && in.Type != tx.Type {
		return shared.NewDomainError("INVALID_TYPE", "Transaction type cannot be changed")
	}
	if err := tx.apply(in); err != nil {
		return err
	}
	tx.Touch()
	return nil
}

// Settle marks the transaction paid or received, depending on its type
func (tx *FinancialTransaction) Settle(method PaymentMethod, at time.Time) error {
	if tx.Status != StatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot settle a %s transaction", tx.Status))
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	if at.IsZero() {
		at = shared.Now()
	}
	tx.Status = tx.Type.settledStatus()
	tx.Method = method
	tx.SettledAt = &at
	tx.Touch()
	return nil
}

// Cancel cancels an open transaction. Cancellation is irreversible.
func (tx *FinancialTransaction) Cancel(reason string) error {
	if tx.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s transaction", tx.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	now := shared.Now()
	tx.Status = StatusCancelled
	tx.CancelReason = reason
	tx.CancelledAt = &now
	tx.UpdatedAt = now
	return nil
}

// IsOverdue returns true if the due date passed while still open
func (tx *FinancialTransaction) IsOverdue(now time.Time) bool {
	return !tx.Status.IsTerminal() && isPastDue(tx.DueDate, now)
}

func (tx *FinancialTransaction) apply(in TransactionInput) error {
	if !in.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}
	if in.DueDate.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	tx.Category = strings.TrimSpace(in.Category)
	tx.Description = description
	tx.Amount = in.Amount.Round(2)
	tx.DueDate = in.DueDate
	return nil
}

// isPastDue compares calendar days so a record due today is not overdue
func isPastDue(due, now time.Time) bool {
	if due.IsZero() {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	dy, dm, dd := due.In(now.Location()).Date()
	dueDay := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
	return dueDay.Before(today)
}

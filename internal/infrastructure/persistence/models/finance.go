package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// FinancialTransactionModel is the persistence model for one-off income and expense entries.
type FinancialTransactionModel struct {
	BaseModel
	Type         finance.TransactionType `gorm:"type:varchar(20);not null;index"`
	Category     string                  `gorm:"type:varchar(100);index"`
	Description  string                  `gorm:"type:varchar(500);not null"`
	Amount       decimal.Decimal         `gorm:"type:numeric(18,4);not null"`
	DueDate      time.Time               `gorm:"type:date;not null;index"`
	Status       finance.Status          `gorm:"type:varchar(20);not null;index"`
	Method       finance.PaymentMethod   `gorm:"type:varchar(20)"`
	SettledAt    *time.Time              `gorm:"index"`
	CancelReason string                  `gorm:"type:varchar(500)"`
	CancelledAt  *time.Time
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (FinancialTransactionModel) TableName() string {
	return "financial_transactions"
}

// ToDomain converts the persistence model to a domain FinancialTransaction.
func (m *FinancialTransactionModel) ToDomain() *finance.FinancialTransaction {
	return &finance.FinancialTransaction{
		BaseEntity:   m.BaseModel.ToDomain(),
		Type:         m.Type,
		Category:     m.Category,
		Description:  m.Description,
		Amount:       m.Amount,
		DueDate:      m.DueDate,
		Status:       m.Status,
		Method:       m.Method,
		SettledAt:    m.SettledAt,
		CancelReason: m.CancelReason,
		CancelledAt:  m.CancelledAt,
		CreatedBy:    m.CreatedBy,
	}
}

// FinancialTransactionModelFromDomain creates a persistence model from a domain FinancialTransaction.
func FinancialTransactionModelFromDomain(tx *finance.FinancialTransaction) *FinancialTransactionModel {
	m := &FinancialTransactionModel{
		Type:         tx.Type,
		Category:     tx.Category,
		Description:  tx.Description,
		Amount:       tx.Amount,
		DueDate:      tx.DueDate,
		Status:       tx.Status,
		Method:       tx.Method,
		SettledAt:    tx.SettledAt,
		CancelReason: tx.CancelReason,
		CancelledAt:  tx.CancelledAt,
		CreatedBy:    tx.CreatedBy,
	}
	m.FromDomainBaseEntity(tx.BaseEntity)
	return m
}

// TitleModel holds the columns shared by payables and receivables.
type TitleModel struct {
	BaseModel
	Document      string          `gorm:"type:varchar(100)"`
	Description   string          `gorm:"type:varchar(500);not null"`
	Category      string          `gorm:"type:varchar(100);index"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	SettledAmount decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	DueDate       time.Time       `gorm:"type:date;not null;index"`
	Status        finance.Status  `gorm:"type:varchar(20);not null;index"`
	SettledAt     *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
	CancelledAt   *time.Time
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null"`
}

func (m *TitleModel) toDomain(counterparty string) finance.Title {
	return finance.Title{
		BaseEntity:    m.BaseModel.ToDomain(),
		Counterparty:  counterparty,
		Document:      m.Document,
		Description:   m.Description,
		Category:      m.Category,
		TotalAmount:   m.TotalAmount,
		SettledAmount: m.SettledAmount,
		DueDate:       m.DueDate,
		Status:        m.Status,
		Settlements:   make([]finance.Settlement, 0),
		SettledAt:     m.SettledAt,
		CancelReason:  m.CancelReason,
		CancelledAt:   m.CancelledAt,
		CreatedBy:     m.CreatedBy,
	}
}

func titleModelFromDomain(t *finance.Title) TitleModel {
	m := TitleModel{
		Document:      t.Document,
		Description:   t.Description,
		Category:      t.Category,
		TotalAmount:   t.TotalAmount,
		SettledAmount: t.SettledAmount,
		DueDate:       t.DueDate,
		Status:        t.Status,
		SettledAt:     t.SettledAt,
		CancelReason:  t.CancelReason,
		CancelledAt:   t.CancelledAt,
		CreatedBy:     t.CreatedBy,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// SettlementModel holds the columns shared by payable payments and receivable receipts.
type SettlementModel struct {
	ID         uuid.UUID             `gorm:"type:uuid;primary_key"`
	Amount     decimal.Decimal       `gorm:"type:numeric(18,4);not null"`
	Method     finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	SettledAt  time.Time             `gorm:"not null;index"`
	Note       string                `gorm:"type:varchar(500)"`
	RecordedBy uuid.UUID             `gorm:"type:uuid;not null"`
	CreatedAt  time.Time             `gorm:"not null"`
}

func (m *SettlementModel) toDomain() finance.Settlement {
	return finance.Settlement{
		ID:         m.ID,
		Amount:     m.Amount,
		Method:     m.Method,
		SettledAt:  m.SettledAt,
		Note:       m.Note,
		RecordedBy: m.RecordedBy,
	}
}

func settlementModelFromDomain(s finance.Settlement) SettlementModel {
	return SettlementModel{
		ID:         s.ID,
		Amount:     s.Amount,
		Method:     s.Method,
		SettledAt:  s.SettledAt,
		Note:       s.Note,
		RecordedBy: s.RecordedBy,
	}
}

// AccountPayableModel is the persistence model for accounts payable.
type AccountPayableModel struct {
	TitleModel
	SupplierName string                `gorm:"type:varchar(200);not null;index"`
	Payments     []PayablePaymentModel `gorm:"foreignKey:PayableID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AccountPayableModel) TableName() string {
	return "accounts_payable"
}

// PayablePaymentModel is one payment against a payable.
type PayablePaymentModel struct {
	SettlementModel
	PayableID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (PayablePaymentModel) TableName() string {
	return "payable_payments"
}

// ToDomain converts the persistence model to a domain AccountPayable. Payments must be preloaded.
func (m *AccountPayableModel) ToDomain() *finance.AccountPayable {
	ap := &finance.AccountPayable{Title: m.toDomain(m.SupplierName)}
	for _, p := range m.Payments {
		ap.Settlements = append(ap.Settlements, p.toDomain())
	}
	return ap
}

// AccountPayableModelFromDomain creates a persistence model, payments included, from a domain AccountPayable.
func AccountPayableModelFromDomain(ap *finance.AccountPayable) *AccountPayableModel {
	m := &AccountPayableModel{
		TitleModel:   titleModelFromDomain(&ap.Title),
		SupplierName: ap.Counterparty,
		Payments:     make([]PayablePaymentModel, len(ap.Settlements)),
	}
	for i, s := range ap.Settlements {
		m.Payments[i] = PayablePaymentModel{SettlementModel: settlementModelFromDomain(s), PayableID: ap.ID}
	}
	return m
}

// AccountReceivableModel is the persistence model for accounts receivable.
type AccountReceivableModel struct {
	TitleModel
	CustomerName string                   `gorm:"type:varchar(200);not null;index"`
	Receipts     []ReceivableReceiptModel `gorm:"foreignKey:ReceivableID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AccountReceivableModel) TableName() string {
	return "accounts_receivable"
}

// ReceivableReceiptModel is one receipt against a receivable.
type ReceivableReceiptModel struct {
	SettlementModel
	ReceivableID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ReceivableReceiptModel) TableName() string {
	return "receivable_receipts"
}

// ToDomain converts the persistence model to a domain AccountReceivable. Receipts must be preloaded.
func (m *AccountReceivableModel) ToDomain() *finance.AccountReceivable {
	ar := &finance.AccountReceivable{Title: m.toDomain(m.CustomerName)}
	for _, r := range m.Receipts {
		ar.Settlements = append(ar.Settlements, r.toDomain())
	}
	return ar
}

// AccountReceivableModelFromDomain creates a persistence model, receipts included, from a domain AccountReceivable.
func AccountReceivableModelFromDomain(ar *finance.AccountReceivable) *AccountReceivableModel {
	m := &AccountReceivableModel{
		TitleModel:   titleModelFromDomain(&ar.Title),
		CustomerName: ar.Counterparty,
		Receipts:     make([]ReceivableReceiptModel, len(ar.Settlements)),
	}
	for i, s := range ar.Settlements {
		m.Receipts[i] = ReceivableReceiptModel{SettlementModel: settlementModelFromDomain(s), ReceivableID: ar.ID}
	}
	return m
}


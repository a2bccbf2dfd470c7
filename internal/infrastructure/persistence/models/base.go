package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// SingletonKey is the fixed value of the unique singleton_key column on
// configuration tables, which keeps them at one row.
const SingletonKey int16 = 1

// SingletonModel provides the identity columns of a single-row table
type SingletonModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	SingletonKey int16     `gorm:"not null;default:1;uniqueIndex"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// newSingleton returns identity columns for an insert; on conflict the
// existing row keeps its ID.
func newSingleton() SingletonModel {
	return SingletonModel{
		ID:           uuid.New(),
		SingletonKey: SingletonKey,
	}
}

// All returns every model managed by migrations, in dependency order. Tests use it with AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&AuditLogModel{},
		&ProductModel{},
		&SaleModel{},
		&SaleItemModel{},
		&FinancialTransactionModel{},
		&AccountPayableModel{},
		&PayablePaymentModel{},
		&AccountReceivableModel{},
		&ReceivableReceiptModel{},
		&CompanyInfoModel{},
		&PrinterConfigModel{},
		&ScaleConfigModel{},
	}
}

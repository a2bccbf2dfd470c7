package sales

import (
	"context"
	"time"

	"github.com/pdv/backend/internal/domain/sales"
	"github.com/pdv/backend/internal/domain/settings"
)

// ReceiptData is everything printed on a sale receipt
type ReceiptData struct {
	Sale        *sales.Sale
	Company     settings.CompanyInfo
	Printer     settings.PrinterConfig
	LogoURL     string
	CashierName string
	IssuedAt    time.Time
}

// ReceiptDocument is a rendered receipt ready to be sent to the client
type ReceiptDocument struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReceiptRenderer turns receipt data into a printable document
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, data ReceiptData) (*ReceiptDocument, error)
}

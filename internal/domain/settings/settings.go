// Package settings holds the tenant-wide configuration singletons. Each
// table holds at most one row; a missing row means defaults.
package settings

import (
	"context"
	"strings"
	"time"

	"github.com/pdv/backend/internal/domain/shared"
)

// CompanyInfo identifies the business on receipts and reports
type CompanyInfo struct {
	Name              string
	TradeName         string
	TaxID             string
	StateRegistration string
	Address           string
	City              string
	State             string
	ZipCode           string
	Phone             string
	Email             string
	LogoKey           string
	ReceiptFooter     string
	UpdatedAt         time.Time
}

// DefaultCompanyInfo is returned when no company info was saved yet
func DefaultCompanyInfo() CompanyInfo {
	return CompanyInfo{
		Name:          "Minha Empresa",
		ReceiptFooter: "Obrigado pela preferencia!",
	}
}

// Validate checks required fields
func (c CompanyInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name is required")
	}
	if len(c.State) > 2 {
		return shared.NewDomainError("INVALID_STATE_CODE", "State must be a two letter code")
	}
	return nil
}

// PrinterConfig describes the receipt printer
type PrinterConfig struct {
	Enabled      bool
	Model        string
	PaperWidthMM int
	Columns      int
	Copies       int
	AutoPrint    bool
	CutPaper     bool
	UpdatedAt    time.Time
}

// DefaultPrinterConfig is returned when no printer was configured
func DefaultPrinterConfig() PrinterConfig {
	return PrinterConfig{
		Enabled:      false,
		Model:        "generic",
		PaperWidthMM: 80,
		Columns:      48,
		Copies:       1,
		AutoPrint:    false,
		CutPaper:     true,
	}
}

// Validate checks paper width and copy count
func (p PrinterConfig) Validate() error {
	if p.PaperWidthMM != 58 && p.PaperWidthMM != 80 {
		return shared.NewDomainError("INVALID_PAPER_WIDTH", "Paper width must be 58 or 80 mm")
	}
	if p.Copies < 1 || p.Copies > 5 {
		return shared.NewDomainError("INVALID_COPIES", "Copies must be between 1 and 5")
	}
	if p.Columns < 24 || p.Columns > 64 {
		return shared.NewDomainError("INVALID_COLUMNS", "Columns must be between 24 and 64")
	}
	return nil
}

// ScaleConfig describes the checkout scale and weighted barcodes
type ScaleConfig struct {
	Enabled      bool
	Model        string
	Port         string
	BaudRate     int
	Protocol     string
	WeightPrefix string
	UpdatedAt    time.Time
}

// DefaultScaleConfig is returned when no scale was configured
func DefaultScaleConfig() ScaleConfig {
	return ScaleConfig{
		Enabled:      false,
		Model:        "toledo",
		Port:         "COM1",
		BaudRate:     9600,
		Protocol:     "prt1",
		WeightPrefix: "2",
	}
}

// Validate checks the serial parameters
func (s ScaleConfig) Validate() error {
	switch s.BaudRate {
	case 2400, 4800, 9600, 19200, 38400, 57600, 115200:
	default:
		return shared.NewDomainError("INVALID_BAUD_RATE", "Unsupported baud rate")
	}
	if s.Enabled && strings.TrimSpace(s.Port) == "" {
		return shared.NewDomainError("INVALID_PORT", "Port is required when the scale is enabled")
	}
	if len(s.WeightPrefix) > 2 {
		return shared.NewDomainError("INVALID_PREFIX", "Weight prefix cannot exceed 2 characters")
	}
	return nil
}

// Repository reads and upserts the configuration singletons. Get methods
// return shared.ErrNotFound when no row exists.
type Repository interface {
	GetCompanyInfo(ctx context.Context) (*CompanyInfo, error)
	SaveCompanyInfo(ctx context.Context, info *CompanyInfo) error

	GetPrinterConfig(ctx context.Context) (*PrinterConfig, error)
	SavePrinterConfig(ctx context.Context, cfg *PrinterConfig) error

	GetScaleConfig(ctx context.Context) (*ScaleConfig, error)
	SaveScaleConfig(ctx context.Context, cfg *ScaleConfig) error
}

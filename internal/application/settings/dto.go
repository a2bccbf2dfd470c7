package settings

import (
	"time"

	"github.com/pdv/backend/internal/domain/settings"
)

// CompanyInfoRequest is the body of POST /settings/company-info
type CompanyInfoRequest struct {
	Name              string `json:"name" binding:"required,min=1,max=200"`
	TradeName         string `json:"tradeName" binding:"max=200"`
	TaxID             string `json:"taxId" binding:"max=20"`
	StateRegistration string `json:"stateRegistration" binding:"max=30"`
	Address           string `json:"address" binding:"max=300"`
	City              string `json:"city" binding:"max=100"`
	State             string `json:"state" binding:"omitempty,len=2"`
	ZipCode           string `json:"zipCode" binding:"max=10"`
	Phone             string `json:"phone" binding:"max=30"`
	Email             string `json:"email" binding:"omitempty,email"`
	ReceiptFooter     string `json:"receiptFooter" binding:"max=500"`
}

// PrinterConfigRequest is the body of POST /settings/printer
type PrinterConfigRequest struct {
	Enabled      bool   `json:"enabled"`
	Model        string `json:"model" binding:"max=50"`
	PaperWidthMM int    `json:"paperWidthMm" binding:"required,oneof=58 80"`
	Columns      int    `json:"columns" binding:"required,min=24,max=64"`
	Copies       int    `json:"copies" binding:"required,min=1,max=5"`
	AutoPrint    bool   `json:"autoPrint"`
	CutPaper     bool   `json:"cutPaper"`
}

// ScaleConfigRequest is the body of POST /settings/scale
type ScaleConfigRequest struct {
	Enabled      bool   `json:"enabled"`
	Model        string `json:"model" binding:"max=50"`
	Port         string `json:"port" binding:"max=50"`
	BaudRate     int    `json:"baudRate" binding:"required"`
	Protocol     string `json:"protocol" binding:"max=20"`
	WeightPrefix string `json:"weightPrefix" binding:"max=2"`
}

// CompanyInfoResponse is the company info with a temporary logo URL
type CompanyInfoResponse struct {
	Name              string     `json:"name"`
	TradeName         string     `json:"tradeName"`
	TaxID             string     `json:"taxId"`
	StateRegistration string     `json:"stateRegistration"`
	Address           string     `json:"address"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	ZipCode           string     `json:"zipCode"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email"`
	LogoKey           string     `json:"logoKey,omitempty"`
	LogoURL           string     `json:"logoUrl,omitempty"`
	ReceiptFooter     string     `json:"receiptFooter"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// PrinterConfigResponse represents the printer configuration
type PrinterConfigResponse struct {
	Enabled      bool       `json:"enabled"`
	Model        string     `json:"model"`
	PaperWidthMM int        `json:"paperWidthMm"`
	Columns      int        `json:"columns"`
	Copies       int        `json:"copies"`
	AutoPrint    bool       `json:"autoPrint"`
	CutPaper     bool       `json:"cutPaper"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// ScaleConfigResponse represents the scale configuration
type ScaleConfigResponse struct {
	Enabled      bool       `json:"enabled"`
	Model        string     `json:"model"`
	Port         string     `json:"port"`
	BaudRate     int        `json:"baudRate"`
	Protocol     string     `json:"protocol"`
	WeightPrefix string     `json:"weightPrefix"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// CompanyInfoChange carries company info before and after a save
type CompanyInfoChange struct {
	Before CompanyInfoResponse
	After  CompanyInfoResponse
}

// PrinterConfigChange carries the printer configuration before and after a save
type PrinterConfigChange struct {
	Before PrinterConfigResponse
	After  PrinterConfigResponse
}

// ScaleConfigChange carries the scale configuration before and after a save
type ScaleConfigChange struct {
	Before ScaleConfigResponse
	After  ScaleConfigResponse
}

func updatedAt(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ToCompanyInfoResponse converts company info; logoURL may be empty
func ToCompanyInfoResponse(c settings.CompanyInfo, logoURL string) CompanyInfoResponse {
	return CompanyInfoResponse{
		Name:              c.Name,
		TradeName:         c.TradeName,
		TaxID:             c.TaxID,
		StateRegistration: c.StateRegistration,
		Address:           c.Address,
		City:              c.City,
		State:             c.State,
		ZipCode:           c.ZipCode,
		Phone:             c.Phone,
		Email:             c.Email,
		LogoKey:           c.LogoKey,
		LogoURL:           logoURL,
		ReceiptFooter:     c.ReceiptFooter,
		UpdatedAt:         updatedAt(c.UpdatedAt),
	}
}

// ToPrinterConfigResponse converts a printer configuration
func ToPrinterConfigResponse(p settings.PrinterConfig) PrinterConfigResponse {
	return PrinterConfigResponse{
		Enabled:      p.Enabled,
		Model:        p.Model,
		PaperWidthMM: p.PaperWidthMM,
		Columns:      p.Columns,
		Copies:       p.Copies,
		AutoPrint:    p.AutoPrint,
		CutPaper:     p.CutPaper,
		UpdatedAt:    updatedAt(p.UpdatedAt),
	}
}

// ToScaleConfigResponse converts a scale configuration
func ToScaleConfigResponse(s settings.ScaleConfig) ScaleConfigResponse {
	return ScaleConfigResponse{
		Enabled:      s.Enabled,
		Model:        s.Model,
		Port:         s.Port,
		BaudRate:     s.BaudRate,
		Protocol:     s.Protocol,
		WeightPrefix: s.WeightPrefix,
		UpdatedAt:    updatedAt(s.UpdatedAt),
	}
}

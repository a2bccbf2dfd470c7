package models

import "github.com/pdv/backend/internal/domain/settings"

// CompanyInfoModel is the single row of company_info.
type CompanyInfoModel struct {
	SingletonModel
	Name              string `gorm:"type:varchar(200);not null"`
	TradeName         string `gorm:"type:varchar(200)"`
	TaxID             string `gorm:"column:tax_id;type:varchar(20)"`
	StateRegistration string `gorm:"type:varchar(30)"`
	Address           string `gorm:"type:varchar(300)"`
	City              string `gorm:"type:varchar(100)"`
	State             string `gorm:"type:varchar(2)"`
	ZipCode           string `gorm:"type:varchar(10)"`
	Phone             string `gorm:"type:varchar(30)"`
	Email             string `gorm:"type:varchar(200)"`
	LogoKey           string `gorm:"type:varchar(300)"`
	ReceiptFooter     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CompanyInfoModel) TableName() string {
	return "company_info"
}

// ToDomain converts the row to domain CompanyInfo
func (m *CompanyInfoModel) ToDomain() *settings.CompanyInfo {
	return &settings.CompanyInfo{
		Name:              m.Name,
		TradeName:         m.TradeName,
		TaxID:             m.TaxID,
		StateRegistration: m.StateRegistration,
		Address:           m.Address,
		City:              m.City,
		State:             m.State,
		ZipCode:           m.ZipCode,
		Phone:             m.Phone,
		Email:             m.Email,
		LogoKey:           m.LogoKey,
		ReceiptFooter:     m.ReceiptFooter,
		UpdatedAt:         m.UpdatedAt,
	}
}

// CompanyInfoModelFromDomain creates an insertable row from domain CompanyInfo
func CompanyInfoModelFromDomain(c *settings.CompanyInfo) *CompanyInfoModel {
	return &CompanyInfoModel{
		SingletonModel:    newSingleton(),
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
		ReceiptFooter:     c.ReceiptFooter,
	}
}

// PrinterConfigModel is the single row of printer_config.
type PrinterConfigModel struct {
	SingletonModel
	Enabled      bool   `gorm:"not null"`
	Model        string `gorm:"type:varchar(100)"`
	PaperWidthMM int    `gorm:"column:paper_width_mm;not null"`
	Columns      int    `gorm:"column:columns_count;not null"`
	Copies       int    `gorm:"not null"`
	AutoPrint    bool   `gorm:"not null"`
	CutPaper     bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PrinterConfigModel) TableName() string {
	return "printer_config"
}

// ToDomain converts the row to domain PrinterConfig
func (m *PrinterConfigModel) ToDomain() *settings.PrinterConfig {
	return &settings.PrinterConfig{
		Enabled:      m.Enabled,
		Model:        m.Model,
		PaperWidthMM: m.PaperWidthMM,
		Columns:      m.Columns,
		Copies:       m.Copies,
		AutoPrint:    m.AutoPrint,
		CutPaper:     m.CutPaper,
		UpdatedAt:    m.UpdatedAt,
	}
}

// PrinterConfigModelFromDomain creates an insertable row from domain PrinterConfig
func PrinterConfigModelFromDomain(p *settings.PrinterConfig) *PrinterConfigModel {
	return &PrinterConfigModel{
		SingletonModel: newSingleton(),
		Enabled:        p.Enabled,
		Model:          p.Model,
		PaperWidthMM:   p.PaperWidthMM,
		Columns:        p.Columns,
		Copies:         p.Copies,
		AutoPrint:      p.AutoPrint,
		CutPaper:       p.CutPaper,
	}
}

// ScaleConfigModel is the single row of scale_config.
type ScaleConfigModel struct {
	SingletonModel
	Enabled      bool   `gorm:"not null"`
	Model        string `gorm:"type:varchar(100)"`
	Port         string `gorm:"type:varchar(50)"`
	BaudRate     int    `gorm:"not null"`
	Protocol     string `gorm:"type:varchar(50)"`
	WeightPrefix string `gorm:"type:varchar(2)"`
}

// TableName returns the table name for GORM
func (ScaleConfigModel) TableName() string {
	return "scale_config"
}

// ToDomain converts the row to domain ScaleConfig
func (m *ScaleConfigModel) ToDomain() *settings.ScaleConfig {
	return &settings.ScaleConfig{
		Enabled:      m.Enabled,
		Model:        m.Model,
		Port:         m.Port,
		BaudRate:     m.BaudRate,
		Protocol:     m.Protocol,
		WeightPrefix: m.WeightPrefix,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ScaleConfigModelFromDomain creates an insertable row from domain ScaleConfig
func ScaleConfigModelFromDomain(s *settings.ScaleConfig) *ScaleConfigModel {
	return &ScaleConfigModel{
		SingletonModel: newSingleton(),
		Enabled:        s.Enabled,
		Model:          s.Model,
		Port:           s.Port,
		BaudRate:       s.BaudRate,
		Protocol:       s.Protocol,
		WeightPrefix:   s.WeightPrefix,
	}
}

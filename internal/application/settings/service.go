// Package settings implements the company, printer and scale configuration
// use cases and the company logo upload.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/settings"
	"github.com/pdv/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorage stores binary objects and hands out temporary read URLs
type ObjectStorage interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignGet(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// DefaultMaxLogoSize bounds logo uploads when no limit is configured
const DefaultMaxLogoSize int64 = 2 << 20

var logoExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

var (
	ErrStorageDisabled  = shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	ErrUnsupportedImage = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Logo must be a PNG, JPEG or WebP image")
	ErrFileTooLarge     = shared.NewDomainError("FILE_TOO_LARGE", "Logo file is too large")
)

// Service reads and saves the configuration singletons
type Service struct {
	repo        settings.Repository
	storage     ObjectStorage
	maxLogoSize int64
	logger      *zap.Logger
}

// NewService creates a new Service. storage may be nil, which disables logo uploads.
func NewService(repo settings.Repository, storage ObjectStorage, maxLogoSize int64, logger *zap.Logger) *Service {
	if maxLogoSize <= 0 {
		maxLogoSize = DefaultMaxLogoSize
	}
	return &Service{
		repo:        repo,
		storage:     storage,
		maxLogoSize: maxLogoSize,
		logger:      logger,
	}
}

// CompanyInfo returns the saved company info, or the defaults when none was saved
func (s *Service) CompanyInfo(ctx context.Context) (settings.CompanyInfo, error) {
	info, err := s.repo.GetCompanyInfo(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.DefaultCompanyInfo(), nil
	}
	if err != nil {
		return settings.CompanyInfo{}, err
	}
	return *info, nil
}

// PrinterConfig returns the saved printer configuration, or the defaults
func (s *Service) PrinterConfig(ctx context.Context) (settings.PrinterConfig, error) {
	cfg, err := s.repo.GetPrinterConfig(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.DefaultPrinterConfig(), nil
	}
	if err != nil {
		return settings.PrinterConfig{}, err
	}
	return *cfg, nil
}

// ScaleConfig returns the saved scale configuration, or the defaults
func (s *Service) ScaleConfig(ctx context.Context) (settings.ScaleConfig, error) {
	cfg, err := s.repo.GetScaleConfig(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return settings.DefaultScaleConfig(), nil
	}
	if err != nil {
		return settings.ScaleConfig{}, err
	}
	return *cfg, nil
}

// LogoURL presigns the logo key. Failures are logged and yield "".
func (s *Service) LogoURL(ctx context.Context, key string) string {
	if key == "" || s.storage == nil {
		return ""
	}
	url, err := s.storage.PresignGet(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to presign logo URL", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}

// GetCompanyInfo returns the company info with a presigned logo URL
func (s *Service) GetCompanyInfo(ctx context.Context) (*CompanyInfoResponse, error) {
	info, err := s.CompanyInfo(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyInfoResponse(info, s.LogoURL(ctx, info.LogoKey))
	return &resp, nil
}

// SaveCompanyInfo upserts the company info. The stored logo is kept.
func (s *Service) SaveCompanyInfo(ctx context.Context, req CompanyInfoRequest) (*CompanyInfoChange, error) {
	current, err := s.CompanyInfo(ctx)
	if err != nil {
		return nil, err
	}
	before := ToCompanyInfoResponse(current, "")

	next := settings.CompanyInfo{
		Name:              strings.TrimSpace(req.Name),
		TradeName:         strings.TrimSpace(req.TradeName),
		TaxID:             strings.TrimSpace(req.TaxID),
		StateRegistration: strings.TrimSpace(req.StateRegistration),
		Address:           strings.TrimSpace(req.Address),
		City:              strings.TrimSpace(req.City),
		State:             strings.ToUpper(strings.TrimSpace(req.State)),
		ZipCode:           strings.TrimSpace(req.ZipCode),
		Phone:             strings.TrimSpace(req.Phone),
		Email:             strings.TrimSpace(req.Email),
		LogoKey:           current.LogoKey,
		ReceiptFooter:     strings.TrimSpace(req.ReceiptFooter),
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCompanyInfo(ctx, &next); err != nil {
		return nil, err
	}

	s.logger.Info("Company info saved", zap.String("name", next.Name))
	return &CompanyInfoChange{Before: before, After: ToCompanyInfoResponse(next, s.LogoURL(ctx, next.LogoKey))}, nil
}

// UploadLogo stores a new company logo and points the company info at it.
// The previous logo object is removed once the new key is saved.
func (s *Service) UploadLogo(ctx context.Context, contentType string, size int64, body io.Reader) (*CompanyInfoChange, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	ext, ok := logoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, ErrUnsupportedImage
	}
	if size <= 0 || size > s.maxLogoSize {
		return nil, shared.NewDomainError(ErrFileTooLarge.Code,
			fmt.Sprintf("Logo must be between 1 byte and %d KB", s.maxLogoSize>>10))
	}

	current, err := s.CompanyInfo(ctx)
	if err != nil {
		return nil, err
	}
	before := ToCompanyInfoResponse(current, "")

	key := fmt.Sprintf("company/logo-%s.%s", uuid.NewString(), ext)
	if err := s.storage.PutObject(ctx, key, contentType, io.LimitReader(body, size), size); err != nil {
		return nil, fmt.Errorf("store logo: %w", err)
	}

	next := current
	next.LogoKey = key
	if err := s.repo.SaveCompanyInfo(ctx, &next); err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphan logo", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	if current.LogoKey != "" {
		if err := s.storage.DeleteObject(ctx, current.LogoKey); err != nil {
			s.logger.Warn("Failed to remove previous logo", zap.String("key", current.LogoKey), zap.Error(err))
		}
	}

	s.logger.Info("Company logo uploaded", zap.String("key", key), zap.Int64("size", size))
	return &CompanyInfoChange{Before: before, After: ToCompanyInfoResponse(next, s.LogoURL(ctx, key))}, nil
}

// GetPrinterConfig returns the printer configuration
func (s *Service) GetPrinterConfig(ctx context.Context) (*PrinterConfigResponse, error) {
	cfg, err := s.PrinterConfig(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToPrinterConfigResponse(cfg)
	return &resp, nil
}

// SavePrinterConfig upserts the printer configuration
func (s *Service) SavePrinterConfig(ctx context.Context, req PrinterConfigRequest) (*PrinterConfigChange, error) {
	current, err := s.PrinterConfig(ctx)
	if err != nil {
		return nil, err
	}
	next := settings.PrinterConfig{
		Enabled:      req.Enabled,
		Model:        strings.TrimSpace(req.Model),
		PaperWidthMM: req.PaperWidthMM,
		Columns:      req.Columns,
		Copies:       req.Copies,
		AutoPrint:    req.AutoPrint,
		CutPaper:     req.CutPaper,
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SavePrinterConfig(ctx, &next); err != nil {
		return nil, err
	}
	s.logger.Info("Printer config saved", zap.Int("paper_width_mm", next.PaperWidthMM))
	return &PrinterConfigChange{Before: ToPrinterConfigResponse(current), After: ToPrinterConfigResponse(next)}, nil
}

// GetScaleConfig returns the scale configuration
func (s *Service) GetScaleConfig(ctx context.Context) (*ScaleConfigResponse, error) {
	cfg, err := s.ScaleConfig(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToScaleConfigResponse(cfg)
	return &resp, nil
}

// SaveScaleConfig upserts the scale configuration
func (s *Service) SaveScaleConfig(ctx context.Context, req ScaleConfigRequest) (*ScaleConfigChange, error) {
	current, err := s.ScaleConfig(ctx)
	if err != nil {
		return nil, err
	}
	next := settings.ScaleConfig{
		Enabled:      req.Enabled,
		Model:        strings.TrimSpace(req.Model),
		Port:         strings.TrimSpace(req.Port),
		BaudRate:     req.BaudRate,
		Protocol:     strings.TrimSpace(req.Protocol),
		WeightPrefix: strings.TrimSpace(req.WeightPrefix),
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveScaleConfig(ctx, &next); err != nil {
		return nil, err
	}
	s.logger.Info("Scale config saved", zap.Bool("enabled", next.Enabled))
	return &ScaleConfigChange{Before: ToScaleConfigResponse(current), After: ToScaleConfigResponse(next)}, nil
}

package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	settingsapp "github.com/pdv/backend/internal/application/settings"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// LogoFormField is the multipart field carrying the company logo
const LogoFormField = "logo"

// SettingsHandler handles the company, printer and scale settings
type SettingsHandler struct {
	BaseHandler
	service *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetCompanyInfo godoc
// @ID           getCompanyInfo
// @Summary      Company info
// @Description  Returns the company info, or defaults when none was saved. The logo URL is temporary.
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[settingsapp.CompanyInfoResponse]
// @Router       /settings/company-info [get]
func (h *SettingsHandler) GetCompanyInfo(c *gin.Context) {
	info, err := h.service.GetCompanyInfo(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, info)
}

// SaveCompanyInfo godoc
// @ID           saveCompanyInfo
// @Summary      Save company info
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settingsapp.CompanyInfoRequest true "Company info"
// @Success      200 {object} APIResponse[settingsapp.CompanyInfoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/company-info [post]
func (h *SettingsHandler) SaveCompanyInfo(c *gin.Context) {
	var req settingsapp.CompanyInfoRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.service.SaveCompanyInfo(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, "company_info")
	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}

// UploadLogo godoc
// @ID           uploadCompanyLogo
// @Summary      Upload the company logo
// @Description  Stores a PNG, JPEG or WebP logo in object storage
// @Tags         settings
// @Accept       multipart/form-data
// @Produce      json
// @Param        logo formData file true "Logo image"
// @Success      200 {object} APIResponse[settingsapp.CompanyInfoResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/company-info/logo [post]
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	header, err := c.FormFile(LogoFormField)
	if err != nil {
		middleware.AbortWithValidationError(c, LogoFormField, "A logo file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.Error(c, err)
		return
	}
	defer file.Close()

	// The declared part type is not trusted; the content decides.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		h.Error(c, err)
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	change, err := h.service.UploadLogo(c.Request.Context(), contentType, header.Size,
		io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, "company_info")
	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}

// GetPrinterConfig godoc
// @ID           getPrinterConfig
// @Summary      Printer configuration
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[settingsapp.PrinterConfigResponse]
// @Security     BearerAuth
// @Router       /settings/printer [get]
func (h *SettingsHandler) GetPrinterConfig(c *gin.Context) {
	cfg, err := h.service.GetPrinterConfig(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cfg)
}

// SavePrinterConfig godoc
// @ID           savePrinterConfig
// @Summary      Save the printer configuration
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settingsapp.PrinterConfigRequest true "Printer configuration"
// @Success      200 {object} APIResponse[settingsapp.PrinterConfigResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/printer [post]
func (h *SettingsHandler) SavePrinterConfig(c *gin.Context) {
	var req settingsapp.PrinterConfigRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.service.SavePrinterConfig(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, "printer_config")
	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}

// GetScaleConfig godoc
// @ID           getScaleConfig
// @Summary      Scale configuration
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[settingsapp.ScaleConfigResponse]
// @Security     BearerAuth
// @Router       /settings/scale [get]
func (h *SettingsHandler) GetScaleConfig(c *gin.Context) {
	cfg, err := h.service.GetScaleConfig(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cfg)
}

// SaveScaleConfig godoc
// @ID           saveScaleConfig
// @Summary      Save the scale configuration
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body settingsapp.ScaleConfigRequest true "Scale configuration"
// @Success      200 {object} APIResponse[settingsapp.ScaleConfigResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/scale [post]
func (h *SettingsHandler) SaveScaleConfig(c *gin.Context) {
	var req settingsapp.ScaleConfigRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.service.SaveScaleConfig(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, "scale_config")
	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}

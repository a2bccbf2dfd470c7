package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pdv/backend/internal/domain/audit"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/interfaces/http/handler"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// Handlers groups the HTTP handlers served under /api/v1
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Product     *handler.ProductHandler
	Sale        *handler.SaleHandler
	Transaction *handler.FinancialTransactionHandler
	Payable     *handler.PayableHandler
	Receivable  *handler.ReceivableHandler
	Report      *handler.ReportHandler
	Settings    *handler.SettingsHandler
	AuditLog    *handler.AuditLogHandler
	System      *handler.SystemHandler
}

// Guards are the cross-cutting stages the route table composes. Recorder
// receives one audit entry per successful mutation; a nil LoginLimit leaves
// POST /auth/login unthrottled.
type Guards struct {
	Authenticate gin.HandlerFunc
	Recorder     middleware.AuditRecorder
	LoginLimit   gin.HandlerFunc
}

// routes builds the route table. Every mutation runs
// authenticate -> authorize -> audit -> handler, validation happening inside
// the handler before any state is touched.
type routes struct {
	h Handlers
	g Guards
}

func (rt routes) audited(entity, verb string) gin.HandlerFunc {
	return middleware.Audit(rt.g.Recorder, audit.NewAction(entity, verb))
}

func can(p identity.Permission) gin.HandlerFunc {
	return middleware.RequirePermission(p)
}

// RegisterAPI registers every PDV route group on r
func RegisterAPI(r *Router, h Handlers, g Guards) {
	rt := routes{h: h, g: g}
	r.Register(rt.auth()).
		Register(rt.users()).
		Register(rt.products()).
		Register(rt.sales()).
		Register(rt.financial()).
		Register(rt.reports()).
		Register(rt.settings()).
		Register(rt.auditLogs()).
		Register(rt.system())
}

func (rt routes) auth() *DomainGroup {
	h := rt.h.Auth
	g := NewDomainGroup("auth", "/auth")

	login := []gin.HandlerFunc{rt.audited(audit.EntityUser, audit.VerbLogin), h.Login}
	if rt.g.LoginLimit != nil {
		login = append([]gin.HandlerFunc{rt.g.LoginLimit}, login...)
	}
	g.POST("/login", login...)
	g.POST("/refresh", rt.audited(audit.EntityUser, audit.VerbRefresh), h.Refresh)

	g.POST("/logout", rt.g.Authenticate, rt.audited(audit.EntityUser, audit.VerbLogout), h.Logout)
	g.GET("/me", rt.g.Authenticate, h.Me)
	g.POST("/change-password", rt.g.Authenticate,
		rt.audited(audit.EntityUser, audit.VerbPassword), h.ChangePassword)
	g.POST("/register", rt.g.Authenticate, can(identity.PermUserRegister),
		rt.audited(audit.EntityUser, audit.VerbCreate), h.Register)
	return g
}

func (rt routes) users() *DomainGroup {
	h := rt.h.User
	g := NewDomainGroup("users", "/users").Use(rt.g.Authenticate)
	g.GET("", can(identity.PermUserRead), h.List)
	g.GET("/:id", can(identity.PermUserRead), h.Get)
	g.PATCH("/:id/status", can(identity.PermUserManage),
		rt.audited(audit.EntityUser, audit.VerbUpdate), h.UpdateStatus)
	return g
}

func (rt routes) products() *DomainGroup {
	h := rt.h.Product
	g := NewDomainGroup("products", "/products").Use(rt.g.Authenticate)
	g.GET("", can(identity.PermProductRead), h.List)
	g.GET("/:id", can(identity.PermProductRead), h.GetByID)
	g.POST("", can(identity.PermProductWrite),
		rt.audited(audit.EntityProduct, audit.VerbCreate), h.Create)
	g.PUT("/:id", can(identity.PermProductWrite),
		rt.audited(audit.EntityProduct, audit.VerbUpdate), h.Update)
	g.PATCH("/:id/status", can(identity.PermProductWrite),
		rt.audited(audit.EntityProduct, audit.VerbUpdate), h.UpdateStatus)
	return g
}

func (rt routes) sales() *DomainGroup {
	h := rt.h.Sale
	g := NewDomainGroup("sales", "/sales").Use(rt.g.Authenticate)
	g.GET("", can(identity.PermSaleRead), h.List)
	g.GET("/:id", can(identity.PermSaleRead), h.GetByID)
	g.GET("/:id/receipt", can(identity.PermSaleRead), h.Receipt)
	g.POST("", can(identity.PermSaleCreate),
		rt.audited(audit.EntitySale, audit.VerbCreate), h.Create)
	g.POST("/:id/cancel", can(identity.PermSaleCancel),
		rt.audited(audit.EntitySale, audit.VerbCancel), h.Cancel)
	g.POST("/:id/reopen", can(identity.PermSaleCancel),
		rt.audited(audit.EntitySale, audit.VerbReopen), h.Reopen)
	g.POST("/:id/complete", can(identity.PermSaleCancel),
		rt.audited(audit.EntitySale, audit.VerbComplete), h.Complete)
	return g
}

func (rt routes) financial() *DomainGroup {
	read, write := can(identity.PermFinanceRead), can(identity.PermFinanceWrite)
	g := NewDomainGroup("financial", "/financial").Use(rt.g.Authenticate)

	tx := rt.h.Transaction
	txs := g.Group("financial-transactions", "/transactions")
	txs.GET("", read, tx.List)
	txs.GET("/:id", read, tx.GetByID)
	txs.POST("", write, rt.audited(audit.EntityFinancialTransaction, audit.VerbCreate), tx.Create)
	txs.PUT("/:id", write, rt.audited(audit.EntityFinancialTransaction, audit.VerbUpdate), tx.Update)
	txs.POST("/:id/settle", write, rt.audited(audit.EntityFinancialTransaction, audit.VerbSettle), tx.Settle)
	txs.POST("/:id/cancel", write, rt.audited(audit.EntityFinancialTransaction, audit.VerbCancel), tx.Cancel)

	ap := rt.h.Payable
	payables := g.Group("payables", "/payables")
	payables.GET("", read, ap.List)
	payables.GET("/:id", read, ap.GetByID)
	payables.POST("", write, rt.audited(audit.EntityPayable, audit.VerbCreate), ap.Create)
	payables.PUT("/:id", write, rt.audited(audit.EntityPayable, audit.VerbUpdate), ap.Update)
	payables.POST("/:id/payments", write, rt.audited(audit.EntityPayable, audit.VerbPayment), ap.RecordPayment)
	payables.POST("/:id/cancel", write, rt.audited(audit.EntityPayable, audit.VerbCancel), ap.Cancel)

	ar := rt.h.Receivable
	receivables := g.Group("receivables", "/receivables")
	receivables.GET("", read, ar.List)
	receivables.GET("/:id", read, ar.GetByID)
	receivables.POST("", write, rt.audited(audit.EntityReceivable, audit.VerbCreate), ar.Create)
	receivables.PUT("/:id", write, rt.audited(audit.EntityReceivable, audit.VerbUpdate), ar.Update)
	receivables.POST("/:id/receipts", write, rt.audited(audit.EntityReceivable, audit.VerbReceipt), ar.RecordReceipt)
	receivables.POST("/:id/cancel", write, rt.audited(audit.EntityReceivable, audit.VerbCancel), ar.Cancel)

	rep := rt.h.Report
	reports := g.Group("financial-reports", "/reports").Use(can(identity.PermReportView))
	reports.GET("/dre", rep.DRE)
	reports.GET("/cash-flow", rep.CashFlow)
	reports.GET("/comparative", rep.Comparative)
	return g
}

func (rt routes) reports() *DomainGroup {
	h := rt.h.Report
	g := NewDomainGroup("reports", "/reports").Use(rt.g.Authenticate, can(identity.PermReportView))
	g.GET("/products/ranking", h.ProductRanking)
	g.GET("/products/abc", h.ABCCurve)
	g.GET("/products/timeseries", h.TimeSeries)
	return g
}

func (rt routes) settings() *DomainGroup {
	h := rt.h.Settings
	auth := rt.g.Authenticate
	g := NewDomainGroup("settings", "/settings")
	g.GET("/company-info", h.GetCompanyInfo)
	g.POST("/company-info", auth, can(identity.PermSettingsWrite),
		rt.audited(audit.EntityCompanyInfo, audit.VerbUpdate), h.SaveCompanyInfo)
	g.POST("/company-info/logo", auth, can(identity.PermSettingsWrite),
		rt.audited(audit.EntityCompanyInfo, audit.VerbUpdate), h.UploadLogo)
	g.GET("/printer", auth, can(identity.PermSettingsRead), h.GetPrinterConfig)
	g.POST("/printer", auth, can(identity.PermSettingsWrite),
		rt.audited(audit.EntityPrinterConfig, audit.VerbUpdate), h.SavePrinterConfig)
	g.GET("/scale", auth, can(identity.PermSettingsRead), h.GetScaleConfig)
	g.POST("/scale", auth, can(identity.PermSettingsWrite),
		rt.audited(audit.EntityScaleConfig, audit.VerbUpdate), h.SaveScaleConfig)
	return g
}

func (rt routes) auditLogs() *DomainGroup {
	h := rt.h.AuditLog
	g := NewDomainGroup("audit-logs", "/audit-logs").Use(rt.g.Authenticate, can(identity.PermAuditLogRead))
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	return g
}

func (rt routes) system() *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", rt.h.System.GetSystemInfo)
	return g
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/pdv/backend/docs"
	auditapp "github.com/pdv/backend/internal/application/audit"
	catalogapp "github.com/pdv/backend/internal/application/catalog"
	financeapp "github.com/pdv/backend/internal/application/finance"
	identityapp "github.com/pdv/backend/internal/application/identity"
	reportapp "github.com/pdv/backend/internal/application/report"
	salesapp "github.com/pdv/backend/internal/application/sales"
	settingsapp "github.com/pdv/backend/internal/application/settings"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/auth"
	"github.com/pdv/backend/internal/infrastructure/cache"
	"github.com/pdv/backend/internal/infrastructure/config"
	"github.com/pdv/backend/internal/infrastructure/logger"
	"github.com/pdv/backend/internal/infrastructure/metrics"
	"github.com/pdv/backend/internal/infrastructure/persistence"
	"github.com/pdv/backend/internal/infrastructure/printing"
	"github.com/pdv/backend/internal/infrastructure/storage"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"github.com/pdv/backend/internal/interfaces/http/handler"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
	"github.com/pdv/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// application holds everything main builds before serving and tears down after
type application struct {
	cfg *config.Config
	log *zap.Logger

	db          *persistence.Database
	redis       *redis.Client
	idempotency *cache.InMemoryIdempotencyStore
	chrome      *printing.ChromedpRenderer
	recorder    *auditapp.Recorder
	jwt         *auth.JWTService
	blacklist   auth.TokenBlacklist
	registry    *metrics.Registry
	loginLimit  *middleware.RateLimiter
	handlers    router.Handlers
}

func newApplication(ctx context.Context, cfg *config.Config, log *zap.Logger, meters *telemetry.MeterProvider) (*application, error) {
	app := &application{cfg: cfg, log: log}

	db, err := persistence.NewDatabase(cfg.Database, persistence.Options{
		Logger:               log,
		LogLevel:             logger.MapGormLogLevel(cfg.Log.Level),
		SlowThreshold:        200 * time.Millisecond,
		ParameterizedQueries: cfg.IsProduction(),
		Tracing: telemetry.DBTracingConfig{
			Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			DBName:     cfg.Database.DBName,
			LogFullSQL: !cfg.IsProduction(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	app.db = db
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.DBName),
	)

	var idempotency shared.IdempotencyStore
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		app.redis = client
		app.blacklist = auth.NewRedisTokenBlacklist(client)
		idempotency = cache.NewRedisIdempotencyStore(client, "pdv:idempotency:")
		log.Info("Redis connected", zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
	} else {
		app.blacklist = auth.NewInMemoryTokenBlacklist()
		app.idempotency = cache.NewInMemoryIdempotencyStore(time.Minute)
		idempotency = app.idempotency
		log.Warn("Redis disabled, token revocation and idempotency keys are kept in process memory")
	}

	// A nil interface disables logo uploads.
	var objects settingsapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, log)
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("initialize object storage: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Object storage bucket not verified", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		objects = s3
	}

	format, err := printing.NewFormatter(cfg.Printing.Locale, cfg.Printing.Currency)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("initialize receipt formatter: %w", err)
	}
	var pdf printing.PDFRenderer
	if cfg.Printing.ChromeEnabled {
		app.chrome = printing.NewChromedpRenderer(printing.ChromedpConfig{
			ExecPath:  cfg.Printing.ChromePath,
			Timeout:   cfg.Printing.RenderTimeout,
			NoSandbox: os.Geteuid() == 0,
			Logger:    log,
		})
		pdf = app.chrome
	} else {
		log.Info("Chrome disabled, receipts are served as HTML")
	}
	receipts, err := printing.NewReceiptRenderer(format, pdf, cfg.Location(), log)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("initialize receipt renderer: %w", err)
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(meters.Meter("pdv-backend"))
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("initialize business metrics: %w", err)
	}

	gdb := db.DB
	userRepo := persistence.NewGormUserRepository(gdb)
	productRepo := persistence.NewGormProductRepository(gdb)
	saleRepo := persistence.NewGormSaleRepository(gdb)
	auditRepo := persistence.NewGormAuditLogRepository(gdb)

	app.jwt = auth.NewJWTService(cfg.JWT)
	app.recorder = auditapp.NewRecorder(auditRepo, cfg.Audit.WriteTimeout, businessMetrics, log)

	userService := identityapp.NewUserService(userRepo, app.blacklist, cfg.JWT.RefreshTokenExpiration, log)
	settingsService := settingsapp.NewService(persistence.NewGormSettingsRepository(gdb), objects, cfg.Storage.MaxUploadSize, log)

	app.handlers = router.Handlers{
		Auth:    handler.NewAuthHandler(identityapp.NewAuthService(userRepo, app.jwt, app.blacklist, businessMetrics, log), userService),
		User:    handler.NewUserHandler(userService),
		Product: handler.NewProductHandler(catalogapp.NewProductService(productRepo, log)),
		Sale: handler.NewSaleHandler(
			salesapp.NewSaleService(saleRepo, productRepo, idempotency, businessMetrics, log),
			salesapp.NewReceiptService(saleRepo, userRepo, settingsService, receipts, log),
		),
		Transaction: handler.NewFinancialTransactionHandler(
			financeapp.NewTransactionService(persistence.NewGormFinancialTransactionRepository(gdb), businessMetrics, log)),
		Payable: handler.NewPayableHandler(
			financeapp.NewPayableService(persistence.NewGormAccountPayableRepository(gdb), businessMetrics, log)),
		Receivable: handler.NewReceivableHandler(
			financeapp.NewReceivableService(persistence.NewGormAccountReceivableRepository(gdb), businessMetrics, log)),
		Report:   handler.NewReportHandler(reportapp.NewService(persistence.NewGormReportQueryRepository(gdb), log)),
		Settings: handler.NewSettingsHandler(settingsService),
		AuditLog: handler.NewAuditLogHandler(auditapp.NewService(auditRepo)),
		System:   handler.NewSystemHandler(cfg.App.Name, version, app.healthChecks()),
	}

	app.registry = metrics.NewRegistry()
	if err := app.registry.RegisterGaugeFunc("audit", "pending_writes",
		"Audit entries accepted but not yet persisted",
		func() float64 { return float64(app.recorder.Pending()) }); err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("register audit gauge: %w", err)
	}

	return app, nil
}

func (a *application) healthChecks() map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": a.db.Ping,
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
	}
	return checks
}

// engine assembles the gin engine: global middleware, probes, metrics,
// API documentation and the /api/v1 route table.
func (a *application) engine(tracing, profiling bool) (*gin.Engine, error) {
	cfg := a.cfg
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(a.log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracing))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(a.log))
	if profiling {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Metrics.Enabled {
		engine.Use(middleware.HTTPMetrics(a.registry))
		engine.GET(cfg.Metrics.Path, gin.WrapH(a.registry.Handler()))
	}

	engine.GET("/health", a.handlers.System.Health)
	engine.GET("/ready", a.handlers.System.Ready)

	authenticate := middleware.Authenticate(a.jwt, a.blacklist, a.log)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, authenticate),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	guards := router.Guards{
		Authenticate: authenticate,
		Recorder:     a.recorder,
	}
	if cfg.HTTP.LoginRateLimit > 0 {
		a.loginLimit = middleware.NewRateLimiter(cfg.HTTP.LoginRateLimit, cfg.HTTP.LoginRateBurst, 10*time.Minute)
		guards.LoginLimit = middleware.RateLimit(a.loginLimit)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	router.RegisterAPI(r, a.handlers, guards)
	r.Setup()
	a.log.Debug("API routes registered", zap.Strings("routes", r.Routes()))

	a.log.Info("Routes registered", zap.Int("count", len(engine.Routes())))
	return engine, nil
}

// close releases resources in reverse order of acquisition. Pending audit
// writes are drained before the database goes away.
func (a *application) close(ctx context.Context) {
	if a.loginLimit != nil {
		a.loginLimit.Stop()
	}
	if a.recorder != nil {
		if err := a.recorder.Close(ctx); err != nil {
			a.log.Error("Audit recorder did not drain", zap.Error(err))
		}
	}
	if a.chrome != nil {
		a.chrome.Close()
	}
	if a.idempotency != nil {
		_ = a.idempotency.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close database", zap.Error(err))
		}
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pdv/backend/internal/infrastructure/config"
	"github.com/pdv/backend/internal/infrastructure/logger"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

//go:generate swag init -g main.go -d ./,../../internal/interfaces/http/handler,../../internal/application -o ../../docs

//	@title			PDV Backend API
//	@version		1.0
//	@description	Point-of-sale backend: catalog, sales, cash and finance, reports and store settings.

//	@contact.name	PDV Support
//	@contact.email	suporte@pdv.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()
	service := telemetry.Service{
		Name:        cfg.Telemetry.ServiceName,
		Version:     version,
		Environment: cfg.App.Env,
	}
	collector := telemetry.Collector{
		Endpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure: cfg.Telemetry.Insecure,
	}
	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog := logger.New(logCfg)

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:   cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		Collector: collector,
		Service:   service,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := logger.New(logCfg, logsProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PDV Backend",
		zap.String("app", cfg.App.Name),
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:       cfg.Telemetry.Enabled,
		Collector:     collector,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
		Service:       service,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:   cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		Collector: collector,
		Service:   service,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics exporter", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:       cfg.Telemetry.ProfilingEnabled,
		ServerAddress: cfg.Telemetry.PyroscopeURL,
		Service:       service,
	}, log)
	if err != nil {
		log.Warn("Profiler not started", zap.Error(err))
		profiler = &telemetry.Profiler{}
	}
	if profiler.IsRunning() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Span profiles not enabled", zap.Error(err))
		}
	}

	app, err := newApplication(ctx, cfg, log, meterProvider)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := app.engine(tracerProvider.IsEnabled(), profiler.IsRunning())
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	app.close(shutdownCtx)

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Tracer shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Meter shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Profiler shutdown failed", zap.Error(err))
	}
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Log exporter shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

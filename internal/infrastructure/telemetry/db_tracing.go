package telemetry

import (
	"errors"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls GORM instrumentation.
type DBTracingConfig struct {
	Enabled    bool
	DBName     string
	LogFullSQL bool // include bound variables in spans (development only)
}

// RegisterDBTracing installs the otelgorm plugin and a callback that tags
// spans with the table and rows affected.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("install otelgorm: %w", err)
	}

	cb := db.Callback()
	hooks := []struct {
		op       string
		callback interface {
			Register(name string, fn func(*gorm.DB)) error
		}
	}{
		{"create", cb.Create().After("gorm:create")},
		{"query", cb.Query().After("gorm:query")},
		{"update", cb.Update().After("gorm:update")},
		{"delete", cb.Delete().After("gorm:delete")},
	}
	for _, h := range hooks {
		if err := h.callback.Register("pdv:span_details_"+h.op, annotateSpan); err != nil {
			return fmt.Errorf("register %s span callback: %w", h.op, err)
		}
	}

	logger.Info("Database tracing enabled", zap.String("db_name", cfg.DBName))
	return nil
}

func annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
	}
}

package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when business metrics are built without a meter.
var ErrMeterNil = errors.New("telemetry: meter is nil")

var (
	attrPaymentMethod = attribute.Key("payment_method")
	attrEntityType    = attribute.Key("entity_type")
	attrAction        = attribute.Key("action")
	attrOutcome       = attribute.Key("outcome")
)

// saleAmountBuckets are ticket value boundaries in BRL.
var saleAmountBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// BusinessMetrics records point-of-sale activity. A nil *BusinessMetrics
// records nothing, so services may be built without one.
type BusinessMetrics struct {
	salesCreated       metric.Int64Counter
	salesCancelled     metric.Int64Counter
	salesReopened      metric.Int64Counter
	saleAmount         metric.Float64Histogram
	loginAttempts      metric.Int64Counter
	auditWritten       metric.Int64Counter
	auditWriteFailures metric.Int64Counter
	settlements        metric.Int64Counter
}

// instruments collects the first registration error so the constructor reads
// as a flat list.
type instruments struct {
	meter metric.Meter
	err   error
}

func (in *instruments) counter(name, description, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil && in.err == nil {
		in.err = err
	}
	return c
}

func (in *instruments) histogram(name, description, unit string, bounds []float64) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(bounds...),
	)
	if err != nil && in.err == nil {
		in.err = err
	}
	return h
}

// NewBusinessMetrics registers the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	in := &instruments{meter: meter}
	bm := &BusinessMetrics{
		salesCreated:       in.counter("pdv_sales_created_total", "Total number of sales registered", "{sales}"),
		salesCancelled:     in.counter("pdv_sales_cancelled_total", "Total number of sales cancelled", "{sales}"),
		salesReopened:      in.counter("pdv_sales_reopened_total", "Total number of cancelled sales reopened", "{sales}"),
		saleAmount:         in.histogram("pdv_sale_amount", "Distribution of sale totals", "BRL", saleAmountBuckets),
		loginAttempts:      in.counter("pdv_login_attempts_total", "Login attempts by outcome", "{attempts}"),
		auditWritten:       in.counter("pdv_audit_entries_written_total", "Audit entries persisted", "{entries}"),
		auditWriteFailures: in.counter("pdv_audit_write_failures_total", "Audit entries that failed to persist", "{entries}"),
		settlements:        in.counter("pdv_financial_settlements_total", "Payments and receipts recorded against financial titles", "{settlements}"),
	}
	if in.err != nil {
		return nil, in.err
	}
	return bm, nil
}

// RecordSaleCreated counts a completed sale and its total.
func (bm *BusinessMetrics) RecordSaleCreated(ctx context.Context, paymentMethod string, total decimal.Decimal) {
	if bm == nil {
		return
	}
	attrs := metric.WithAttributes(attrPaymentMethod.String(paymentMethod))
	bm.salesCreated.Add(ctx, 1, attrs)
	bm.saleAmount.Record(ctx, total.InexactFloat64(), attrs)
}

// RecordSaleCancelled counts a sale cancellation.
func (bm *BusinessMetrics) RecordSaleCancelled(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.salesCancelled.Add(ctx, 1)
}

// RecordSaleReopened counts a sale moved back to open.
func (bm *BusinessMetrics) RecordSaleReopened(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.salesReopened.Add(ctx, 1)
}

// RecordLogin counts a login attempt; outcome is "success" or a failure reason.
func (bm *BusinessMetrics) RecordLogin(ctx context.Context, outcome string) {
	if bm == nil {
		return
	}
	bm.loginAttempts.Add(ctx, 1, metric.WithAttributes(attrOutcome.String(outcome)))
}

// RecordAuditWrite counts an audit persistence attempt.
func (bm *BusinessMetrics) RecordAuditWrite(ctx context.Context, action string, err error) {
	if bm == nil {
		return
	}
	attrs := metric.WithAttributes(attrAction.String(action))
	if err != nil {
		bm.auditWriteFailures.Add(ctx, 1, attrs)
		return
	}
	bm.auditWritten.Add(ctx, 1, attrs)
}

// RecordSettlement counts a payment or receipt on a payable or receivable.
func (bm *BusinessMetrics) RecordSettlement(ctx context.Context, entityType string) {
	if bm == nil {
		return
	}
	bm.settlements.Add(ctx, 1, metric.WithAttributes(attrEntityType.String(entityType)))
}

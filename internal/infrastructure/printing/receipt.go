package printing

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	salesapp "github.com/pdv/backend/internal/application/sales"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/receipt.html
var receiptTemplate string

// PDFRenderer converts a self-contained HTML page to PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string, page PageSize) ([]byte, error)
}

// PageSize is a page in millimetres
type PageSize struct {
	WidthMM  float64
	HeightMM float64
}

var paymentLabels = map[sales.PaymentMethod]string{
	sales.PaymentCash:       "Dinheiro",
	sales.PaymentCreditCard: "Cartão de crédito",
	sales.PaymentDebitCard:  "Cartão de débito",
	sales.PaymentPix:        "PIX",
	sales.PaymentOther:      "Outros",
}

var statusLabels = map[sales.Status]string{
	sales.StatusOpen:      "EM ABERTO",
	sales.StatusCompleted: "",
	sales.StatusCancelled: "CANCELADA",
}

// ReceiptRenderer turns a sale into a printable receipt. Without a PDF
// renderer it returns the HTML page.
type ReceiptRenderer struct {
	tmpl     *template.Template
	format   *Formatter
	pdf      PDFRenderer
	location *time.Location
	logger   *zap.Logger
}

var _ salesapp.ReceiptRenderer = (*ReceiptRenderer)(nil)

// NewReceiptRenderer parses the receipt template. pdf may be nil.
func NewReceiptRenderer(format *Formatter, pdf PDFRenderer, loc *time.Location, logger *zap.Logger) (*ReceiptRenderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ReceiptRenderer{
		format:   format,
		pdf:      pdf,
		location: loc,
		logger:   logger.Named("receipt"),
	}

	tmpl, err := template.New("receipt").Funcs(template.FuncMap{
		"money":    format.Money,
		"qty":      format.Quantity,
		"upper":    upper,
		"datetime": r.datetime,
		"nonzero":  func(d decimal.Decimal) bool { return !d.IsZero() },
	}).Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse receipt template: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// upper builds a Caser per call; Casers are not safe for concurrent use.
func upper(s string) string {
	return cases.Upper(language.BrazilianPortuguese).String(s)
}

func (r *ReceiptRenderer) datetime(t time.Time) string {
	return t.In(r.location).Format("02/01/2006 15:04")
}

type receiptView struct {
	salesapp.ReceiptData
	Code         string
	PaymentLabel string
	StatusLabel  string
	PaperWidthMM int
	Columns      int
}

// RenderHTML renders the receipt page
func (r *ReceiptRenderer) RenderHTML(data salesapp.ReceiptData) (string, error) {
	if data.Sale == nil {
		return "", fmt.Errorf("receipt requires a sale")
	}
	if data.IssuedAt.IsZero() {
		data.IssuedAt = time.Now()
	}

	view := receiptView{
		ReceiptData:  data,
		Code:         data.Sale.Code(),
		PaymentLabel: paymentLabels[data.Sale.PaymentMethod],
		StatusLabel:  statusLabels[data.Sale.Status],
		PaperWidthMM: data.Printer.PaperWidthMM,
		Columns:      data.Printer.Columns,
	}
	if view.PaperWidthMM == 0 {
		view.PaperWidthMM = 80
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

// RenderReceipt implements salesapp.ReceiptRenderer
func (r *ReceiptRenderer) RenderReceipt(ctx context.Context, data salesapp.ReceiptData) (*salesapp.ReceiptDocument, error) {
	html, err := r.RenderHTML(data)
	if err != nil {
		return nil, err
	}

	code := data.Sale.Code()
	if r.pdf == nil {
		return &salesapp.ReceiptDocument{
			Filename:    code + ".html",
			ContentType: "text/html; charset=utf-8",
			Body:        []byte(html),
		}, nil
	}

	width := float64(data.Printer.PaperWidthMM)
	if width == 0 {
		width = 80
	}
	page := PageSize{WidthMM: width, HeightMM: receiptHeightMM(len(data.Sale.Items))}

	pdf, err := r.pdf.RenderPDF(ctx, html, page)
	if err != nil {
		r.logger.Error("Receipt PDF rendering failed", zap.String("sale", code), zap.Error(err))
		return nil, err
	}
	return &salesapp.ReceiptDocument{
		Filename:    code + ".pdf",
		ContentType: "application/pdf",
		Body:        pdf,
	}, nil
}

// receiptHeightMM estimates a roll length that fits the header, the items and the totals.
func receiptHeightMM(items int) float64 {
	return 110 + 9*float64(items)
}

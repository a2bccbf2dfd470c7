package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 30 * time.Second
	mmPerInch            = 25.4
	receiptMarginInch    = 0.08
)

// ErrRenderTimeout is returned when Chrome does not produce the PDF in time
var ErrRenderTimeout = errors.New("pdf rendering timed out")

// ChromedpConfig configures the headless Chrome renderer
type ChromedpConfig struct {
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup
	ExecPath string
	Timeout  time.Duration
	// NoSandbox is required when running as root inside containers
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromedpRenderer prints HTML to PDF through the Chrome DevTools Protocol.
// One browser process is shared; each render opens its own tab.
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)

// NewChromedpRenderer prepares the browser allocator. Chrome starts lazily on the first render.
func NewChromedpRenderer(cfg ChromedpConfig) *ChromedpRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRenderTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromedpRenderer{
		timeout:     cfg.Timeout,
		logger:      logger.Named("chromedp"),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// RenderPDF loads html into a blank tab and prints it on a page of the given size
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, html string, size PageSize) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, errors.New("html content is empty")
	}
	if size.WidthMM <= 0 || size.HeightMM <= 0 {
		return nil, fmt.Errorf("invalid page size %.0fx%.0fmm", size.WidthMM, size.HeightMM)
	}

	start := time.Now()
	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// the tab context descends from the allocator, so the caller's deadline must be applied here
	runCtx, cancel := context.WithTimeout(browserCtx, r.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(size.WidthMM / mmPerInch).
				WithPaperHeight(size.HeightMM / mmPerInch).
				WithMarginTop(receiptMarginInch).
				WithMarginBottom(receiptMarginInch).
				WithMarginLeft(receiptMarginInch).
				WithMarginRight(receiptMarginInch).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", ErrRenderTimeout, r.timeout)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("chromedp render: %w", err)
	}

	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

// Close shuts down the browser process
func (r *ChromedpRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

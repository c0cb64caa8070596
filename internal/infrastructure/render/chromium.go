package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 30 * time.Second
	minRenderTimeout     = 10 * time.Second
)

// EngineConfig configures the headless Chromium engine shared by the
// print-pdf and raster-png backends.
type EngineConfig struct {
	// DefaultTimeout for rendering operations (clamped to >= 10s,
	// default 30s)
	DefaultTimeout time.Duration
	// RemoteURL points at a remote Chromium instance. When empty a local
	// process is launched per render.
	RemoteURL string
	// NoSandbox runs Chromium without its sandbox (required in Docker or
	// as root); the sandbox stays on everywhere else.
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

func (c *EngineConfig) withDefaults() *EngineConfig {
	out := EngineConfig{}
	if c != nil {
		out = *c
	}
	if out.DefaultTimeout == 0 {
		out.DefaultTimeout = defaultRenderTimeout
	}
	if out.DefaultTimeout < minRenderTimeout {
		out.DefaultTimeout = minRenderTimeout
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	return &out
}

// engineSession holds one Chromium process scoped to a single render.
// cancel tears the whole process tree down; it must run on every exit
// path so a failed render can never leak a browser.
type engineSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// newEngineSession launches (or connects to) Chromium for one render.
func newEngineSession(ctx context.Context, cfg *EngineConfig) *engineSession {
	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL)
	} else {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-first-run", true),
			chromedp.Flag("disable-default-apps", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
			chromedp.Flag("disable-background-networking", true),
			chromedp.Flag("disable-sync", true),
			chromedp.Flag("disable-translate", true),
			chromedp.Flag("font-render-hinting", "none"),
		)
		if cfg.NoSandbox {
			opts = append(opts, chromedp.Flag("no-sandbox", true))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			cfg.Logger.Debug(fmt.Sprintf(format, args...))
		}),
	)

	return &engineSession{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}
}

// setContent loads the document HTML into the blank page.
func setContent(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		frameTree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
	})
}

// engineError maps a chromedp failure to the render error taxonomy. A
// timeout or cancellation means the engine was torn down mid-render and
// surfaces as engine unavailability.
func engineError(ctx context.Context, timeout time.Duration, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return NewRenderError(ErrCodeEngineUnavailable,
			fmt.Sprintf("rendering engine timed out after %v and was terminated", timeout), err)
	}
	if ctx.Err() == context.Canceled {
		return NewRenderError(ErrCodeEngineUnavailable, "rendering was cancelled", err)
	}
	return NewRenderError(ErrCodeEngineUnavailable, "rendering engine execution failed", err)
}

// PrintPDFRenderer produces the highest-fidelity PDF by printing the
// shared HTML layout through Chromium's print-to-PDF pipeline. Each call
// gets its own engine process; print state is not reentrant, so sessions
// are never shared between concurrent renders.
type PrintPDFRenderer struct {
	config *EngineConfig
	logger *zap.Logger
}

// NewPrintPDFRenderer creates the print-pdf backend
func NewPrintPDFRenderer(config *EngineConfig) *PrintPDFRenderer {
	cfg := config.withDefaults()
	return &PrintPDFRenderer{config: cfg, logger: cfg.Logger}
}

// Backend identifies the implementation
func (r *PrintPDFRenderer) Backend() Backend {
	return BackendPrintPDF
}

// Render prints the invoice to PDF
func (r *PrintPDFRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	html, err := BuildDocumentHTML(req)
	if err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	session := newEngineSession(ctx, r.config)
	defer session.cancel()

	var pdfData []byte
	err = chromedp.Run(session.ctx,
		chromedp.Navigate("about:blank"),
		setContent(html),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Margins live in the page CSS so the raster backend shows
			// them too; the print pipeline only fixes the paper size.
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(MMToInches(210)).
				WithPaperHeight(MMToInches(297)).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithScale(1.0).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		r.logger.Error("print-pdf rendering failed", zap.Error(err))
		return nil, engineError(ctx, timeout, err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeEncodingFailure, "generated PDF is empty", nil)
	}

	duration := time.Since(start)
	r.logger.Info("invoice printed to PDF",
		zap.String("invoice_number", req.Invoice.Number),
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", duration))

	return &RenderResult{
		Bytes:          pdfData,
		Filename:       SuggestedFilename(req.Invoice.Number, r.Backend().Extension()),
		MIMEType:       r.Backend().MIMEType(),
		Backend:        r.Backend(),
		RenderDuration: duration,
	}, nil
}

// Close releases resources held by the renderer. Engine processes are
// scoped per render, so there is nothing long-lived to tear down.
func (r *PrintPDFRenderer) Close() error {
	return nil
}

// Ensure PrintPDFRenderer implements DocumentRenderer
var _ DocumentRenderer = (*PrintPDFRenderer)(nil)

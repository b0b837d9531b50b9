package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	apperrors "acadpulse/internal/errors"
	"acadpulse/pkg/contracts/domain"
)

// A4 in inches
const (
	a4Width  = 8.27
	a4Height = 11.69
)

const defaultPDFTimeout = 30 * time.Second

// PDFRenderer prints the HTML letter to PDF with headless Chrome
type PDFRenderer struct {
	html       *HTMLRenderer
	chromePath string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewPDFRenderer creates a PDF renderer. An empty chromePath lets chromedp
// find a browser on the host; a non-positive timeout uses 30 seconds.
func NewPDFRenderer(html *HTMLRenderer, chromePath string, timeout time.Duration, logger *slog.Logger) *PDFRenderer {
	if timeout <= 0 {
		timeout = defaultPDFTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRenderer{
		html:       html,
		chromePath: chromePath,
		timeout:    timeout,
		logger:     logger.With(slog.String("component", "pdf_renderer")),
	}
}

// Format implements Renderer
func (r *PDFRenderer) Format() Format { return FormatPDF }

// Render implements Renderer. Each call starts its own browser.
func (r *PDFRenderer) Render(ctx context.Context, p *domain.StudentProfile) ([]byte, error) {
	doc, err := r.html.Render(ctx, p)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	if err := chromedp.Run(browserCtx, printHTML(string(doc), &pdf)); err != nil {
		return nil, apperrors.NewRenderError("failed to print report to PDF", err).
			WithContext("student_id", p.StudentID)
	}

	r.logger.DebugContext(ctx, "Rendered PDF report",
		slog.String("student_id", p.StudentID),
		slog.Int("bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return pdf, nil
}

// printHTML loads doc into a blank page and prints it on A4 with backgrounds
func printHTML(doc string, out *[]byte) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			*out = buf
			return nil
		}),
	}
}

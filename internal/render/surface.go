package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrAnchorNotFound means the off-screen document rendered but the expected
// certificate anchor element never appeared.
var ErrAnchorNotFound = errors.New("rendering anchor not found")

// wrapperSelector is the element raster capture targets. Templates without it
// fall back to the document body.
const wrapperSelector = ".certificate-wrapper"

// Surface is a scoped rendering target. Every operation acquires its own
// page, uses it, and tears it down on all exit paths, including errors and
// timeouts; nothing survives a call except the shared browser process.
type Surface interface {
	// PrintToPDF loads the document and runs the browser's print engine.
	PrintToPDF(ctx context.Context, html string) ([]byte, error)
	// Capture loads the document off-screen and rasterizes the element at
	// selector (falling back to body) at the given device-pixel ratio.
	Capture(ctx context.Context, html, selector string, pixelRatio float64) ([]byte, error)
	Close() error
}

// surfacePage is one disposable browser page. The surface acquires a fresh
// one per operation and closes it when the operation ends, however it ends.
type surfacePage interface {
	Load(ctx context.Context, html string, pixelRatio float64) error
	PrintToPDF(ctx context.Context) ([]byte, error)
	CaptureElement(ctx context.Context, selector string) ([]byte, error)
	Close() error
}

// ChromeOptions configures the headless browser behind the surface.
type ChromeOptions struct {
	Bin      string
	Headless bool
}

type chromeSurface struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	newPage  func() (surfacePage, error)
}

// NewChromeSurface launches (or reuses) a headless Chrome and connects to it.
func NewChromeSurface(opts ChromeOptions) (Surface, error) {
	l := launcher.New().Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}

	s := &chromeSurface{browser: browser, launcher: l}
	s.newPage = s.acquirePage
	return s, nil
}

func (s *chromeSurface) PrintToPDF(ctx context.Context, html string) ([]byte, error) {
	page, err := s.newPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Load(ctx, html, 1); err != nil {
		return nil, err
	}
	return page.PrintToPDF(ctx)
}

func (s *chromeSurface) Capture(ctx context.Context, html, selector string, pixelRatio float64) ([]byte, error) {
	page, err := s.newPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Load(ctx, html, pixelRatio); err != nil {
		return nil, err
	}
	return page.CaptureElement(ctx, selector)
}

func (s *chromeSurface) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// acquirePage creates the page on the browser's own context so the deferred
// Close still runs after the operation context is canceled.
func (s *chromeSurface) acquirePage() (surfacePage, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("acquire page: %w", err)
	}
	return &rodPage{page: page}, nil
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Load(ctx context.Context, html string, pixelRatio float64) error {
	pg := p.page.Context(ctx)
	if err := pg.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             PageWidthPx,
		Height:            PageHeightPx,
		DeviceScaleFactor: pixelRatio,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	if err := pg.SetDocumentContent(html); err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	// Let fonts and images settle; bounded by the caller's context.
	if err := pg.WaitStable(300 * time.Millisecond); err != nil {
		return fmt.Errorf("wait for document: %w", err)
	}
	return nil
}

func (p *rodPage) PrintToPDF(ctx context.Context) ([]byte, error) {
	pg := p.page.Context(ctx)
	stream, err := pg.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        f64(PageWidthPx / float64(cssPixelsPerInch)),
		PaperHeight:       f64(PageHeightPx / float64(cssPixelsPerInch)),
		MarginTop:         f64(0),
		MarginBottom:      f64(0),
		MarginLeft:        f64(0),
		MarginRight:       f64(0),
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	defer stream.Close()

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("print to pdf: empty output")
	}
	return pdf, nil
}

func (p *rodPage) CaptureElement(ctx context.Context, selector string) ([]byte, error) {
	pg := p.page.Context(ctx)
	el, err := pg.Element(selector)
	if err != nil {
		// Legacy templates without the wrapper still render; capture the body.
		el, err = pg.Element("body")
		if err != nil {
			return nil, fmt.Errorf("%w: neither %q nor body resolved", ErrAnchorNotFound, selector)
		}
	}

	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("capture element: %w", err)
	}
	return png, nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

func f64(v float64) *float64 { return &v }

// Package render turns filled certificate HTML into a PDF artifact pinned to
// the template's authored canvas.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/mssola/useragent"
	"go.uber.org/zap"
)

// Strategy selects how HTML becomes a PDF. The host application chooses;
// StrategyAuto classifies the caller's user agent as a fallback for clients
// that don't say.
type Strategy string

const (
	StrategyAuto   Strategy = "auto"
	StrategyPrint  Strategy = "print"
	StrategyRaster Strategy = "raster"
)

// Certificate templates are authored against a fixed landscape canvas. Both
// strategies must produce a page of exactly this size.
const (
	PageWidthPx  = 1052
	PageHeightPx = 744

	cssPixelsPerInch = 96
)

// ResolveStrategy applies an explicit choice, falling back to user-agent
// classification for auto: mobile devices get the raster path because their
// print dialogs are unreliable, everything else gets print-to-PDF.
func ResolveStrategy(requested Strategy, userAgentString string) Strategy {
	switch requested {
	case StrategyPrint, StrategyRaster:
		return requested
	}
	if userAgentString != "" {
		if ua := useragent.New(userAgentString); ua.Mobile() {
			return StrategyRaster
		}
	}
	return StrategyPrint
}

// Renderer produces a PDF from filled certificate HTML.
type Renderer interface {
	Render(ctx context.Context, html string, strategy Strategy) ([]byte, error)
}

// Options configures a renderer.
type Options struct {
	Timeout    time.Duration
	PixelRatio float64
}

type documentRenderer struct {
	surface Surface
	opts    Options
	logger  *zap.Logger
}

// NewRenderer builds a renderer on top of a rendering surface. The surface is
// shared; each Render call acquires and releases its own page.
func NewRenderer(surface Surface, opts Options, logger *zap.Logger) Renderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 2
	}
	return &documentRenderer{surface: surface, opts: opts, logger: logger}
}

func (r *documentRenderer) Render(ctx context.Context, html string, strategy Strategy) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	var err error

	switch ResolveStrategy(strategy, "") {
	case StrategyRaster:
		var png []byte
		png, err = r.surface.Capture(ctx, injectCanvasCSS(html), wrapperSelector, r.opts.PixelRatio)
		if err == nil {
			pdf, err = buildPDFFromPNG(png)
		}
	default:
		pdf, err = r.surface.PrintToPDF(ctx, injectPageCSS(html))
	}

	if err != nil {
		return nil, fmt.Errorf("render failed (%s strategy): %w", strategy, err)
	}

	r.logger.Debug("Rendered certificate document",
		zap.String("strategy", string(strategy)),
		zap.Int("pdf_bytes", len(pdf)),
		zap.Duration("elapsed", time.Since(start)))
	return pdf, nil
}

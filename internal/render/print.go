package render

import (
	"fmt"
	"strings"
)

// pageCSS pins the print engine to the authored certificate canvas so the
// PDF page matches the template exactly, with nothing scaled or clipped.
var pageCSS = fmt.Sprintf(`<style>
@page { size: %dpx %dpx; margin: 0; }
@media print {
  html, body { margin: 0; padding: 0; }
}
html, body { width: %dpx; height: %dpx; }
</style>`, PageWidthPx, PageHeightPx, PageWidthPx, PageHeightPx)

// canvasCSS fixes the on-screen layout for raster capture without touching
// print rules.
var canvasCSS = fmt.Sprintf(`<style>
html, body { margin: 0; padding: 0; width: %dpx; height: %dpx; overflow: hidden; }
</style>`, PageWidthPx, PageHeightPx)

func injectPageCSS(html string) string {
	return injectIntoHead(html, pageCSS)
}

func injectCanvasCSS(html string) string {
	return injectIntoHead(html, canvasCSS)
}

// injectIntoHead places a style block at the end of <head> so it wins over
// the template's own rules. Templates are author-supplied fragments as often
// as full documents, so a missing head just means prepending.
func injectIntoHead(html, style string) string {
	lower := strings.ToLower(html)
	if idx := strings.Index(lower, "</head>"); idx >= 0 {
		return html[:idx] + style + html[idx:]
	}
	return style + html
}

package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// buildPDFFromPNG embeds a captured bitmap into a single-page PDF whose page
// size matches the certificate canvas point for point. Text crispness is
// traded away; this path exists for clients without a working print dialog.
func buildPDFFromPNG(png []byte) ([]byte, error) {
	if len(png) == 0 {
		return nil, fmt.Errorf("empty capture")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: PageWidthPx, Ht: PageHeightPx},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate", opts, bytes.NewReader(png))
	pdf.ImageOptions("certificate", 0, 0, PageWidthPx, PageHeightPx, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to assemble pdf: %w", err)
	}
	return buf.Bytes(), nil
}

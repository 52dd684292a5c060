package affiche

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// WritePDF embeds a rendered poster page as a full-bleed A4 PDF, the format
// the print shop asks for.
func WritePDF(page image.Image, path string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, page); err != nil {
		return fmt.Errorf("encode poster: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("affiche", opts, &buf)
	pageW, pageH := pdf.GetPageSize()
	pdf.ImageOptions("affiche", 0, 0, pageW, pageH, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write poster pdf: %w", err)
	}
	return nil
}

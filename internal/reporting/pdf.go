package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

const pdfPageWidthMm = 190.0 // A4 printable width with default margins

// RenderPDF writes the section sequence as a PDF to path. The document is
// built in a temporary file and renamed into place on success, so a failed
// render leaves no partial output. Failures wrap ErrRender.
func RenderPDF(sections []Section, path string, generatedAt time.Time) error {
	pdf := buildPDF(sections, generatedAt)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("%w: build document: %v", ErrRender, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrRender, err)
	}
	tmpPath := tmp.Name()

	if err := pdf.Output(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write document: %v", ErrRender, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close temp file: %v", ErrRender, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: move into place: %v", ErrRender, err)
	}
	return nil
}

func buildPDF(sections []Section, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(pdfPageWidthMm, 10, "Session Performance Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(pdfPageWidthMm, 6, "Generated: "+generatedAt.UTC().Format(time.RFC3339), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, section := range sections {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(pdfPageWidthMm, 8, section.Title, "", 1, "L", false, 0, "")

		if section.Paragraph != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(pdfPageWidthMm, 5, section.Paragraph, "", "L", false)
			pdf.Ln(1)
		}

		if section.IsTable() {
			writePDFTable(pdf, section)
		}
		pdf.Ln(4)
	}

	return pdf
}

func writePDFTable(pdf *fpdf.Fpdf, section Section) {
	colWidth := pdfPageWidthMm / float64(len(section.Header))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, cell := range section.Header {
		pdf.CellFormat(colWidth, 6, cell, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range section.Rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

package export

import (
	"bytes"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions configures tabular PDF generation.
type PDFOptions struct {
	Title       string
	Orientation string // "P" or "L"
	FontSize    float64
}

func DefaultPDFOptions(title string) PDFOptions {
	return PDFOptions{Title: title, Orientation: "P", FontSize: 10}
}

// WritePDF renders a titled table into a PDF document. Column widths are
// split evenly across the printable width.
func WritePDF(headers []string, rows [][]string, options PDFOptions) (*bytes.Buffer, error) {
	orientation := options.Orientation
	if orientation == "" {
		orientation = "P"
	}

	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetFont("Helvetica", "", options.FontSize)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	pdf.SetFont("Helvetica", "B", options.FontSize+4)
	pdf.CellFormat(usable, 10, options.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", options.FontSize-2)
	pdf.CellFormat(usable, 6, time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	colWidth := usable / float64(len(headers))

	pdf.SetFont("Helvetica", "B", options.FontSize)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for _, header := range headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", options.FontSize)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	pdf.SetFillColor(235, 240, 250)
	for _, row := range rows {
		for _, value := range row {
			pdf.CellFormat(colWidth, 7, value, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

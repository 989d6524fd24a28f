package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Daily Tracker"
	pdfTitle  = "Daily Parameter Tracker"
)

// Renderer writes a table in one of the export formats
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the file bytes of columns and rows in format
func (r *Renderer) Render(format Format, columns []string, rows [][]string) ([]byte, error) {
	if len(columns) == 0 {
		return nil, errors.New("report has no columns")
	}
	switch format {
	case FormatCSV:
		return renderCSV(columns, rows)
	case FormatXLSX:
		return renderXLSX(columns, rows)
	case FormatPDF:
		return renderPDF(columns, rows)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
}

func renderCSV(columns []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(columns []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			// ratings go in as numbers so spreadsheets can chart them
			if n, err := strconv.Atoi(v); err == nil && j > 0 {
				values[j] = n
			} else {
				values[j] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDF(columns []string, rows [][]string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, pdfTitle, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(columns))

	// header: light blue
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(173, 216, 230)
	for _, c := range columns {
		pdf.CellFormat(colW, 9, tr(c), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// body: beige
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	if len(rows) == 0 {
		rows = [][]string{make([]string, len(columns))}
	}
	for _, row := range rows {
		for i := range columns {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			pdf.CellFormat(colW, 8, tr(v), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

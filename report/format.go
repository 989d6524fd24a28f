// Package report turns stored ratings into downloadable files.
package report

import (
	"errors"
	"fmt"
	"strings"
)

// Format is an export file type
type Format int

const (
	FormatCSV Format = iota + 1
	FormatXLSX
	FormatPDF
)

// ErrUnknownFormat is returned by ParseFormat
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat decodes "csv", "xlsx" or "pdf", ignoring case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// Filename is the attachment name for the format
func (f Format) Filename() string {
	return "daily_tracker." + f.String()
}

// Caption is the message shown under the attachment
func (f Format) Caption() string {
	switch f {
	case FormatXLSX:
		return "📊 Excel format"
	case FormatPDF:
		return "📄 PDF format"
	default:
		return "📊 CSV format"
	}
}

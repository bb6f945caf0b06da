package export

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

// Format identifies a rendered document type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Field is a labelled value printed above or below the table.
type Field struct {
	Label string
	Value string
}

// Dataset defines tabular export content. Numeric lists the headers whose cells hold numbers;
// every other cell is kept as text.
type Dataset struct {
	Title   string
	Meta    []Field
	Headers []string
	Numeric []string
	Rows    []map[string]string
	Summary []Field
}

// IsNumeric reports whether header is a numeric column.
func (d Dataset) IsNumeric(header string) bool {
	for _, h := range d.Numeric {
		if h == header {
			return true
		}
	}
	return false
}

// ParseFormat normalises a query parameter into a Format. Empty input means CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", raw))
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

// Filename appends the format extension to base.
func (f Format) Filename(base string) string {
	return fmt.Sprintf("%s.%s", sanitizeFilename(base), f)
}

// Renderer dispatches a Dataset to the exporter for a format.
type Renderer struct {
	csv  *CSVExporter
	pdf  *PDFExporter
	xlsx *XLSXExporter
}

// NewRenderer builds a renderer with every supported exporter.
func NewRenderer() *Renderer {
	return &Renderer{csv: NewCSVExporter(), pdf: NewPDFExporter(), xlsx: NewXLSXExporter()}
}

// Render encodes data in the requested format.
func (r *Renderer) Render(format Format, data Dataset) ([]byte, error) {
	switch format {
	case FormatCSV:
		return r.csv.Render(data)
	case FormatPDF:
		return r.pdf.Render(data)
	case FormatXLSX:
		return r.xlsx.Render(data)
	}
	return nil, appErrors.ErrUnsupportedFormat
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "export"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

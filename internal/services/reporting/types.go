package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saae/almox/internal/reports"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "xlsx" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want xlsx or pdf)", s)
}

// Settings configures a Service.
type Settings struct {
	// Dir receives exported files. It is created on first export.
	Dir string

	Warehouse       string
	Author          string
	Options         reports.Options
	ReplenishFactor decimal.Decimal
}

// ExportResult describes a written export file.
type ExportResult struct {
	Format Format
	Path   string
	Size   int
	At     time.Time
}

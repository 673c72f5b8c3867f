// Package fetcher downloads attendance exports and decodes spreadsheet bytes
// (XLSX or CSV) into raw string rows.
package fetcher

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// Format identifies a spreadsheet encoding.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for inputs that are neither XLSX nor CSV.
var ErrUnsupportedFormat = eris.New("fetcher: unsupported format")

var zipMagic = []byte("PK\x03\x04")

// Options configures Read.
type Options struct {
	Sheet     string // XLSX sheet name; first sheet when empty
	SkipRows  int    // leading rows to discard
	RawValues bool   // XLSX: return stored cell values instead of display-formatted text
	Delimiter rune   // CSV: 0 = auto-detect
}

// DetectFormat picks the format from the file name, falling back to content sniffing.
func DetectFormat(name string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xls":
		return "", eris.Wrap(ErrUnsupportedFormat, "legacy .xls workbooks must be re-saved as .xlsx")
	}

	if bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX, nil
	}
	if len(data) > 0 && utf8.Valid(data) {
		return FormatCSV, nil
	}
	return "", eris.Wrapf(ErrUnsupportedFormat, "cannot detect format of %q", name)
}

// Sheet is a decoded sheet plus what is needed to interpret its values.
type Sheet struct {
	Rows     [][]string
	Format   Format
	Date1904 bool // XLSX: date serials use the 1904 system
}

// Read decodes data according to its detected format and reports the format
// alongside the rows.
func Read(ctx context.Context, name string, data []byte, opts Options) (*Sheet, error) {
	format, err := DetectFormat(name, data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return ReadWorkbook(data, XLSXOptions{
			SheetName: opts.Sheet,
			SkipRows:  opts.SkipRows,
			RawValues: opts.RawValues,
		})
	default:
		rows, err := ReadCSV(ctx, bytes.NewReader(data), CSVOptions{
			Delimiter:  opts.Delimiter,
			SkipRows:   opts.SkipRows,
			TrimSpace:  true,
			LazyQuotes: true,
		})
		if err != nil {
			return nil, err
		}
		return &Sheet{Rows: rows, Format: FormatCSV}, nil
	}
}

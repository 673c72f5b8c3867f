// Package ingest reads attendance spreadsheets into normalized records.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/simova-report/internal/fetcher"
	"github.com/sells-group/simova-report/internal/model"
)

// Sentinel errors.
var (
	ErrNoInput        = eris.New("ingest: no input file")
	ErrColumnMismatch = eris.New("ingest: column override does not match header width")
	ErrMissingColumn  = eris.New("ingest: required column missing")
	ErrUnknownColumn  = eris.New("ingest: unknown column name")
	ErrNoHeader       = eris.New("ingest: header row not found")
)

// Options controls how rows are located and interpreted.
type Options struct {
	// HeaderRow is the 0-based index of the header row; rows above it are ignored.
	HeaderRow int
	// Sheet selects a workbook sheet by name. Empty means the first sheet.
	Sheet string
	// Columns, when set, names the columns by position and overrides the file's headers.
	Columns []string
	// TimestampLayout is the time.Parse layout for entry and exit times.
	TimestampLayout string
	// Location is applied to parsed timestamps. Nil means UTC.
	Location *time.Location
	// Serials accepts workbook date serials in timestamp columns. Load sets it
	// for XLSX input only.
	Serials bool
	// Date1904 reads serials with the 1904 date system.
	Date1904 bool
}

func (o Options) timestampParser() TimestampParser {
	return TimestampParser{
		Layout:   o.TimestampLayout,
		Location: o.Location,
		Serials:  o.Serials,
		Date1904: o.Date1904,
	}
}

// Result is the outcome of normalizing one file.
type Result struct {
	Records []model.AttendanceRecord
	Header  []string // raw header cells
	Columns []Field  // field bound to each header position, "" when unbound
	Dropped int      // rows without a technician name
	Blank   int      // rows with no content at all
}

// Load decodes a spreadsheet and normalizes its rows.
func Load(ctx context.Context, name string, data []byte, opts Options) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrNoInput
	}

	sheet, err := fetcher.Read(ctx, name, data, fetcher.Options{
		Sheet:     opts.Sheet,
		SkipRows:  opts.HeaderRow,
		RawValues: true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read rows")
	}

	opts.Serials = sheet.Format == fetcher.FormatXLSX
	opts.Date1904 = sheet.Date1904
	return Normalize(sheet.Rows, opts)
}

// Normalize converts raw rows into attendance records. rows[0] is the header row
// (the caller has already skipped anything above it).
func Normalize(rows [][]string, opts Options) (*Result, error) {
	if len(rows) == 0 {
		return nil, eris.Wrapf(ErrNoHeader, "header row %d is past the end of the sheet", opts.HeaderRow)
	}

	header := trimTrailingEmpty(rows[0])
	columns, err := bindColumns(header, opts.Columns)
	if err != nil {
		return nil, err
	}

	index := make(map[Field]int, len(columns))
	for i, f := range columns {
		if f == "" {
			continue
		}
		if _, dup := index[f]; !dup {
			index[f] = i
		}
	}
	var missing []string
	for _, f := range RequiredFields {
		if _, ok := index[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingColumn, "%s", strings.Join(missing, ", "))
	}

	res := &Result{Header: header, Columns: columns}
	stamps := opts.timestampParser()
	get := func(row []string, f Field) string {
		i, ok := index[f]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for k, row := range rows[1:] {
		if isBlank(row) {
			res.Blank++
			continue
		}
		name := get(row, FieldTechnicianName)
		if name == "" {
			res.Dropped++
			continue
		}

		res.Records = append(res.Records, model.AttendanceRecord{
			Row:                  opts.HeaderRow + k + 2,
			TechnicianID:         get(row, FieldTechnicianID),
			TechnicianName:       name,
			Role:                 get(row, FieldRole),
			Branch:               get(row, FieldBranch),
			EntryTime:            stamps.Parse(get(row, FieldEntryTime)),
			ExitTime:             stamps.Parse(get(row, FieldExitTime)),
			ShiftDuration:        ParseDuration(get(row, FieldShiftDuration)),
			ProductiveStop:       ParseDuration(get(row, FieldProductiveStop)),
			UnproductiveDowntime: ParseDuration(get(row, FieldUnproductiveDowntime)),
			LostDuration:         ParseDuration(get(row, FieldLostDuration)),
			WorkedDuration:       ParseDuration(get(row, FieldWorkedDuration)),
			TransitDuration:      ParseDuration(get(row, FieldTransitDuration)),
		})
	}

	if res.Dropped > 0 {
		zap.L().Warn("ingest: dropped rows without technician name", zap.Int("dropped", res.Dropped))
	}
	zap.L().Info("ingest: normalized rows",
		zap.Int("records", len(res.Records)),
		zap.Int("dropped", res.Dropped),
		zap.Int("blank", res.Blank),
	)

	return res, nil
}

// bindColumns returns the field for each header position, either from the
// positional override or by resolving header names.
func bindColumns(header []string, override []string) ([]Field, error) {
	columns := make([]Field, len(header))

	if len(override) > 0 {
		if len(override) != len(header) {
			return nil, eris.Wrapf(ErrColumnMismatch, "%d names for %d columns", len(override), len(header))
		}
		seen := make(map[Field]bool, len(override))
		for i, name := range override {
			if strings.TrimSpace(name) == SkipColumn {
				continue
			}
			f, ok := ParseField(name)
			if !ok {
				return nil, eris.Wrapf(ErrUnknownColumn, "%q at position %d", name, i+1)
			}
			if seen[f] {
				return nil, eris.Errorf("ingest: column %q assigned twice", f)
			}
			seen[f] = true
			columns[i] = f
		}
		return columns, nil
	}

	for i, h := range header {
		f, ok := ResolveHeader(h)
		if !ok {
			if strings.TrimSpace(h) != "" {
				zap.L().Debug("ingest: ignoring unrecognized header", zap.String("header", h), zap.Int("position", i+1))
			}
			continue
		}
		columns[i] = f
	}
	return columns, nil
}

func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

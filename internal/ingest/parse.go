package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/simova-report/internal/model"
)

// DefaultTimestampLayout is day/month/year with seconds.
const DefaultTimestampLayout = "02/01/2006 15:04:05"

// shortTimestampLayout also accepts single-digit days and months.
const shortTimestampLayout = "2/1/2006 15:04:05"

// maxSerial is 9999-12-31, the last day a workbook can store.
const maxSerial = 2958465

const (
	day      = 24 * time.Hour
	maxHours = math.MaxInt64 / int64(time.Hour)
	maxDays  = math.MaxInt64 / int64(day)
)

// TimestampParser turns entry and exit cells into timestamps.
type TimestampParser struct {
	Layout   string         // time.Parse layout, DefaultTimestampLayout when empty
	Location *time.Location // nil means UTC
	Serials  bool           // accept workbook date serials
	Date1904 bool           // serials use the 1904 date system
}

// ParseTimestamp parses s with layout in loc. Anything that does not match the
// layout yields an absent timestamp.
func ParseTimestamp(s, layout string, loc *time.Location) model.Timestamp {
	return TimestampParser{Layout: layout, Location: loc}.Parse(s)
}

// Parse reads s as a timestamp. Workbook serials are only read when p.Serials
// is set, and only within the range a workbook can hold.
func (p TimestampParser) Parse(s string) model.Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Timestamp{}
	}
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := p.Layout
	if layout == "" {
		layout = DefaultTimestampLayout
	}

	if t, err := time.ParseInLocation(layout, s, loc); err == nil {
		return model.NewTimestamp(t)
	}
	if layout == DefaultTimestampLayout {
		if t, err := time.ParseInLocation(shortTimestampLayout, s, loc); err == nil {
			return model.NewTimestamp(t)
		}
	}
	if !p.Serials {
		return model.Timestamp{}
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(serial) || serial < 1 || serial >= maxSerial+1 {
		return model.Timestamp{}
	}
	t := xlsx.TimeFromExcelTime(serial, p.Date1904).Round(time.Second)
	return model.NewTimestamp(time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc))
}

// ParseDuration parses elapsed time written as "H:MM:SS", "H:MM", "N days HH:MM:SS",
// a Go duration string or a fraction of a day. Negative, malformed or
// unrepresentable input yields an absent duration.
func ParseDuration(s string) model.Duration {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return model.Duration{}
	}

	var days int64
	if fields := strings.Fields(s); len(fields) >= 2 && strings.HasPrefix(strings.ToLower(fields[1]), "day") {
		n, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil || n < 0 || n > maxDays {
			return model.Duration{}
		}
		days = n
		s = strings.Join(fields[2:], " ")
		if s == "" {
			return model.NewDuration(time.Duration(days) * day)
		}
	}

	if strings.Contains(s, ":") {
		d, ok := parseClock(s)
		if !ok {
			return model.Duration{}
		}
		total, ok := addDuration(time.Duration(days)*day, d)
		if !ok {
			return model.Duration{}
		}
		return model.NewDuration(total)
	}
	if days > 0 {
		return model.Duration{}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v := f * float64(day)
		if f < 0 || math.IsNaN(f) || v >= math.MaxInt64 {
			return model.Duration{}
		}
		return model.NewDuration(time.Duration(v).Round(time.Second))
	}

	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return model.NewDuration(d)
	}
	return model.Duration{}
}

// parseClock reads H:MM or H:MM:SS(.fff) where hours may exceed 24.
func parseClock(s string) (time.Duration, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	h, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || h < 0 || h > maxHours {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m >= 60 {
		return 0, false
	}
	var sec float64
	if len(parts) == 3 {
		sec, err = strconv.ParseFloat(parts[2], 64)
		if err != nil || sec < 0 || sec >= 60 {
			return 0, false
		}
	}

	return addDuration(time.Duration(h)*time.Hour,
		time.Duration(m)*time.Minute+time.Duration(sec*float64(time.Second)))
}

// addDuration sums two non-negative durations, reporting false on overflow.
func addDuration(a, b time.Duration) (time.Duration, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

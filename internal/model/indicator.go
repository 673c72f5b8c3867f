package model

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownIndicator is returned when an indicator name cannot be resolved.
var ErrUnknownIndicator = eris.New("model: unknown indicator")

// Indicator names one of the four compliance flags.
type Indicator int

// Compliance indicators.
const (
	OnTimeEntry Indicator = iota
	LowUnproductiveDowntime
	CorrectExitWindow
	OverallCompliance
)

// Indicators lists every indicator in display order.
var Indicators = []Indicator{OnTimeEntry, LowUnproductiveDowntime, CorrectExitWindow, OverallCompliance}

var indicatorNames = [...]string{
	OnTimeEntry:             "on_time_entry",
	LowUnproductiveDowntime: "low_unproductive_downtime",
	CorrectExitWindow:       "correct_exit_window",
	OverallCompliance:       "overall_compliance",
}

var indicatorLabels = [...]string{
	OnTimeEntry:             "On-time entry",
	LowUnproductiveDowntime: "Under 1h unproductive",
	CorrectExitWindow:       "Correct exit",
	OverallCompliance:       "Overall compliance",
}

// Short names and the column headers of the Spanish-language dashboard.
var indicatorAliases = map[string]Indicator{
	"entry":                            OnTimeEntry,
	"downtime":                         LowUnproductiveDowntime,
	"exit":                             CorrectExitWindow,
	"overall":                          OverallCompliance,
	"cumple ingreso a tiempo":          OnTimeEntry,
	"cumple menos de una hora improd.": LowUnproductiveDowntime,
	"cumple salida correcta":           CorrectExitWindow,
	"calificacion general":             OverallCompliance,
}

// String returns the canonical snake_case name.
func (i Indicator) String() string {
	if i < 0 || int(i) >= len(indicatorNames) {
		return "unknown"
	}
	return indicatorNames[i]
}

// Label returns a human-readable name for charts and tables.
func (i Indicator) Label() string {
	if i < 0 || int(i) >= len(indicatorLabels) {
		return "Unknown"
	}
	return indicatorLabels[i]
}

// ParseIndicator resolves a canonical name, label or alias.
func ParseIndicator(s string) (Indicator, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range indicatorNames {
		if key == name || key == strings.ToLower(indicatorLabels[i]) {
			return Indicator(i), nil
		}
	}
	if ind, ok := indicatorAliases[key]; ok {
		return ind, nil
	}
	return 0, eris.Wrapf(ErrUnknownIndicator, "%q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (i Indicator) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Indicator) UnmarshalText(b []byte) error {
	ind, err := ParseIndicator(string(b))
	if err != nil {
		return err
	}
	*i = ind
	return nil
}

// Flags holds the three evaluated compliance checks for one record.
// Overall compliance is always derived from them.
type Flags struct {
	OnTimeEntry             bool
	LowUnproductiveDowntime bool
	CorrectExitWindow       bool
}

// Overall reports whether all three checks passed.
func (f Flags) Overall() bool {
	return f.OnTimeEntry && f.LowUnproductiveDowntime && f.CorrectExitWindow
}

// Value returns the indicator as 0 or 1.
func (f Flags) Value(ind Indicator) int {
	var v bool
	switch ind {
	case OnTimeEntry:
		v = f.OnTimeEntry
	case LowUnproductiveDowntime:
		v = f.LowUnproductiveDowntime
	case CorrectExitWindow:
		v = f.CorrectExitWindow
	case OverallCompliance:
		v = f.Overall()
	}
	if v {
		return 1
	}
	return 0
}

// MarshalJSON encodes all four indicators as 0/1 integers.
func (f Flags) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, len(Indicators))
	for _, ind := range Indicators {
		out[ind.String()] = f.Value(ind)
	}
	return json.Marshal(out)
}

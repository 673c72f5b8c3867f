package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a canonical attendance column name.
type Field string

// Canonical columns of an attendance export.
const (
	FieldTechnicianID         Field = "technician_id"
	FieldTechnicianName       Field = "technician_name"
	FieldRole                 Field = "role"
	FieldBranch               Field = "branch"
	FieldEntryTime            Field = "entry_time"
	FieldExitTime             Field = "exit_time"
	FieldShiftDuration        Field = "shift_duration"
	FieldProductiveStop       Field = "productive_stop"
	FieldUnproductiveDowntime Field = "unproductive_downtime"
	FieldLostDuration         Field = "lost_duration"
	FieldWorkedDuration       Field = "worked_duration"
	FieldTransitDuration      Field = "transit_duration"
)

// SkipColumn may appear in a positional override to ignore that column.
const SkipColumn = "-"

// DefaultColumns is the column order of a standard SIMOVA activity export.
var DefaultColumns = []Field{
	FieldTechnicianID,
	FieldTechnicianName,
	FieldRole,
	FieldBranch,
	FieldEntryTime,
	FieldExitTime,
	FieldShiftDuration,
	FieldProductiveStop,
	FieldUnproductiveDowntime,
	FieldLostDuration,
	FieldWorkedDuration,
	FieldTransitDuration,
}

// RequiredFields must be resolvable for the compliance rules to run.
var RequiredFields = []Field{
	FieldTechnicianName,
	FieldEntryTime,
	FieldExitTime,
	FieldUnproductiveDowntime,
}

// headerAliases maps normalized source headers to fields. Keys are produced by normalizeHeader.
var headerAliases = map[string]Field{
	"codigo tecnico":           FieldTechnicianID,
	"cod. tecnico":             FieldTechnicianID,
	"cod tecnico":              FieldTechnicianID,
	"codigo":                   FieldTechnicianID,
	"nome tecnico":             FieldTechnicianName,
	"nombre tecnico":           FieldTechnicianName,
	"tecnico":                  FieldTechnicianName,
	"funcao":                   FieldRole,
	"funcion":                  FieldRole,
	"cargo":                    FieldRole,
	"filial":                   FieldBranch,
	"sucursal":                 FieldBranch,
	"hora entrada":             FieldEntryTime,
	"hora saida":               FieldExitTime,
	"hora salida":              FieldExitTime,
	"total horas jornada":      FieldShiftDuration,
	"horas paradas prod.":      FieldProductiveStop,
	"horas paradas improd.":    FieldUnproductiveDowntime,
	"total horas perdidas":     FieldLostDuration,
	"total horas trabalhadas":  FieldWorkedDuration,
	"total horas deslocamento": FieldTransitDuration,
}

func init() {
	for _, f := range DefaultColumns {
		headerAliases[string(f)] = f
		headerAliases[strings.ReplaceAll(string(f), "_", " ")] = f
	}
}

// ParseField resolves a canonical field name.
func ParseField(s string) (Field, bool) {
	s = strings.TrimSpace(s)
	for _, f := range DefaultColumns {
		if s == string(f) {
			return f, true
		}
	}
	return "", false
}

// ResolveHeader maps a source header cell to a field, ignoring case, accents and spacing.
func ResolveHeader(header string) (Field, bool) {
	f, ok := headerAliases[normalizeHeader(header)]
	return f, ok
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeHeader(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHeader(t *testing.T) {
	tests := []struct {
		header string
		want   Field
	}{
		{"Nome Técnico", FieldTechnicianName},
		{"NOME  TECNICO", FieldTechnicianName},
		{"Hora Entrada", FieldEntryTime},
		{"Hora Saída", FieldExitTime},
		{"Hora Saida", FieldExitTime},
		{"Horas Paradas Improd.", FieldUnproductiveDowntime},
		{"Total Horas Deslocamento", FieldTransitDuration},
		{"Filial", FieldBranch},
		{"unproductive_downtime", FieldUnproductiveDowntime},
		{"exit time", FieldExitTime},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := ResolveHeader(tt.header)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := ResolveHeader("Observações")
	assert.False(t, ok)
}

func TestParseField(t *testing.T) {
	f, ok := ParseField(" entry_time ")
	assert.True(t, ok)
	assert.Equal(t, FieldEntryTime, f)

	_, ok = ParseField("Hora Entrada")
	assert.False(t, ok, "positional names must be canonical")
}

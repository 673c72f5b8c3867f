package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/simova-report/internal/config"
)

// attendanceCSV has a title row above the header, as exported by the activity log.
const attendanceCSV = `Relatório de Atividades;;;
Nome Técnico;Hora Entrada;Hora Saída;Horas Paradas Improd.
Ana;11/03/2024 08:00:00;11/03/2024 17:00:00;0:10:00
Ana;12/03/2024 09:30:00;12/03/2024 17:00:00;0:10:00
Bruno;11/03/2024 08:40:00;11/03/2024 18:00:00;2:00:00
Bruno;13/03/2024 08:00:00;13/03/2024 17:30:00;0:20:00
;13/03/2024 08:00:00;13/03/2024 17:30:00;0:20:00
`

func testConfig() *config.Config {
	return &config.Config{
		Ingest: config.IngestConfig{
			HeaderRow:       1,
			TimestampLayout: "02/01/2006 15:04:05",
		},
		Rules: config.RulesConfig{
			EntryMode:     "upper",
			EntryEarliest: "04:00:00",
			EntryLatest:   "08:45:00",
			ExitStart:     "16:30:00",
			ExitEnd:       "19:00:00",
			MaxDowntime:   time.Hour,
		},
		Report: config.ReportConfig{
			ExcludeSundays: true,
			Normalize:      true,
			Indicator:      "overall_compliance",
		},
		Server: config.ServerConfig{
			Port:           8080,
			MaxUploadMB:    1,
			RatePerSec:     100,
			Burst:          100,
			CacheSize:      4,
			AllowedOrigins: []string{"*"},
		},
		Log: config.LogConfig{Level: "info", Format: "json"},
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

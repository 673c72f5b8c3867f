package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	input := "name,age\nAlice,30\nBob,25\n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "age"}, rows[0])
	assert.Equal(t, []string{"Bob", "25"}, rows[2])
}

func TestReadCSV_SkipRowsAndTrim(t *testing.T) {
	input := "Export;\n Name ; Entry \n Ana ; 15/03/2024 08:30:00 \n"

	rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{SkipRows: 1, TrimSpace: true})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Entry"}, rows[0])
	assert.Equal(t, []string{"Ana", "15/03/2024 08:30:00"}, rows[1])
}

func TestReadCSV_DetectsDelimiter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma", "a,b,c\n", []string{"a", "b", "c"}},
		{"semicolon", "a;b;c\n", []string{"a", "b", "c"}},
		{"tab", "a\tb\tc\n", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSV(context.Background(), strings.NewReader(tt.input), CSVOptions{})
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0])
		})
	}
}

func TestReadCSV_StripsBOM(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader("\xEF\xBB\xBFName,Code\nAna,7\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Name", rows[0][0])
}

func TestReadCSV_VariableFields(t *testing.T) {
	rows, err := ReadCSV(context.Background(), strings.NewReader("a,b,c\nd\n"), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1], 1)
}

func TestReadCSV_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadCSV(ctx, strings.NewReader("a,b\n"), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_ZeroValueIsAbsent(t *testing.T) {
	var ts Timestamp
	assert.False(t, ts.Valid())

	_, ok := ts.Clock()
	assert.False(t, ok)
	_, ok = ts.Date()
	assert.False(t, ok)
	assert.Equal(t, "", ts.String())
}

func TestTimestamp_Components(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 3, 15, 8, 30, 5, 0, time.UTC))

	clock, ok := ts.Clock()
	require.True(t, ok)
	assert.Equal(t, civil.Time{Hour: 8, Minute: 30, Second: 5}, clock)

	date, ok := ts.Date()
	require.True(t, ok)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 15}, date)
	assert.Equal(t, "2024-03-15 08:30:05", ts.String())
}

func TestDuration_String(t *testing.T) {
	tests := []struct {
		name string
		in   Duration
		want string
	}{
		{"absent", Duration{}, ""},
		{"zero", NewDuration(0), "0:00:00"},
		{"minutes", NewDuration(45 * time.Minute), "0:45:00"},
		{"hours", NewDuration(26*time.Hour + 3*time.Minute + 9*time.Second), "26:03:09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestOptionalValues_MarshalJSON(t *testing.T) {
	payload := struct {
		At  Timestamp `json:"at"`
		Gap Duration  `json:"gap"`
		Set Duration  `json:"set"`
	}{
		Set: NewDuration(90 * time.Minute),
	}

	b, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":null,"gap":null,"set":"1:30:00"}`, string(b))
}

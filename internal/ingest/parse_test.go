package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{"layout", "15/03/2024 08:30:00", time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC), true},
		{"padded", "  01/02/2024 17:05:09 ", time.Date(2024, 2, 1, 17, 5, 9, 0, time.UTC), true},
		{"single digit day", "1/02/2024 08:00:00", time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), true},
		{"single digit month", "15/3/2024 08:30:00", time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC), true},
		{"bare number", "45366.354166666664", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"month first", "03/15/2024 08:30:00", time.Time{}, false},
		{"missing seconds", "15/03/2024 08:30", time.Time{}, false},
		{"garbage", "sin marca", time.Time{}, false},
		{"negative serial", "-3", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in, DefaultTimestampLayout, nil).Get()
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestParseTimestamp_Location(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	got, ok := ParseTimestamp("15/03/2024 08:30:00", "", loc).Get()
	require.True(t, ok)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 8, got.Hour())
}

func TestParseTimestamp_CustomLayoutHasNoFallback(t *testing.T) {
	_, ok := ParseTimestamp("1/02/2024 08:00:00", "2006-01-02 15:04:05", nil).Get()
	assert.False(t, ok)

	got, ok := ParseTimestamp("2024-02-01 08:00:00", "2006-01-02 15:04:05", nil).Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), got)
}

func TestTimestampParser_Serials(t *testing.T) {
	want := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	tests := []struct {
		name   string
		parser TimestampParser
		in     string
		want   time.Time
		ok     bool
	}{
		{"serial", TimestampParser{Serials: true}, "45366.354166666664", want, true},
		{"serial 1904", TimestampParser{Serials: true, Date1904: true}, "43904.354166666664", want, true},
		{"layout still wins", TimestampParser{Serials: true}, "15/03/2024 08:30:00", want, true},
		{"last storable day", TimestampParser{Serials: true}, "2958465", time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"past last storable day", TimestampParser{Serials: true}, "2958466", time.Time{}, false},
		{"far future", TimestampParser{Serials: true}, "12345678", time.Time{}, false},
		{"below first day", TimestampParser{Serials: true}, "0.5", time.Time{}, false},
		{"negative", TimestampParser{Serials: true}, "-3", time.Time{}, false},
		{"not a number", TimestampParser{Serials: true}, "NaN", time.Time{}, false},
		{"serials off", TimestampParser{}, "45366.354166666664", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.parser.Parse(tt.in).Get()
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
		ok   bool
	}{
		{"hms", "0:45:00", 45 * time.Minute, true},
		{"padded hms", "01:00:00", time.Hour, true},
		{"hours over a day", "26:10:05", 26*time.Hour + 10*time.Minute + 5*time.Second, true},
		{"hm", "1:30", 90 * time.Minute, true},
		{"fractional seconds", "0:00:01.5", 1500 * time.Millisecond, true},
		{"days prefix", "0 days 01:00:01", time.Hour + time.Second, true},
		{"one day", "1 day 00:30:00", 24*time.Hour + 30*time.Minute, true},
		{"day fraction", "0.041666666666666664", time.Hour, true},
		{"go duration", "1h15m", 75 * time.Minute, true},
		{"empty", "", 0, false},
		{"negative", "-0:30:00", 0, false},
		{"bad minutes", "1:75:00", 0, false},
		{"too many parts", "1:00:00:00", 0, false},
		{"text", "n/a", 0, false},
		{"hours past int64", "5124096:00:00", 0, false},
		{"hours far past int64", "9999999999:00:00", 0, false},
		{"largest hours", "2562047:00:00", 2562047 * time.Hour, true},
		{"largest hours plus minutes overflow", "2562047:59:59", 0, false},
		{"huge day fraction", "1e300", 0, false},
		{"days past int64", "106752 days", 0, false},
		{"days plus clock overflow", "106751 days 23:59:59", 0, false},
		{"huge go duration", "9999999999h", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDuration(tt.in).Get()
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

package model

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Timestamp is an optional point in time. The zero value is absent.
type Timestamp struct {
	t  time.Time
	ok bool
}

// NewTimestamp returns a present timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t, ok: true}
}

// Get returns the timestamp and whether it is present.
func (ts Timestamp) Get() (time.Time, bool) {
	return ts.t, ts.ok
}

// Valid reports whether the timestamp is present.
func (ts Timestamp) Valid() bool { return ts.ok }

// Clock returns the time-of-day component.
func (ts Timestamp) Clock() (civil.Time, bool) {
	if !ts.ok {
		return civil.Time{}, false
	}
	return civil.TimeOf(ts.t), true
}

// Date returns the calendar date component.
func (ts Timestamp) Date() (civil.Date, bool) {
	if !ts.ok {
		return civil.Date{}, false
	}
	return civil.DateOf(ts.t), true
}

// String formats present timestamps as "2006-01-02 15:04:05" and absent ones as "".
func (ts Timestamp) String() string {
	if !ts.ok {
		return ""
	}
	return ts.t.Format(time.DateTime)
}

// MarshalJSON encodes an absent timestamp as null.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.ok {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t.Format(time.DateTime))
}

// Duration is an optional elapsed time. The zero value is absent.
type Duration struct {
	d  time.Duration
	ok bool
}

// NewDuration returns a present duration.
func NewDuration(d time.Duration) Duration {
	return Duration{d: d, ok: true}
}

// Get returns the duration and whether it is present.
func (du Duration) Get() (time.Duration, bool) {
	return du.d, du.ok
}

// Valid reports whether the duration is present.
func (du Duration) Valid() bool { return du.ok }

// String formats present durations as H:MM:SS and absent ones as "".
func (du Duration) String() string {
	if !du.ok {
		return ""
	}
	total := int64(du.d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// MarshalJSON encodes an absent duration as null.
func (du Duration) MarshalJSON() ([]byte, error) {
	if !du.ok {
		return []byte("null"), nil
	}
	return json.Marshal(du.String())
}

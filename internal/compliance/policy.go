// Package compliance evaluates attendance records against configurable
// entry, downtime and exit thresholds.
package compliance

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/simova-report/internal/config"
)

// EntryMode selects how the entry window is bounded.
type EntryMode string

// Entry window variants.
const (
	// EntryUpperBound accepts any entry up to the latest time.
	EntryUpperBound EntryMode = "upper"
	// EntryBounded also rejects entries before the earliest time.
	EntryBounded EntryMode = "bounded"
)

// Window is an inclusive time-of-day range.
type Window struct {
	Start civil.Time
	End   civil.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t civil.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Policy holds every threshold used by the Evaluator.
type Policy struct {
	EntryMode     EntryMode
	EntryEarliest civil.Time // only used by EntryBounded
	EntryLatest   civil.Time
	Exit          Window
	MaxDowntime   time.Duration
}

// DefaultPolicy returns the upper-bound entry rule: entry by 08:45, at most one
// hour of unproductive downtime, exit between 16:30 and 19:00.
func DefaultPolicy() Policy {
	return Policy{
		EntryMode:     EntryUpperBound,
		EntryEarliest: civil.Time{Hour: 4},
		EntryLatest:   civil.Time{Hour: 8, Minute: 45},
		Exit: Window{
			Start: civil.Time{Hour: 16, Minute: 30},
			End:   civil.Time{Hour: 19},
		},
		MaxDowntime: time.Hour,
	}
}

// BoundedEntryPolicy is DefaultPolicy with entries also required after 04:00.
func BoundedEntryPolicy() Policy {
	p := DefaultPolicy()
	p.EntryMode = EntryBounded
	return p
}

// EntryWindow returns the effective entry window for the policy's mode.
func (p Policy) EntryWindow() Window {
	if p.EntryMode == EntryBounded {
		return Window{Start: p.EntryEarliest, End: p.EntryLatest}
	}
	return Window{Start: civil.Time{}, End: p.EntryLatest}
}

// Validate checks the thresholds are coherent.
func (p Policy) Validate() error {
	switch p.EntryMode {
	case EntryUpperBound:
	case EntryBounded:
		if p.EntryEarliest.After(p.EntryLatest) {
			return eris.Errorf("compliance: entry earliest %s is after latest %s", p.EntryEarliest, p.EntryLatest)
		}
	default:
		return eris.Errorf("compliance: unknown entry mode %q", p.EntryMode)
	}
	for _, t := range []civil.Time{p.EntryEarliest, p.EntryLatest, p.Exit.Start, p.Exit.End} {
		if !t.IsValid() {
			return eris.Errorf("compliance: invalid time of day %s", t)
		}
	}
	if p.Exit.Start.After(p.Exit.End) {
		return eris.Errorf("compliance: exit window start %s is after end %s", p.Exit.Start, p.Exit.End)
	}
	if p.MaxDowntime < 0 {
		return eris.Errorf("compliance: max downtime %s is negative", p.MaxDowntime)
	}
	return nil
}

// PolicyFromConfig builds and validates a Policy from configuration values.
func PolicyFromConfig(cfg config.RulesConfig) (Policy, error) {
	p := DefaultPolicy()
	if cfg.EntryMode != "" {
		p.EntryMode = EntryMode(cfg.EntryMode)
	}
	p.MaxDowntime = cfg.MaxDowntime

	fields := []struct {
		name string
		raw  string
		dst  *civil.Time
	}{
		{"entry_earliest", cfg.EntryEarliest, &p.EntryEarliest},
		{"entry_latest", cfg.EntryLatest, &p.EntryLatest},
		{"exit_start", cfg.ExitStart, &p.Exit.Start},
		{"exit_end", cfg.ExitEnd, &p.Exit.End},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		t, err := ParseClock(f.raw)
		if err != nil {
			return Policy{}, eris.Wrapf(err, "compliance: rules.%s", f.name)
		}
		*f.dst = t
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// ParseClock parses "HH:MM:SS" or "HH:MM".
func ParseClock(s string) (civil.Time, error) {
	t, err := civil.ParseTime(s)
	if err == nil {
		return t, nil
	}
	if t, err2 := civil.ParseTime(s + ":00"); err2 == nil {
		return t, nil
	}
	return civil.Time{}, eris.Wrapf(err, "parse clock %q", s)
}

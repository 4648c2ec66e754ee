package domain

import (
	"fmt"
	"time"
)

// DateLayout is the textual form of a SafeDate.
const DateLayout = "2006-01-02"

// SafeDate is a validated calendar date with no time-of-day component.
// The zero value means "no date".
type SafeDate struct {
	t time.Time
}

// NewSafeDate validates year/month/day and rejects dates that would be
// normalized (for example February 30).
func NewSafeDate(year, month, day int) (SafeDate, error) {
	if year < 1900 {
		return SafeDate{}, NewInvalidArgumentError("date", "year must be >= 1900", year)
	}
	if month < 1 || month > 12 {
		return SafeDate{}, NewInvalidArgumentError("date", "month must be between 1 and 12", month)
	}
	if day < 1 || day > 31 {
		return SafeDate{}, NewInvalidArgumentError("date", "day must be between 1 and 31", day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return SafeDate{}, NewInvalidArgumentError("date", "no such calendar day",
			fmt.Sprintf("%04d-%02d-%02d", year, month, day))
	}
	return SafeDate{t: t}, nil
}

// MustSafeDate is NewSafeDate for constants; it panics on invalid input.
func MustSafeDate(year, month, day int) SafeDate {
	d, err := NewSafeDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseSafeDate parses YYYY-MM-DD.
func ParseSafeDate(s string) (SafeDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return SafeDate{}, NewInvalidArgumentError("date", "expected YYYY-MM-DD", s)
	}
	return NewSafeDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current local calendar date.
func Today() SafeDate {
	now := time.Now()
	return SafeDate{t: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d SafeDate) IsZero() bool { return d.t.IsZero() }

func (d SafeDate) Before(other SafeDate) bool { return d.t.Before(other.t) }

func (d SafeDate) Equal(other SafeDate) bool { return d.t.Equal(other.t) }

// IsExpired reports whether the date lies strictly before today.
func (d SafeDate) IsExpired() bool {
	return !d.IsZero() && d.Before(Today())
}

func (d SafeDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML both store YYYY-MM-DD.
func (d SafeDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *SafeDate) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = SafeDate{}
		return nil
	}
	parsed, err := ParseSafeDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

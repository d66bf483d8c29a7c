// Package times holds the clock and date plumbing shared by the engine:
// a timezone-adjusted "now", humanized durations, date-of-birth validation
// and clock-of-day parsing for manually supplied times.
package times

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp layout used everywhere an event timestamp is rendered or stored.
const Layout = "2006-01-02 15:04:05"

// DateLayout is the canonical date-only form (DOB, milestone day keys).
const DateLayout = "2006-01-02"

// MaxDOBAgeDays bounds how far back a child's date of birth may lie.
const MaxDOBAgeDays = 1100

// Clock produces the current time in the household's timezone. The zero
// value is not usable; construct with NewClock. Tests override NowFn.
type Clock struct {
	Loc   *time.Location
	NowFn func() time.Time
}

// NewClock returns a clock pinned to a fixed UTC offset. The hosted
// deployment runs in UTC, so local time is derived by offset rather than
// by zone database lookups.
func NewClock(utcOffsetHours int) *Clock {
	name := fmt.Sprintf("UTC%+d", utcOffsetHours)
	return &Clock{
		Loc:   time.FixedZone(name, utcOffsetHours*3600),
		NowFn: time.Now,
	}
}

// Now returns the current local time, truncated to second precision.
func (c *Clock) Now() time.Time {
	return c.NowFn().In(c.Loc).Truncate(time.Second)
}

// TodayKey returns the local calendar-day key (YYYY-MM-DD).
func (c *Clock) TodayKey() string {
	return c.Now().Format(DateLayout)
}

// Midnight returns local midnight of the current day.
func (c *Clock) Midnight() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Loc)
}

// FormatSince renders an elapsed duration as "Xh Ym ago" / "Ym ago".
// Negative durations are clamped to zero.
func FormatSince(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	mins := int(d.Minutes())
	hours := mins / 60
	mins = mins % 60
	if hours > 0 {
		if mins > 0 {
			return fmt.Sprintf("%dh %dm ago", hours, mins)
		}
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dm ago", mins)
}

// FormatMinutes renders a minute count as "Xh Ym" / "Ym".
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	if mins >= 60 {
		if mins%60 > 0 {
			return fmt.Sprintf("%dh %dm", mins/60, mins%60)
		}
		return fmt.Sprintf("%dh", mins/60)
	}
	return fmt.Sprintf("%dm", mins)
}

// dobFormats lists the date shapes accepted during onboarding.
var dobFormats = []string{"02/01/2006", "02/01/06", "2006-01-02", "02.01.2006", "02.01.06"}

// ValidateDOB parses a typed date of birth and returns it in canonical
// YYYY-MM-DD form. The date must be a real calendar date, not in the
// future, and at most MaxDOBAgeDays in the past.
func ValidateDOB(s string, today time.Time) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dobFormats {
		d, err := time.ParseInLocation(layout, s, today.Location())
		if err != nil {
			continue
		}
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, today.Location())
		localToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
		if day.After(localToday) {
			return "", false
		}
		if localToday.Sub(day) > time.Duration(MaxDOBAgeDays)*24*time.Hour {
			return "", false
		}
		return day.Format(DateLayout), true
	}
	return "", false
}

// AtClock resolves an "HH:MM" time of day against now. A time of day later
// than the current moment is taken to mean the previous calendar day, so
// "went to sleep at 23:40" typed after midnight does the right thing.
func AtClock(hour, minute int, now time.Time) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if t.After(now) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AgeLine describes the child's age from a canonical DOB: days under one
// month, whole months after.
func AgeLine(dob string, now time.Time) string {
	d, err := time.ParseInLocation(DateLayout, dob, now.Location())
	if err != nil {
		return ""
	}
	days := int(now.Sub(d).Hours() / 24)
	if days < 0 {
		return ""
	}
	if days < 30 {
		return fmt.Sprintf("%d days old", days)
	}
	return fmt.Sprintf("%d months old", days/30)
}

package times

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) *Clock {
	c := NewClock(2)
	c.NowFn = func() time.Time { return t }
	return c
}

func TestClockNow(t *testing.T) {
	utc := time.Date(2026, 3, 10, 22, 30, 15, 999, time.UTC)
	c := fixedClock(utc)

	now := c.Now()
	assert.Equal(t, 0, now.Hour(), "UTC 22:30 +2h should roll into the next local day")
	assert.Equal(t, 30, now.Minute())
	assert.Equal(t, 0, now.Nanosecond())
	assert.Equal(t, "2026-03-11", c.TodayKey())
}

func TestMidnight(t *testing.T) {
	c := fixedClock(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	mid := c.Midnight()
	assert.Equal(t, 0, mid.Hour())
	assert.Equal(t, 0, mid.Minute())
	assert.Equal(t, c.Now().Day(), mid.Day())
}

func TestFormatSince(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Minute, "5m ago"},
		{60 * time.Minute, "1h ago"},
		{95 * time.Minute, "1h 35m ago"},
		{-3 * time.Minute, "0m ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSince(tt.d))
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "1h 25m", FormatMinutes(85))
}

func TestValidateDOB(t *testing.T) {
	today := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("accepted formats", func(t *testing.T) {
		for _, in := range []string{"01/06/2024", "01/06/24", "2024-06-01", "01.06.2024"} {
			got, ok := ValidateDOB(in, today)
			require.True(t, ok, "input %q", in)
			assert.Equal(t, "2024-06-01", got)
		}
	})

	t.Run("invalid calendar date", func(t *testing.T) {
		_, ok := ValidateDOB("31/02/2024", today)
		assert.False(t, ok)
	})

	t.Run("future date", func(t *testing.T) {
		_, ok := ValidateDOB("01/07/2026", today)
		assert.False(t, ok)
	})

	t.Run("too far back", func(t *testing.T) {
		_, ok := ValidateDOB("01/01/2020", today)
		assert.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := ValidateDOB("not a date", today)
		assert.False(t, ok)
	})
}

func TestAtClock(t *testing.T) {
	now := time.Date(2026, 3, 11, 0, 15, 0, 0, time.UTC)

	t.Run("earlier today", func(t *testing.T) {
		got := AtClock(0, 5, now)
		assert.Equal(t, now.Day(), got.Day())
		assert.Equal(t, 5, got.Minute())
	})

	t.Run("later than now rolls back a day", func(t *testing.T) {
		got := AtClock(23, 40, now)
		assert.Equal(t, 10, got.Day())
		assert.Equal(t, 23, got.Hour())
	})
}

func TestAgeLine(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "10 days old", AgeLine("2026-05-22", now))
	assert.Equal(t, "12 months old", AgeLine("2025-06-01", now))
	assert.Equal(t, "", AgeLine("bogus", now))
}

package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightsFireAfterQuietHours(t *testing.T) {
	e := newEnv(t)
	e.onboard()

	e.at(7, 0).send(primary, "wet diaper")
	e.at(7, 30).send(primary, "pumped 100")
	e.at(8, 0).send(primary, "bottle 90")
	e.at(8, 45).send(primary, "she woke up")

	replies := e.at(12, 0).send(primary, "status")
	joined := strings.Join(replies, "\n")
	assert.Contains(t, joined, "about 4h since the last feed")
	assert.Contains(t, joined, "about 4h since the last pumping")
	assert.Contains(t, joined, "about 5h since the last diaper change")
	assert.Contains(t, joined, "awake for about 3h (woke at 08:45)")
}

func TestInsightsSilentWhenRecent(t *testing.T) {
	e := newEnv(t)
	e.onboard()

	e.at(11, 30).send(primary, "bottle 60")
	e.at(11, 35).send(primary, "wet diaper")

	replies := e.at(12, 0).send(primary, "status")
	// just the header and the summary block, no nudges
	require.Len(t, replies, 2)
	for _, r := range replies {
		assert.NotContains(t, r, "It has been")
	}
}

func TestSummaryOmitsPumpingWhenZero(t *testing.T) {
	e := newEnv(t)
	e.onboard()

	e.at(9, 0).send(primary, "bottle 120")
	replies := e.at(10, 0).send(primary, "summary")
	joined := strings.Join(replies, "\n")
	assert.Contains(t, joined, "Bottles: 120 ml")
	assert.NotContains(t, joined, "Pumped")

	e.at(10, 30).send(primary, "pumped 80")
	replies = e.at(11, 0).send(primary, "summary")
	assert.Contains(t, strings.Join(replies, "\n"), "Pumped: 80 ml")
}

func TestSummaryEmptyWindow(t *testing.T) {
	e := newEnv(t)
	e.onboard()

	e.at(6, 0).send(primary, "bottle 100")
	replies := e.at(12, 0).send(primary, "summary 2 hours")
	require.Len(t, replies, 1)
	assert.Equal(t, "No entries in the last 2 hours.", replies[0])
}

func TestCompareReportAverages(t *testing.T) {
	e := newEnv(t)
	e.onboard()

	e.addDays(-1)
	e.at(9, 0).send(primary, "bottle 100")
	e.at(15, 0).send(primary, "bottle 80")
	e.addDays(1)
	e.at(9, 0).send(primary, "bottle 60")

	replies := e.send(primary, "compare 2")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Today vs the 2-day average")
	assert.Contains(t, replies[0], "Bottles: 60 ml today (avg 120 ml)")
}

func TestCompareReportWeekKeyword(t *testing.T) {
	e := newEnv(t)
	e.onboard()

	e.at(9, 0).send(primary, "bottle 70")
	replies := e.send(primary, "compare week")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Today vs the 7-day average")
	assert.Contains(t, replies[0], "Bottles: 70 ml today (avg 10 ml)")
}

func TestCompareReportEmpty(t *testing.T) {
	e := newEnv(t)
	e.onboard()

	replies := e.send(primary, "compare 3")
	require.Len(t, replies, 1)
	assert.Equal(t, "No entries in the last 3 days.", replies[0])
}

package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinytrack/internal/model"
)

func TestOnboardingRejectsInvalidDOB(t *testing.T) {
	e := newEnv(t)
	e.send(primary, "hi")
	e.send(primary, "Dana")
	e.send(primary, "1")
	e.send(primary, "Ben")

	// impossible calendar date: stage must not advance
	replies := e.send(primary, "31/02/2024")
	assert.Contains(t, strings.Join(replies, "\n"), "doesn't look right")
	assert.Equal(t, model.StageAskDOB, e.profile().Stage)

	// future date is rejected the same way
	replies = e.send(primary, "01/06/2030")
	assert.Contains(t, strings.Join(replies, "\n"), "doesn't look right")
	assert.Equal(t, model.StageAskDOB, e.profile().Stage)

	replies = e.send(primary, "01/06/2024")
	assert.Contains(t, strings.Join(replies, "\n"), "How is the baby fed?")
	assert.Equal(t, model.StageAskFeedingMode, e.profile().Stage)
}

func TestOnboardingRepromptsOnBadChoice(t *testing.T) {
	e := newEnv(t)
	e.send(primary, "hi")
	e.send(primary, "Dana")

	replies := e.send(primary, "maybe")
	assert.Contains(t, strings.Join(replies, "\n"), "1) boy or 2) girl")
	assert.Equal(t, model.StageAskChildSex, e.profile().Stage)

	e.send(primary, "boy")
	assert.Equal(t, model.StageAskChildName, e.profile().Stage)
}

func TestOnboardingCompletionWelcomes(t *testing.T) {
	e := newEnv(t)
	e.send(primary, "hi")
	e.send(primary, "Dana")
	e.send(primary, "2")
	e.send(primary, "Noa")
	e.send(primary, "01/06/2024")

	replies := e.send(primary, "3")
	joined := strings.Join(replies, "\n")
	assert.Contains(t, joined, "Dana, we're all set!")
	assert.Contains(t, joined, "How to log things")

	p := e.profile()
	require.Equal(t, model.StageActive, p.Stage)
	assert.Equal(t, model.FeedingMixed, p.FeedingMode)
	assert.Equal(t, "Noa", p.ChildName)
}

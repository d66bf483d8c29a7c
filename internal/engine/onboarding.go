package engine

import (
	"fmt"
	"strings"

	"tinytrack/internal/model"
	"tinytrack/internal/times"
)

// Onboarding is a fixed linear sequence of profile questions. A failed
// validation repeats the same prompt without advancing; reaching Active is
// terminal until an explicit reset deletes the record.

func onboardingIntro() string {
	return "Hi! I'm your baby diary. I keep track of feeds, diapers and sleep " +
		"so you don't have to.\n\nFirst things first - what's your name?"
}

// advanceOnboarding consumes one answer for the current stage.
func (e *Engine) advanceOnboarding(p *model.Profile, text string) []string {
	answer := strings.TrimSpace(text)

	switch p.Stage {
	case model.StageAskCaregiverName:
		if answer == "" {
			return []string{"What's your name?"}
		}
		p.CaregiverName = answer
		p.Stage = model.StageAskChildSex
		return []string{fmt.Sprintf("Nice to meet you, %s!\nIs the baby a boy or a girl?\n1) boy\n2) girl", answer)}

	case model.StageAskChildSex:
		sex, ok := parseSexChoice(answer)
		if !ok {
			return []string{"I didn't catch that. Reply 1) boy or 2) girl."}
		}
		p.ChildSex = sex
		p.Stage = model.StageAskChildName
		return []string{"And what's the baby's name?"}

	case model.StageAskChildName:
		if answer == "" {
			return []string{"What's the baby's name?"}
		}
		p.ChildName = answer
		p.Stage = model.StageAskDOB
		return []string{fmt.Sprintf("%s - lovely!\nWhat's the date of birth? For example: 01/06/2024", answer)}

	case model.StageAskDOB:
		dob, ok := times.ValidateDOB(answer, e.clock.Now())
		if !ok {
			return []string{"That date doesn't look right. Try the format 01/06/2024."}
		}
		p.DOB = dob
		p.Stage = model.StageAskFeedingMode
		return []string{"Almost done! How is the baby fed?\n1) breast\n2) bottle\n3) mixed"}

	case model.StageAskFeedingMode:
		mode, ok := parseFeedingChoice(answer)
		if !ok {
			return []string{"Reply 1) breast, 2) bottle or 3) mixed."}
		}
		p.FeedingMode = mode
		p.Stage = model.StageActive
		return []string{welcome(p)}
	}

	// Active profiles never re-enter onboarding.
	return []string{unknownReply}
}

func parseSexChoice(answer string) (model.ChildSex, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "1", "boy", "male":
		return model.SexMale, true
	case "2", "girl", "female":
		return model.SexFemale, true
	}
	return model.SexUnspecified, false
}

func parseFeedingChoice(answer string) (model.FeedingMode, bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "1", "breast", "nursing":
		return model.FeedingBreast, true
	case "2", "bottle", "formula":
		return model.FeedingBottle, true
	case "3", "mixed", "both":
		return model.FeedingMixed, true
	}
	return "", false
}

func welcome(p *model.Profile) string {
	return fmt.Sprintf(`%s, we're all set!

How to log things:
- Nursing: 'right 10' (side and minutes), one line per side
- Bottle: 'bottle 120'
- Pumping: 'pumped 80', optionally a side: 'pumped left 60'
- Diaper: 'wet', 'poo' or just 'diaper'
- Sleep: 'fell asleep' / 'woke up', or 'slept 40'

Ask 'status' any time for today's picture of %s, 'summary 6' for the
last 6 hours, and 'help' for tips.`, p.CaregiverName, p.ChildLabel())
}

package engine

import (
	"fmt"
	"time"

	"tinytrack/internal/model"
	"tinytrack/internal/parse"
	"tinytrack/internal/times"
)

// Timers hold at most one open interval per kind. A second start never
// silently overwrites the running one; it raises an explicit choice.
// Stopping converts the open interval into an event with a duration
// clamped to at least one minute.

func (e *Engine) startTimer(p *model.Profile, act parse.Action, now time.Time, g model.GrammarForms) []string {
	start := now
	if act.Clock != nil {
		start = times.AtClock(act.Clock.Hour, act.Clock.Minute, now)
	}

	if open := p.Timer(act.Timer); open != nil {
		p.Pending = &model.PendingSlot{Kind: model.SlotTimerConflict, Timer: act.Timer}
		return []string{fmt.Sprintf(
			"A %s timer is already running (since %s). What should I do?\n1) restart it from now\n2) cancel, keep it as is",
			act.Timer, open.Start.Format("15:04"))}
	}

	p.SetTimer(&model.OpenTimer{Kind: act.Timer, Start: start, Side: act.Side})
	switch act.Timer {
	case model.TimerSleep:
		return []string{fmt.Sprintf("Sleep tight, %s. Tell me when %s wakes up.", p.ChildLabel(), g.Subject)}
	default:
		return []string{fmt.Sprintf("Nursing started%s. Tell me when you're done.", sideSuffix(act.Side))}
	}
}

func (e *Engine) stopTimer(p *model.Profile, act parse.Action, now time.Time, g model.GrammarForms) []string {
	end := now
	if act.Clock != nil {
		end = times.AtClock(act.Clock.Hour, act.Clock.Minute, now)
	}

	open := p.Timer(act.Timer)
	if open == nil {
		if act.Timer == model.TimerSleep {
			// a wake-up without a recorded start is still worth keeping:
			// the awake-duration insight needs the end timestamp
			e.appendEvent(p, model.EventSleep, model.EventDetails{EndAt: &end}, end)
			out := []string{fmt.Sprintf(
				"Noted that %s is up (I didn't have a sleep start on record).", p.ChildLabel())}
			return append(out, e.maybeEncourage(p)...)
		}
		return []string{"No nursing timer is running."}
	}

	mins := int(end.Sub(open.Start).Minutes())
	if mins < 1 {
		mins = 1
	}
	start := open.Start
	p.ClearTimer(act.Timer)

	switch act.Timer {
	case model.TimerSleep:
		e.appendEvent(p, model.EventSleep, model.EventDetails{
			DurationMin: mins,
			StartAt:     &start,
			EndAt:       &end,
		}, end)
		out := []string{fmt.Sprintf("Good morning! %s %s for %s.",
			p.ChildLabel(), g.SleepVerb, times.FormatMinutes(mins))}
		return append(out, e.maybeEncourage(p)...)
	default:
		e.appendEvent(p, model.EventBreast, model.EventDetails{
			Side:        open.Side,
			DurationMin: mins,
		}, end)
		out := []string{fmt.Sprintf("Logged nursing: %d min%s.", mins, sideSuffix(open.Side))}
		return append(out, e.maybeEncourage(p)...)
	}
}

func (e *Engine) resolveTimerConflict(p *model.Profile, act parse.Action, now time.Time) []string {
	open := p.Timer(act.Timer)
	if open == nil {
		// the timer disappeared between question and answer (undo, stop)
		return []string{fmt.Sprintf("There is no %s timer running anymore.", act.Timer)}
	}
	if act.Resolution == parse.ResolutionRestart {
		open.Start = now
		return []string{fmt.Sprintf("Restarted the %s timer from %s.", act.Timer, now.Format("15:04"))}
	}
	return []string{fmt.Sprintf("Kept the running %s timer (since %s).", act.Timer, open.Start.Format("15:04"))}
}

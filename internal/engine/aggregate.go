package engine

import (
	"fmt"
	"strings"
	"time"

	"tinytrack/internal/model"
	"tinytrack/internal/parse"
	"tinytrack/internal/times"
)

// The aggregator leans on the append-order invariant: events are treated
// as monotonically non-decreasing in timestamp, so recency queries scan
// backward from the end and window scans stop at the first event before
// the cutoff.

// summaryWindow selects "since local midnight" (zero value) or "last N
// hours".
type summaryWindow struct {
	Hours    int
	HasHours bool
}

// Totals are the per-type sums over a window.
type Totals struct {
	BottleML    int
	PumpML      int
	BreastCount int
	DiaperCount int
	SleepMin    int
	Count       int
}

// lastEvent returns the most recent event whose type is in the set, or
// nil. Cost is proportional to the distance from the end of the log.
func lastEvent(p *model.Profile, types []model.EventType) *model.Event {
	for i := len(p.Events) - 1; i >= 0; i-- {
		for _, t := range types {
			if p.Events[i].Type == t {
				return &p.Events[i]
			}
		}
	}
	return nil
}

// tally sums events at or after the cutoff, scanning from the end and
// stopping early.
func tally(p *model.Profile, cutoff time.Time) Totals {
	var t Totals
	for i := len(p.Events) - 1; i >= 0; i-- {
		ev := p.Events[i]
		if ev.Timestamp.Before(cutoff) {
			break
		}
		t.Count++
		switch ev.Type {
		case model.EventBottle:
			t.BottleML += ev.Details.AmountML
		case model.EventPump:
			t.PumpML += ev.Details.AmountML
		case model.EventBreast:
			t.BreastCount++
		case model.EventDiaper:
			t.DiaperCount++
		case model.EventSleep:
			t.SleepMin += ev.Details.DurationMin
		}
	}
	return t
}

func (e *Engine) renderSummary(p *model.Profile, w summaryWindow) string {
	now := e.clock.Now()
	cutoff := e.clock.Midnight()
	label := "since midnight"
	if w.HasHours {
		cutoff = now.Add(-time.Duration(w.Hours) * time.Hour)
		label = fmt.Sprintf("in the last %d hours", w.Hours)
	}

	t := tally(p, cutoff)
	if t.Count == 0 {
		return fmt.Sprintf("No entries %s.", label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Summary %s for %s:\n", label, p.ChildLabel())
	fmt.Fprintf(&b, "- Bottles: %d ml\n", t.BottleML)
	if t.PumpML > 0 {
		fmt.Fprintf(&b, "- Pumped: %d ml\n", t.PumpML)
	}
	fmt.Fprintf(&b, "- Nursing: %d\n", t.BreastCount)
	fmt.Fprintf(&b, "- Diapers: %d\n", t.DiaperCount)
	fmt.Fprintf(&b, "- Sleep: %s", times.FormatMinutes(t.SleepMin))
	return b.String()
}

// renderComparison buckets the trailing daysBack days (today included)
// and reports today's totals beside the trailing average.
func (e *Engine) renderComparison(p *model.Profile, daysBack int) string {
	if daysBack < 1 {
		daysBack = 1
	}
	now := e.clock.Now()
	today := now.Format(times.DateLayout)
	cutoff := e.clock.Midnight().AddDate(0, 0, -(daysBack - 1))

	perDay := make(map[string]*Totals)
	for i := len(p.Events) - 1; i >= 0; i-- {
		ev := p.Events[i]
		if ev.Timestamp.Before(cutoff) {
			break
		}
		key := ev.Timestamp.Format(times.DateLayout)
		t := perDay[key]
		if t == nil {
			t = &Totals{}
			perDay[key] = t
		}
		t.Count++
		switch ev.Type {
		case model.EventBottle:
			t.BottleML += ev.Details.AmountML
		case model.EventBreast:
			t.BreastCount++
		case model.EventDiaper:
			t.DiaperCount++
		case model.EventSleep:
			t.SleepMin += ev.Details.DurationMin
		}
	}

	if len(perDay) == 0 {
		return fmt.Sprintf("No entries in the last %d days.", daysBack)
	}

	var sumML, sumBreast, sumDiaper, sumSleep int
	for _, t := range perDay {
		sumML += t.BottleML
		sumBreast += t.BreastCount
		sumDiaper += t.DiaperCount
		sumSleep += t.SleepMin
	}
	n := daysBack
	td := perDay[today]
	if td == nil {
		td = &Totals{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today vs the %d-day average for %s:\n", daysBack, p.ChildLabel())
	fmt.Fprintf(&b, "- Bottles: %d ml today (avg %d ml)\n", td.BottleML, sumML/n)
	fmt.Fprintf(&b, "- Nursing: %d today (avg %d)\n", td.BreastCount, sumBreast/n)
	fmt.Fprintf(&b, "- Diapers: %d today (avg %d)\n", td.DiaperCount, sumDiaper/n)
	fmt.Fprintf(&b, "- Sleep: %s today (avg %s)",
		times.FormatMinutes(td.SleepMin), times.FormatMinutes(sumSleep/n))
	return b.String()
}

// insightDelays are the "it has been a while" thresholds per domain.
var insightDelays = struct {
	feed, pump, diaper, awake time.Duration
}{
	feed:   3 * time.Hour,
	pump:   4 * time.Hour,
	diaper: 4 * time.Hour,
	awake:  2 * time.Hour,
}

// insights runs the fixed battery of threshold checks. Each insight is
// computed independently and silently omitted when its precondition is
// missing; the battery never fails the query.
func (e *Engine) insights(p *model.Profile, now time.Time) []string {
	var out []string

	if ev := lastEvent(p, model.FeedTypes); ev != nil {
		if d := now.Sub(ev.Timestamp); d >= insightDelays.feed {
			out = append(out, fmt.Sprintf("It has been about %dh since the last feed.", int(d.Hours())))
		}
	}
	if ev := lastEvent(p, []model.EventType{model.EventPump}); ev != nil {
		if d := now.Sub(ev.Timestamp); d >= insightDelays.pump {
			out = append(out, fmt.Sprintf("It has been about %dh since the last pumping.", int(d.Hours())))
		}
	}
	if ev := lastEvent(p, []model.EventType{model.EventDiaper}); ev != nil {
		if d := now.Sub(ev.Timestamp); d >= insightDelays.diaper {
			out = append(out, fmt.Sprintf("It has been about %dh since the last diaper change.", int(d.Hours())))
		}
	}
	if end := lastSleepEnd(p); end != nil {
		if d := now.Sub(*end); d >= insightDelays.awake {
			g := model.Grammar(p.ChildSex)
			out = append(out, fmt.Sprintf("%s has been %s for about %dh (woke at %s).",
				p.ChildLabel(), g.AwakeAdj, int(d.Hours()), end.Format("15:04")))
		}
	}
	return out
}

// lastSleepEnd finds the most recent recorded wake-up time.
func lastSleepEnd(p *model.Profile) *time.Time {
	for i := len(p.Events) - 1; i >= 0; i-- {
		ev := p.Events[i]
		if ev.Type == model.EventSleep && ev.Details.EndAt != nil {
			return ev.Details.EndAt
		}
	}
	return nil
}

func (e *Engine) whenLast(p *model.Profile, act parse.Action) string {
	now := e.clock.Now()

	// sleep distinguishes falling asleep from waking up
	if act.Field != "" {
		for i := len(p.Events) - 1; i >= 0; i-- {
			ev := p.Events[i]
			if ev.Type != model.EventSleep {
				continue
			}
			var ts *time.Time
			if act.Field == "end" {
				ts = ev.Details.EndAt
			} else {
				ts = ev.Details.StartAt
			}
			if ts == nil {
				continue
			}
			return fmt.Sprintf("The last %s %s was %s (%s).",
				act.Label, fieldWord(act.Field), times.FormatSince(now.Sub(*ts)), ts.Format("15:04"))
		}
		return fmt.Sprintf("I have no record of %s yet.", act.Label)
	}

	ev := lastEvent(p, act.Targets)
	if ev == nil {
		return fmt.Sprintf("I have no record of %s yet.", act.Label)
	}
	return fmt.Sprintf("The last %s was %s (%s).",
		act.Label, times.FormatSince(now.Sub(ev.Timestamp)), ev.Timestamp.Format("15:04"))
}

func fieldWord(field string) string {
	if field == "end" {
		return "wake-up"
	}
	return "start"
}

func (e *Engine) awakeReply(p *model.Profile, act parse.Action, now time.Time, g model.GrammarForms) string {
	if act.Clock != nil {
		since := times.AtClock(act.Clock.Hour, act.Clock.Minute, now)
		return fmt.Sprintf("%s has been %s for %s.",
			p.ChildLabel(), g.AwakeAdj, strings.TrimSuffix(times.FormatSince(now.Sub(since)), " ago"))
	}
	end := lastSleepEnd(p)
	if end == nil {
		return "I have no record of the last wake-up."
	}
	return fmt.Sprintf("%s has been %s for %s (woke at %s).",
		p.ChildLabel(), g.AwakeAdj,
		strings.TrimSuffix(times.FormatSince(now.Sub(*end)), " ago"), end.Format("15:04"))
}

// formatEvent renders one event for the undo confirmation.
func formatEvent(ev model.Event) string {
	hm := ev.Timestamp.Format("15:04")
	d := ev.Details
	switch ev.Type {
	case model.EventBreast:
		return fmt.Sprintf("nursing %d min%s at %s", d.DurationMin, sideSuffix(d.Side), hm)
	case model.EventBottle:
		return fmt.Sprintf("bottle %d ml at %s", d.AmountML, hm)
	case model.EventPump:
		return fmt.Sprintf("pumping %d ml%s at %s", d.AmountML, sideSuffix(d.Side), hm)
	case model.EventDiaper:
		return fmt.Sprintf("diaper (%s) at %s", d.Diaper, hm)
	case model.EventSleep:
		if d.DurationMin > 0 {
			return fmt.Sprintf("sleep %s ending at %s", times.FormatMinutes(d.DurationMin), hm)
		}
		return fmt.Sprintf("wake-up at %s", hm)
	}
	return fmt.Sprintf("%s at %s", ev.Type, hm)
}

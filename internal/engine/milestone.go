package engine

import (
	"hash/fnv"
	"math/rand"
	"strings"

	"tinytrack/internal/model"
)

// The milestone trigger fires one supportive message per threshold per
// calendar day. Counting is derived from the event log; only the firing
// state is stored. Day rollover resets implicitly: stale day keys are
// simply never read again.

// milestoneTiers maps fixed daily event-count thresholds to messages,
// in ascending order.
var milestoneTiers = []struct {
	Count   int
	Message string
}{
	{3, "Nice! Three entries already today - you're on top of this."},
	{4, "Four today. Consistency is the whole game, and you're winning it."},
	{8, "Eight entries - you're running this like a pro."},
	{12, "Twelve today! Take a deep breath, you've done great work."},
}

const extraTierMessage = "Still going strong - what a day you two are having."

// maybeEncourage is called after each successful logging action. It fires
// at most one message, and never the same tier twice in a day. Beyond the
// top tier it keeps firing at jittered intervals drawn from a per-day
// seeded source, so behavior within a day is deterministic.
func (e *Engine) maybeEncourage(p *model.Profile) []string {
	today := e.clock.TodayKey()
	count := countToday(p, today)

	if p.Milestones == nil {
		p.Milestones = make(map[string]*model.MilestoneDay)
	}
	day := p.Milestones[today]
	if day == nil {
		day = &model.MilestoneDay{}
		p.Milestones[today] = day
	}

	for _, tier := range milestoneTiers {
		if count >= tier.Count && day.LastFired < tier.Count {
			day.LastFired = tier.Count
			return []string{tier.Message}
		}
	}

	top := milestoneTiers[len(milestoneTiers)-1].Count
	if count > top {
		if day.NextThreshold == 0 {
			day.NextThreshold = top + e.jitter(today)
		}
		if count >= day.NextThreshold && day.LastFired < day.NextThreshold {
			day.LastFired = day.NextThreshold
			day.NextThreshold += e.jitter(today)
			return []string{extraTierMessage}
		}
	}
	return nil
}

// jitter draws a small increment (4..6) from a source seeded by the day
// key, so repeated calls within one day are reproducible.
func (e *Engine) jitter(today string) int {
	seed := e.seed
	if seed == 0 {
		h := fnv.New64a()
		h.Write([]byte(today))
		seed = int64(h.Sum64())
	}
	r := rand.New(rand.NewSource(seed))
	return 4 + r.Intn(3)
}

func countToday(p *model.Profile, today string) int {
	n := 0
	for i := len(p.Events) - 1; i >= 0; i-- {
		key := p.Events[i].Timestamp.Format("2006-01-02")
		if key != today {
			if strings.Compare(key, today) < 0 {
				break
			}
			continue
		}
		n++
	}
	return n
}

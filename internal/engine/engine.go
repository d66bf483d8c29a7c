// Package engine is the conversational core: it routes parsed actions to
// handlers, drives onboarding, appends events, manages open timers and
// composes replies. One inbound message is one synchronous unit of work
// against one profile record: load, mutate, persist.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tinytrack/internal/logging"
	"tinytrack/internal/model"
	"tinytrack/internal/parse"
	"tinytrack/internal/phone"
	"tinytrack/internal/store"
	"tinytrack/internal/times"
)

// Engine wires the store and clock into the message dispatcher.
type Engine struct {
	store store.Store
	clock *times.Clock
	seed  int64 // milestone jitter seed; 0 derives from the day key
}

// New returns an engine over the given store and clock.
func New(s store.Store, clock *times.Clock) *Engine {
	return &Engine{store: s, clock: clock}
}

// WithMilestoneSeed fixes the milestone jitter seed, mainly for tests.
func (e *Engine) WithMilestoneSeed(seed int64) *Engine {
	e.seed = seed
	return e
}

const unknownReply = "Not sure I understood. Try: 'right 10', 'bottle 120', " +
	"'pumped 80', 'wet diaper', 'fell asleep', 'woke up', 'status', 'summary', or 'help'."

// HandleMessage processes one inbound message and returns the replies, one
// outbound message each. A store failure is fatal for this request only.
func (e *Engine) HandleMessage(ctx context.Context, senderRaw, text string) ([]string, error) {
	uid := phone.Normalize(senderRaw)
	if uid == "" {
		return nil, fmt.Errorf("unusable sender address %q", senderRaw)
	}
	log := logging.Get(logging.CategoryDispatch)

	// Reset is privileged: it works at any stage and deletes the record.
	// The sender may be the registered partner, so the record is resolved
	// through the delegate mapping before removal.
	if strings.EqualFold(strings.TrimSpace(text), "reset") {
		p, err := store.Lookup(ctx, e.store, uid)
		if errors.Is(err, store.ErrNotFound) {
			return []string{"All cleared. Send any message to start over."}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reset lookup for %s: %w", uid, err)
		}
		if err := e.store.Remove(ctx, p.ID); err != nil {
			return nil, fmt.Errorf("reset %s: %w", p.ID, err)
		}
		log.Info("profile %s reset by %s", p.ID, uid)
		return []string{"All cleared. Send any message to start over."}, nil
	}

	p, err := store.Lookup(ctx, e.store, uid)
	if errors.Is(err, store.ErrNotFound) {
		p = model.NewProfile(uid)
		if err := e.store.Upsert(ctx, p); err != nil {
			return nil, fmt.Errorf("create profile %s: %w", uid, err)
		}
		return []string{onboardingIntro()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile for %s: %w", uid, err)
	}

	var replies []string
	if p.Stage != model.StageActive {
		replies = e.advanceOnboarding(p, text)
	} else {
		for _, line := range actionLines(text) {
			act := parse.Parse(line, p)
			log.Debug("profile %s: %q -> %s", p.ID, line, act.Type)
			replies = append(replies, e.apply(p, act)...)
		}
		if len(replies) == 0 {
			replies = append(replies, unknownReply)
		}
	}

	if err := e.store.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("persist profile %s: %w", p.ID, err)
	}
	return replies, nil
}

// actionLines splits a message into independently parsed lines, so
// "right 10\nleft 8" logs two nursing events.
func actionLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// apply routes one parsed action. It mutates the profile; persistence is
// the caller's job.
func (e *Engine) apply(p *model.Profile, act parse.Action) []string {
	// Any recognized command supersedes the outstanding question, except
	// undo, which wants to see it.
	hadPending := p.Pending
	if act.Type != parse.TypeUnknown {
		p.Pending = nil
	}

	g := model.Grammar(p.ChildSex)
	now := e.clock.Now()

	switch act.Type {
	case parse.TypeHelpMenu:
		return []string{helpMenu()}

	case parse.TypeHelpTopic:
		return []string{helpTopic(act.Topic)}

	case parse.TypeReset:
		// whole-message reset is intercepted earlier; reaching here means
		// it was buried in a multi-line message
		return []string{"To start over completely, send 'reset' on its own."}

	case parse.TypeUndo:
		return e.undo(p, hadPending)

	case parse.TypeStatus:
		out := []string{e.statusHeader(p)}
		out = append(out, e.renderSummary(p, summaryWindow{}))
		out = append(out, e.insights(p, now)...)
		return out

	case parse.TypeSummary:
		w := summaryWindow{}
		if act.HasHours {
			w.Hours, w.HasHours = act.Hours, true
		}
		out := []string{e.renderSummary(p, w)}
		out = append(out, e.insights(p, now)...)
		return out

	case parse.TypeCompare:
		return []string{e.renderComparison(p, act.Days)}

	case parse.TypeWhenLast:
		return []string{e.whenLast(p, act)}

	case parse.TypeAwake:
		return []string{e.awakeReply(p, act, now, g)}

	case parse.TypeAddDelegate:
		return e.addDelegate(p, act)

	case parse.TypeBottle:
		if act.Amount <= 0 {
			p.Pending = &model.PendingSlot{Kind: model.SlotAmount, Target: model.EventBottle}
			return []string{fmt.Sprintf("How many ml did %s drink?", p.ChildLabel())}
		}
		e.appendEvent(p, model.EventBottle, model.EventDetails{AmountML: act.Amount}, now)
		out := []string{fmt.Sprintf("Logged a %d ml bottle.", act.Amount)}
		return append(out, e.maybeEncourage(p)...)

	case parse.TypePump:
		if act.Amount <= 0 {
			p.Pending = &model.PendingSlot{Kind: model.SlotAmount, Target: model.EventPump, Side: act.Side}
			return []string{"How many ml did you pump?"}
		}
		e.appendEvent(p, model.EventPump, model.EventDetails{AmountML: act.Amount, Side: act.Side}, now)
		out := []string{fmt.Sprintf("Logged pumping: %d ml%s.", act.Amount, sideSuffix(act.Side))}
		return append(out, e.maybeEncourage(p)...)

	case parse.TypeBreast:
		if act.Minutes <= 0 {
			p.Pending = &model.PendingSlot{Kind: model.SlotDuration, Target: model.EventBreast, Side: act.Side}
			return []string{fmt.Sprintf("How many minutes was the feed%s?", sideSuffix(act.Side))}
		}
		e.appendEvent(p, model.EventBreast, model.EventDetails{Side: act.Side, DurationMin: act.Minutes}, now)
		out := []string{fmt.Sprintf("Logged nursing: %d min%s.", act.Minutes, sideSuffix(act.Side))}
		return append(out, e.maybeEncourage(p)...)

	case parse.TypeDiaper:
		e.appendEvent(p, model.EventDiaper, model.EventDetails{Diaper: act.Diaper}, now)
		out := []string{fmt.Sprintf("Logged a diaper change (%s).", act.Diaper)}
		return append(out, e.maybeEncourage(p)...)

	case parse.TypeSleepManual:
		if act.Minutes <= 0 {
			p.Pending = &model.PendingSlot{Kind: model.SlotDuration, Target: model.EventSleep}
			return []string{"How many minutes was the sleep?"}
		}
		e.appendEvent(p, model.EventSleep, model.EventDetails{DurationMin: act.Minutes}, now)
		out := []string{fmt.Sprintf("Logged %s of sleep.", times.FormatMinutes(act.Minutes))}
		return append(out, e.maybeEncourage(p)...)

	case parse.TypeClarifyNumber:
		p.Pending = &model.PendingSlot{Kind: model.SlotNumberChoice, Number: act.Number}
		return []string{fmt.Sprintf(
			"What does %d refer to?\n1) bottle (ml)\n2) pumping (ml)\n3) nursing (minutes)\n4) sleep (minutes)",
			act.Number)}

	case parse.TypeTimerStart:
		return e.startTimer(p, act, now, g)

	case parse.TypeTimerStop:
		return e.stopTimer(p, act, now, g)

	case parse.TypeTimerChoice:
		return e.resolveTimerConflict(p, act, now)
	}

	return []string{unknownReply}
}

// appendEvent appends one immutable event to the profile's log.
func (e *Engine) appendEvent(p *model.Profile, t model.EventType, d model.EventDetails, ts time.Time) model.Event {
	ev := model.Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: ts.Truncate(time.Second),
		Details:   d,
	}
	p.Events = append(p.Events, ev)
	logging.Get(logging.CategoryBot).Info("profile %s: append %s", p.ID, t)
	return ev
}

func (e *Engine) undo(p *model.Profile, hadPending *model.PendingSlot) []string {
	if hadPending != nil {
		// the pending question is withdrawn, nothing was logged yet
		return []string{"Cancelled the last question."}
	}
	if len(p.Events) == 0 {
		return []string{"Nothing to undo."}
	}
	removed := p.Events[len(p.Events)-1]
	p.Events = p.Events[:len(p.Events)-1]
	return []string{fmt.Sprintf("Removed the last entry: %s", formatEvent(removed))}
}

func (e *Engine) addDelegate(p *model.Profile, act parse.Action) []string {
	if act.Phone == "" {
		return []string{"I couldn't find a valid number. Try: 'add partner 0501234567'"}
	}
	p.DelegateID = phone.Normalize(act.Phone)
	return []string{fmt.Sprintf("Added a partner (%s). They can log to the same diary now.", p.DelegateID)}
}

func (e *Engine) statusHeader(p *model.Profile) string {
	age := times.AgeLine(p.DOB, e.clock.Now())
	if age != "" {
		return fmt.Sprintf("Status for %s (%s)", p.ChildLabel(), age)
	}
	return fmt.Sprintf("Status for %s", p.ChildLabel())
}

func sideSuffix(s model.Side) string {
	if s == model.SideNone {
		return ""
	}
	return fmt.Sprintf(" (%s)", s)
}

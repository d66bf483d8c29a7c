// Package parse turns one line of raw chat text into a structured Action.
// Parsing is a pure function of the line and the profile's pending slot;
// clearing the slot on success is the caller's responsibility.
//
// Match order is a contract, since keyword sets overlap:
//
//  1. pending-slot resolution (bare numbers, menu choices)
//  2. system commands (reset, help, undo, status, summary, compare)
//  3. timer start/stop for nursing and sleep
//  4. "when" queries
//  5. awake-duration queries
//  6. delegate registration
//  7. domain keywords: pumping > breastfeeding > bottle > diaper > sleep
//  8. bare number with no slot -> clarify-number
//  9. unknown
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"tinytrack/internal/model"
)

var (
	numberRe = regexp.MustCompile(`\d+`)
	clockRe  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	phoneRe  = regexp.MustCompile(`\b(05\d{8}|9725\d{8})\b`)
	// strip punctuation and emoji; keep word chars, whitespace and the
	// colon (clock times)
	cleanRe = regexp.MustCompile(`[^\w\s:]`)
)

// clean lowercases and strips decoration so keyword matching is stable.
func clean(line string) string {
	return strings.TrimSpace(cleanRe.ReplaceAllString(strings.ToLower(line), ""))
}

func firstNumber(s string) int {
	// clock times must not be read as amounts
	s = clockRe.ReplaceAllString(s, "")
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func extractClock(s string) *ClockTime {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return nil
	}
	return &ClockTime{Hour: h, Minute: min}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func sideOf(s string) model.Side {
	switch {
	case strings.Contains(s, "both"):
		return model.SideBoth
	case strings.Contains(s, "left"):
		return model.SideLeft
	case strings.Contains(s, "right"):
		return model.SideRight
	}
	return model.SideNone
}

// Parse interprets one line of user text given the profile's current
// pending slot.
func Parse(line string, p *model.Profile) Action {
	msg := clean(line)
	if msg == "" {
		return Action{Type: TypeUnknown}
	}

	isBareNumber := numberRe.MatchString(msg) && numberRe.FindString(msg) == msg

	// 1. Pending slot resolution beats all keyword matching.
	if p != nil && p.Pending != nil {
		if a, ok := resolvePending(msg, isBareNumber, p.Pending); ok {
			return a
		}
	}

	// 2. System commands. Reset is also intercepted before profile load
	// by the dispatcher; matching here keeps the parser total.
	if msg == "reset" {
		return Action{Type: TypeReset}
	}
	if msg == "help" || msg == "menu" {
		return Action{Type: TypeHelpMenu}
	}
	if isBareNumber && len(msg) == 1 && msg >= "1" && msg <= "4" {
		return Action{Type: TypeHelpTopic, Topic: msg}
	}
	if containsAny(msg, "undo", "oops", "mistake", "delete last") {
		return Action{Type: TypeUndo}
	}
	if strings.Contains(msg, "status") {
		return Action{Type: TypeStatus}
	}
	if strings.Contains(msg, "summary") {
		a := Action{Type: TypeSummary}
		if n := firstNumber(msg); n > 0 {
			a.Hours, a.HasHours = n, true
		}
		return a
	}
	if containsAny(msg, "compare", "report") {
		a := Action{Type: TypeCompare, Days: 7}
		if strings.Contains(msg, "week") {
			a.Days = 7
		} else if n := firstNumber(msg); n > 0 {
			a.Days = n
		}
		return a
	}

	// 3. Timer start/stop.
	if a, ok := parseTimer(msg); ok {
		return a
	}

	// 4. "When" queries.
	if strings.Contains(msg, "when") {
		if a, ok := parseWhen(msg); ok {
			return a
		}
	}

	// 5. Awake duration.
	if strings.Contains(msg, "awake") {
		return Action{Type: TypeAwake, Clock: extractClock(msg)}
	}

	// 6. Delegate registration.
	if containsAny(msg, "add partner", "add delegate") {
		a := Action{Type: TypeAddDelegate}
		if m := phoneRe.FindString(msg); m != "" {
			a.Phone = m
		}
		return a
	}

	// 7. Domain keywords, fixed precedence.
	if strings.Contains(msg, "pump") {
		return Action{Type: TypePump, Amount: firstNumber(msg), Side: sideOf(msg)}
	}
	if containsAny(msg, "nurs", "breast", "left", "right") {
		return Action{Type: TypeBreast, Minutes: firstNumber(msg), Side: sideOf(msg)}
	}
	if strings.Contains(msg, "bottle") {
		return Action{Type: TypeBottle, Amount: firstNumber(msg)}
	}
	if containsAny(msg, "diaper", "poo", "pee", "wet", "soiled", "dirty") {
		return Action{Type: TypeDiaper, Diaper: diaperKind(msg)}
	}
	if containsAny(msg, "slept", "nap") {
		return Action{Type: TypeSleepManual, Minutes: firstNumber(msg)}
	}

	// 8. A bare number with no pending slot is never guessed at.
	if isBareNumber {
		n, _ := strconv.Atoi(msg)
		return Action{Type: TypeClarifyNumber, Number: n}
	}

	// 9. No match.
	return Action{Type: TypeUnknown}
}

// DiaperKindOf exposes the diaper sub-type keyword mapping.
func DiaperKindOf(line string) model.DiaperKind {
	return diaperKind(clean(line))
}

func diaperKind(msg string) model.DiaperKind {
	soiled := containsAny(msg, "poo", "soiled", "dirty")
	wet := containsAny(msg, "pee", "wet")
	switch {
	case soiled && wet:
		return model.DiaperFull
	case soiled:
		return model.DiaperSoiled
	case wet:
		return model.DiaperWet
	}
	return model.DiaperPlain
}

// resolvePending maps an answer onto the outstanding follow-up question.
// Non-answers fall through to regular matching so a new, fully specified
// command supersedes the slot.
func resolvePending(msg string, isBareNumber bool, slot *model.PendingSlot) (Action, bool) {
	switch slot.Kind {
	case model.SlotAmount:
		if !isBareNumber {
			return Action{}, false
		}
		n, _ := strconv.Atoi(msg)
		t := TypeBottle
		if slot.Target == model.EventPump {
			t = TypePump
		}
		return Action{Type: t, Amount: n, Side: slot.Side, FromPending: true}, true

	case model.SlotDuration:
		if !isBareNumber {
			return Action{}, false
		}
		n, _ := strconv.Atoi(msg)
		if slot.Target == model.EventSleep {
			return Action{Type: TypeSleepManual, Minutes: n, FromPending: true}, true
		}
		return Action{Type: TypeBreast, Minutes: n, Side: slot.Side, FromPending: true}, true

	case model.SlotNumberChoice:
		if !isBareNumber {
			return Action{}, false
		}
		switch msg {
		case "1":
			return Action{Type: TypeBottle, Amount: slot.Number, FromPending: true}, true
		case "2":
			return Action{Type: TypePump, Amount: slot.Number, FromPending: true}, true
		case "3":
			return Action{Type: TypeBreast, Minutes: slot.Number, FromPending: true}, true
		case "4":
			return Action{Type: TypeSleepManual, Minutes: slot.Number, FromPending: true}, true
		}
		// a different bare number replaces the one we asked about
		n, _ := strconv.Atoi(msg)
		return Action{Type: TypeClarifyNumber, Number: n, FromPending: true}, true

	case model.SlotTimerConflict:
		switch {
		case msg == "1" || strings.Contains(msg, "restart"):
			return Action{Type: TypeTimerChoice, Timer: slot.Timer, Resolution: ResolutionRestart, FromPending: true}, true
		case msg == "2" || strings.Contains(msg, "cancel"):
			return Action{Type: TypeTimerChoice, Timer: slot.Timer, Resolution: ResolutionCancel, FromPending: true}, true
		}
		return Action{}, false
	}
	return Action{}, false
}

func parseTimer(msg string) (Action, bool) {
	// "when did she wake up" is a query, not a stop command
	if strings.Contains(msg, "when") {
		return Action{}, false
	}
	clock := extractClock(msg)

	// sleep
	if containsAny(msg, "fell asleep", "went to sleep", "going to sleep", "started sleep", "sleep started", "started nap") {
		return Action{Type: TypeTimerStart, Timer: model.TimerSleep, Clock: clock}, true
	}
	if containsAny(msg, "woke", "wake up", "got up") {
		return Action{Type: TypeTimerStop, Timer: model.TimerSleep, Clock: clock}, true
	}

	// nursing
	if strings.Contains(msg, "nursing") {
		if containsAny(msg, "start", "began", "begin") {
			return Action{Type: TypeTimerStart, Timer: model.TimerNursing, Side: sideOf(msg), Clock: clock}, true
		}
		if containsAny(msg, "stop", "end", "finish", "done") {
			return Action{Type: TypeTimerStop, Timer: model.TimerNursing, Clock: clock}, true
		}
	}
	return Action{}, false
}

func parseWhen(msg string) (Action, bool) {
	switch {
	case containsAny(msg, "eat", "ate", "fed", "feed", "bottle", "nurs"):
		return Action{Type: TypeWhenLast, Targets: model.FeedTypes, Label: "feeding"}, true
	case strings.Contains(msg, "pump"):
		return Action{Type: TypeWhenLast, Targets: []model.EventType{model.EventPump}, Label: "pumping"}, true
	case containsAny(msg, "diaper", "poo", "pee", "change"):
		return Action{Type: TypeWhenLast, Targets: []model.EventType{model.EventDiaper}, Label: "diaper change"}, true
	case containsAny(msg, "sleep", "asleep", "nap", "woke", "wake"):
		field := "start"
		if containsAny(msg, "woke", "wake", "up") {
			field = "end"
		}
		return Action{Type: TypeWhenLast, Targets: []model.EventType{model.EventSleep}, Label: "sleep", Field: field}, true
	}
	return Action{}, false
}

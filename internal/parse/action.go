package parse

import "tinytrack/internal/model"

// Type discriminates the parsed action.
type Type string

const (
	TypeUnknown       Type = "unknown"
	TypeReset         Type = "reset"
	TypeHelpMenu      Type = "help-menu"
	TypeHelpTopic     Type = "help-topic"
	TypeUndo          Type = "undo"
	TypeStatus        Type = "status"
	TypeSummary       Type = "summary"
	TypeCompare       Type = "compare"
	TypeTimerStart    Type = "timer-start"
	TypeTimerStop     Type = "timer-stop"
	TypeTimerChoice   Type = "timer-choice"
	TypeWhenLast      Type = "when-last"
	TypeAwake         Type = "awake"
	TypeAddDelegate   Type = "add-delegate"
	TypeBottle        Type = "bottle"
	TypePump          Type = "pump"
	TypeBreast        Type = "breast"
	TypeDiaper        Type = "diaper"
	TypeSleepManual   Type = "sleep-manual"
	TypeClarifyNumber Type = "clarify-number"
)

// TimerResolution is the user's answer to a double-start conflict.
type TimerResolution string

const (
	ResolutionRestart TimerResolution = "restart"
	ResolutionCancel  TimerResolution = "cancel"
)

// ClockTime is an explicit "HH:MM" typed by the user. The parser does not
// resolve it against now; the caller owns the previous-day heuristic.
type ClockTime struct {
	Hour   int
	Minute int
}

// Action is the structured result of parsing one message line. Exactly the
// fields relevant to Type are set.
type Action struct {
	Type Type

	Topic string // help topic key

	Hours    int  // summary window, when HasHours
	HasHours bool
	Days     int  // comparison window

	Timer      model.TimerKind
	Resolution TimerResolution
	Clock      *ClockTime

	Side    model.Side
	Diaper  model.DiaperKind
	Amount  int // milliliters
	Minutes int
	Number  int // the unadorned number awaiting a category

	Phone string // delegate registration

	Targets []model.EventType // when-query target types
	Label   string            // human label for when-query replies
	Field   string            // "start" or "end" for sleep when-queries

	FromPending bool // resolved out of a pending slot
}

// Package model defines the persistent document model: one Profile per
// household carrying the append-only event log, the onboarding stage, the
// single outstanding follow-up question and any open activity timers.
package model

import "time"

// EventType enumerates the caregiving occurrences the engine records.
type EventType string

const (
	EventBreast EventType = "feeding-breast"
	EventBottle EventType = "feeding-bottle"
	EventPump   EventType = "pumping"
	EventDiaper EventType = "diaper"
	EventSleep  EventType = "sleep"
)

// FeedTypes are the event types that count as a feeding for recency queries.
var FeedTypes = []EventType{EventBottle, EventBreast}

// Side of the body for nursing and pumping.
type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideBoth  Side = "both"
)

// DiaperKind is the diaper sub-type.
type DiaperKind string

const (
	DiaperWet    DiaperKind = "wet"
	DiaperSoiled DiaperKind = "soiled"
	DiaperFull   DiaperKind = "full"
	DiaperPlain  DiaperKind = "change"
)

// ChildSex drives grammatical forms in replies.
type ChildSex string

const (
	SexUnspecified ChildSex = ""
	SexMale        ChildSex = "male"
	SexFemale      ChildSex = "female"
)

// FeedingMode is the household's stated feeding preference.
type FeedingMode string

const (
	FeedingBreast FeedingMode = "breast"
	FeedingBottle FeedingMode = "bottle"
	FeedingMixed  FeedingMode = "mixed"
)

// Stage is the onboarding position. Profiles advance linearly and only
// reach StageActive once; reset deletes the record entirely.
type Stage int

const (
	StageAskCaregiverName Stage = iota
	StageAskChildSex
	StageAskChildName
	StageAskDOB
	StageAskFeedingMode
	StageActive
)

// EventDetails carries the type-specific payload of an event. Fields are
// populated per type: Side+DurationMin for breastfeeding, AmountML for
// bottle/pump (Side optionally for pump), Diaper for diaper events, and
// StartAt/EndAt/DurationMin for sleep.
type EventDetails struct {
	Side        Side       `json:"side,omitempty"`
	DurationMin int        `json:"duration_min,omitempty"`
	AmountML    int        `json:"amount_ml,omitempty"`
	Diaper      DiaperKind `json:"diaper,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
}

// Event is immutable once appended. Timestamp is second precision in the
// profile's local timezone.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Details   EventDetails `json:"details"`
}

// SlotKind tags the shape of answer a pending slot expects.
type SlotKind string

const (
	// SlotAmount waits for a milliliter amount (bottle or pump).
	SlotAmount SlotKind = "amount"
	// SlotDuration waits for a minute count (breastfeeding or manual sleep).
	SlotDuration SlotKind = "duration"
	// SlotNumberChoice waits for a category choice after a bare number.
	SlotNumberChoice SlotKind = "number-choice"
	// SlotTimerConflict waits for a restart/cancel choice on double-start.
	SlotTimerConflict SlotKind = "timer-conflict"
)

// PendingSlot is the single outstanding follow-up question on a profile.
// It is consumed and cleared by the next message that answers it, and
// superseded by any new fully-specified command.
type PendingSlot struct {
	Kind   SlotKind  `json:"kind"`
	Target EventType `json:"target,omitempty"` // for amount/duration slots
	Side   Side      `json:"side,omitempty"`
	Number int       `json:"number,omitempty"` // the bare number awaiting a category
	Timer  TimerKind `json:"timer,omitempty"`  // for timer-conflict slots
}

// TimerKind names an interval activity that can be open.
type TimerKind string

const (
	TimerSleep   TimerKind = "sleep"
	TimerNursing TimerKind = "nursing"
)

// OpenTimer is an in-progress interval activity. At most one per kind.
type OpenTimer struct {
	Kind  TimerKind `json:"kind"`
	Start time.Time `json:"start"`
	Side  Side      `json:"side,omitempty"`
}

// MilestoneDay tracks encouragement state for one calendar day. Stale days
// are never read again; no cleanup is needed.
type MilestoneDay struct {
	LastFired     int `json:"last_fired"`
	NextThreshold int `json:"next_threshold,omitempty"` // beyond the fixed tiers
}

// Profile is the unit of persistence and mutual exclusion: one record per
// household, keyed by the primary sender's normalized id.
type Profile struct {
	ID            string                   `json:"id"`
	CaregiverName string                   `json:"caregiver_name,omitempty"`
	ChildName     string                   `json:"child_name,omitempty"`
	ChildSex      ChildSex                 `json:"child_sex,omitempty"`
	DOB           string                   `json:"dob,omitempty"` // YYYY-MM-DD
	FeedingMode   FeedingMode              `json:"feeding_mode,omitempty"`
	Stage         Stage                    `json:"stage"`
	DelegateID    string                   `json:"delegate_id,omitempty"`
	Events        []Event                  `json:"events"`
	Pending       *PendingSlot             `json:"pending,omitempty"`
	Timers        map[TimerKind]*OpenTimer `json:"timers,omitempty"`
	Milestones    map[string]*MilestoneDay `json:"milestones,omitempty"`
}

// NewProfile returns a fresh profile at the first onboarding stage.
func NewProfile(id string) *Profile {
	return &Profile{
		ID:     id,
		Stage:  StageAskCaregiverName,
		Events: []Event{},
	}
}

// Timer returns the open timer of the given kind, or nil.
func (p *Profile) Timer(kind TimerKind) *OpenTimer {
	if p.Timers == nil {
		return nil
	}
	return p.Timers[kind]
}

// SetTimer records an open timer, replacing any existing one of that kind.
func (p *Profile) SetTimer(t *OpenTimer) {
	if p.Timers == nil {
		p.Timers = make(map[TimerKind]*OpenTimer)
	}
	p.Timers[t.Kind] = t
}

// ClearTimer closes the timer of the given kind.
func (p *Profile) ClearTimer(kind TimerKind) {
	if p.Timers != nil {
		delete(p.Timers, kind)
	}
}

// ChildLabel is the child's name, or a neutral fallback before it is known.
func (p *Profile) ChildLabel() string {
	if p.ChildName != "" {
		return p.ChildName
	}
	return "the baby"
}

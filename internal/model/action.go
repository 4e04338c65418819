package model

import "time"

// ActionStatus tracks a daily action through the day.
type ActionStatus string

const (
	StatusNotStarted ActionStatus = "not_started"
	StatusInProgress ActionStatus = "in_progress"
	StatusCompleted  ActionStatus = "completed"
	StatusSkipped    ActionStatus = "skipped"
)

// ValidStatus reports whether s is a status the API accepts.
func ValidStatus(s ActionStatus) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// SourceMeta records where an externally-synced action came from.
// It is serialized to the metadata column only at the storage boundary.
type SourceMeta struct {
	Source    string `json:"source"`
	CRMTaskID string `json:"crmTaskId"`
	DueDate   string `json:"dueDate,omitempty"`
}

// DailyAction is one generated (or synced) item on a user's daily plan.
// ActionDate is a calendar date in the user's local timezone, YYYY-MM-DD.
type DailyAction struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId"`
	ActionDate      string       `json:"actionDate"`
	ActionType      string       `json:"actionType"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Priority        string       `json:"priority"`
	Status          ActionStatus `json:"status"`
	IsRecurring     bool         `json:"isRecurring"`
	Generated       bool         `json:"generated"`
	Category        string       `json:"category"`
	PulseImpact     float64      `json:"pulseImpact"`
	DisplayCategory string       `json:"displayCategory"`
	PriorityWeight  int          `json:"priorityWeight"`
	ImpactArea      string       `json:"impactArea"`
	Source          *SourceMeta  `json:"source,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Weight returns the effective ranking weight, defaulting when unset.
func (a DailyAction) Weight() int {
	if a.PriorityWeight <= 0 {
		return DefaultPriorityWeight
	}
	return a.PriorityWeight
}

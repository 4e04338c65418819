package model

import "time"

// TriggerType decides which evaluator a template belongs to.
type TriggerType string

const (
	TriggerPulseScoreRange TriggerType = "pulse_score_range"
	TriggerDayOfWeek       TriggerType = "day_of_week"
	TriggerAccountDayExact TriggerType = "account_day_exact"
	TriggerInitiative      TriggerType = "initiative"
)

// InitiativeCadence gates initiative templates to first-of-month boundaries.
type InitiativeCadence string

const (
	CadenceMonthly      InitiativeCadence = "monthly"
	CadenceQuarterly    InitiativeCadence = "quarterly"
	CadenceSemiAnnually InitiativeCadence = "semi-annually"
	CadenceAnnually     InitiativeCadence = "annually"
)

// DefaultPriorityWeight is used whenever a template carries no weight.
const DefaultPriorityWeight = 3

// TaskTemplate is one catalog entry. TriggerValue's grammar depends on
// TriggerType: "min-max" score range, "1".."7" weekday (1=Sunday, see the
// day-of-week evaluator), or an exact account-age day number. Initiative
// templates ignore TriggerValue and use SubCategory instead.
type TaskTemplate struct {
	ID              string            `json:"id"`
	TriggerType     TriggerType       `json:"triggerType"`
	TriggerValue    string            `json:"triggerValue"`
	SubCategory     InitiativeCadence `json:"subCategory,omitempty"`
	IsActive        bool              `json:"isActive"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Category        string            `json:"category"`
	ActionType      string            `json:"actionType"`
	Priority        string            `json:"priority"`
	PriorityWeight  int               `json:"priorityWeight"`
	PulseImpact     float64           `json:"pulseImpact"`
	DisplayCategory string            `json:"displayCategory"`
	ImpactArea      string            `json:"impactArea"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Weight returns the effective ranking weight, defaulting when unset.
func (t TaskTemplate) Weight() int {
	if t.PriorityWeight <= 0 {
		return DefaultPriorityWeight
	}
	return t.PriorityWeight
}

package generate

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"agentpulse/internal/model"
)

// dayFacts are the derived temporal facts for one generation run, all
// computed from a single clock sample localized to the user's timezone.
type dayFacts struct {
	actionDate     string // YYYY-MM-DD
	accountAgeDays int    // 1-indexed: creation day is day 1
	weekday        int    // 0=Sunday .. 6=Saturday
	dayOfMonth     int
	month          int // 0-indexed: 0=January
}

// parseScoreRange parses "min-max". A nil result means the value is
// malformed and the template should be skipped, not failed.
func parseScoreRange(triggerValue string) (min, max int, ok bool) {
	if !strings.Contains(triggerValue, "-") {
		return 0, 0, false
	}
	parts := strings.Split(triggerValue, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, errLo := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, errHi := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errLo != nil || errHi != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// pulseRangeCap bounds how much of the daily plan can be score-driven,
// independent of the global cap.
const pulseRangeCap = 5

func matchPulseRange(templates []model.TaskTemplate, score int, logger *log.Logger) []model.TaskTemplate {
	var eligible []model.TaskTemplate
	for _, t := range templates {
		if t.TriggerType != model.TriggerPulseScoreRange {
			continue
		}
		lo, hi, ok := parseScoreRange(t.TriggerValue)
		if !ok {
			if logger != nil {
				logger.Printf("[generate] skipping template %s: bad score range %q", t.ID, t.TriggerValue)
			}
			continue
		}
		if score >= lo && score <= hi {
			eligible = append(eligible, t)
		}
	}

	// Highest weight first; stable so catalog order breaks ties.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Weight() > eligible[j].Weight()
	})
	if len(eligible) > pulseRangeCap {
		eligible = eligible[:pulseRangeCap]
	}
	return eligible
}

// matchDayOfWeek matches templates whose TriggerValue names today's weekday.
// TriggerValue is 1..7 where 1 maps to Sunday and 2..7 map to Monday..Saturday.
// That 1=Sunday mapping is observed product behavior; do not normalize it to
// ISO without a product decision.
func matchDayOfWeek(templates []model.TaskTemplate, weekday int) []model.TaskTemplate {
	var out []model.TaskTemplate
	for _, t := range templates {
		if t.TriggerType != model.TriggerDayOfWeek {
			continue
		}
		tv, err := strconv.Atoi(strings.TrimSpace(t.TriggerValue))
		if err != nil {
			continue
		}
		jsDay := tv - 1
		if tv == 1 {
			jsDay = 0
		}
		if jsDay == weekday {
			out = append(out, t)
		}
	}
	return out
}

// matchAccountDay matches one-time onboarding milestones pinned to an exact
// account age in days.
func matchAccountDay(templates []model.TaskTemplate, accountAgeDays int) []model.TaskTemplate {
	var out []model.TaskTemplate
	for _, t := range templates {
		if t.TriggerType != model.TriggerAccountDayExact {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(t.TriggerValue))
		if err != nil {
			continue
		}
		if day == accountAgeDays {
			out = append(out, t)
		}
	}
	return out
}

// matchInitiative matches cadence-gated templates on the first of the month.
// month is 0-indexed (0=January).
func matchInitiative(templates []model.TaskTemplate, dayOfMonth, month int) []model.TaskTemplate {
	if dayOfMonth != 1 {
		return nil
	}
	var out []model.TaskTemplate
	for _, t := range templates {
		if t.TriggerType != model.TriggerInitiative {
			continue
		}
		if cadenceDue(t.SubCategory, month) {
			out = append(out, t)
		}
	}
	return out
}

func cadenceDue(c model.InitiativeCadence, month int) bool {
	switch c {
	case model.CadenceMonthly:
		return true
	case model.CadenceQuarterly:
		return month == 0 || month == 3 || month == 6 || month == 9
	case model.CadenceSemiAnnually:
		return month == 0 || month == 6
	case model.CadenceAnnually:
		return month == 0
	}
	return false
}

package generate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentpulse/internal/action"
	"agentpulse/internal/crm"
	"agentpulse/internal/model"
	"agentpulse/internal/pulse"
	"agentpulse/internal/template"
)

// Wednesday. Chosen so no seed-style weekday template fires by accident.
var wednesday = time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, clock Clock, templates []model.TaskTemplate) (*Engine, *action.MemoryRepo) {
	t.Helper()

	trepo := template.NewMemoryRepo()
	require.NoError(t, trepo.Seed(context.Background(), templates))
	arepo := action.NewMemoryRepo()

	return &Engine{
		Templates:       trepo,
		Actions:         arepo,
		Scores:          pulse.Fixed(50),
		CRM:             crm.Noop{},
		Clock:           clock,
		DefaultTimezone: "UTC",
	}, arepo
}

func testUser(createdAt time.Time) model.UserState {
	return model.UserState{
		UserID:           "u1",
		AccountCreatedAt: createdAt,
		Timezone:         "UTC",
	}
}

func pulseTemplate(id, rng string, weight int) model.TaskTemplate {
	return model.TaskTemplate{
		ID:             id,
		TriggerType:    model.TriggerPulseScoreRange,
		TriggerValue:   rng,
		IsActive:       true,
		Title:          id,
		PriorityWeight: weight,
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	ctx := context.Background()
	clock := NewFakeClock(wednesday)
	eng, arepo := newTestEngine(t, clock, []model.TaskTemplate{
		pulseTemplate("p1", "40-60", 3),
	})

	first, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, first.Outcome)
	assert.Len(t, first.Actions, 1)

	second, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, second.Outcome)
	assert.Empty(t, second.Actions)

	stored, err := arepo.ListGenerated(ctx, "u1", "2025-01-15")
	require.NoError(t, err)
	assert.Len(t, stored, 1, "no duplicate rows after the second run")
}

func TestGenerate_ScoreRangeBounds(t *testing.T) {
	ctx := context.Background()
	for score, want := range map[int]int{39: 0, 40: 1, 50: 1, 60: 1, 61: 0} {
		clock := NewFakeClock(wednesday)
		eng, _ := newTestEngine(t, clock, []model.TaskTemplate{
			pulseTemplate("p1", "40-60", 3),
		})
		eng.Scores = pulse.Fixed(score)

		result, err := eng.Generate(ctx, testUser(wednesday))
		require.NoError(t, err)
		if want == 0 {
			assert.Equal(t, OutcomeNoTemplates, result.Outcome, "score %d", score)
		} else {
			require.Equal(t, OutcomeCreated, result.Outcome, "score %d", score)
			assert.Len(t, result.Actions, want, "score %d", score)
		}
	}
}

func TestGenerate_MalformedScoreRangeSkipped(t *testing.T) {
	ctx := context.Background()
	clock := NewFakeClock(wednesday)
	eng, _ := newTestEngine(t, clock, []model.TaskTemplate{
		pulseTemplate("bad1", "bad", 3),
		pulseTemplate("bad2", "40", 3),
		pulseTemplate("good", "40-60", 3),
	})

	result, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, result.Outcome)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "good", result.Actions[0].Title)
}

func TestGenerate_PulseRangeCappedAtFiveByWeight(t *testing.T) {
	ctx := context.Background()
	var templates []model.TaskTemplate
	for i := 1; i <= 8; i++ {
		templates = append(templates, pulseTemplate(fmt.Sprintf("p%d", i), "0-100", i))
	}
	clock := NewFakeClock(wednesday)
	eng, _ := newTestEngine(t, clock, templates)

	result, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, result.Outcome)
	require.Len(t, result.Actions, 5)

	// The five heaviest (weights 8..4), not the first five inserted.
	for i, a := range result.Actions {
		assert.Equal(t, 8-i, a.PriorityWeight)
	}
}

func TestGenerate_DayOfWeekMapping(t *testing.T) {
	ctx := context.Background()
	// 2025-01-12 is a Sunday; walk the whole week.
	sunday := time.Date(2025, time.January, 12, 8, 0, 0, 0, time.UTC)

	for tv := 1; tv <= 7; tv++ {
		for offset := 0; offset < 7; offset++ {
			day := sunday.AddDate(0, 0, offset)
			clock := NewFakeClock(day)
			eng, _ := newTestEngine(t, clock, []model.TaskTemplate{{
				ID:           "dow",
				TriggerType:  model.TriggerDayOfWeek,
				TriggerValue: fmt.Sprint(tv),
				IsActive:     true,
				Title:        "dow",
			}})

			result, err := eng.Generate(ctx, testUser(sunday))
			require.NoError(t, err)

			// triggerValue 1 means Sunday; 2..7 mean Monday..Saturday.
			wantDay := tv - 1
			if tv == 1 {
				wantDay = 0
			}
			if offset == wantDay {
				assert.Equal(t, OutcomeCreated, result.Outcome, "tv=%d offset=%d", tv, offset)
			} else {
				assert.Equal(t, OutcomeNoTemplates, result.Outcome, "tv=%d offset=%d", tv, offset)
			}
		}
	}
}

func TestGenerate_AccountDayExact(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, time.January, 15, 6, 0, 0, 0, time.UTC)
	tmpl := model.TaskTemplate{
		ID:           "day1",
		TriggerType:  model.TriggerAccountDayExact,
		TriggerValue: "1",
		IsActive:     true,
		Title:        "day 1 checklist",
	}

	// Creation day itself is day 1.
	clock := NewFakeClock(created.Add(3 * time.Hour))
	eng, _ := newTestEngine(t, clock, []model.TaskTemplate{tmpl})
	result, err := eng.Generate(ctx, testUser(created))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)

	// The next day it no longer matches.
	clock = NewFakeClock(created.AddDate(0, 0, 1))
	eng, _ = newTestEngine(t, clock, []model.TaskTemplate{tmpl})
	result, err = eng.Generate(ctx, testUser(created))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoTemplates, result.Outcome)
}

func TestGenerate_QuarterlyInitiativeGating(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	tmpl := model.TaskTemplate{
		ID:          "qbr",
		TriggerType: model.TriggerInitiative,
		SubCategory: model.CadenceQuarterly,
		IsActive:    true,
		Title:       "quarterly review",
	}

	matchDays := []time.Time{
		time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC),
	}
	missDays := []time.Time{
		time.Date(2025, time.January, 2, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC),
	}

	for _, day := range matchDays {
		eng, _ := newTestEngine(t, NewFakeClock(day), []model.TaskTemplate{tmpl})
		result, err := eng.Generate(ctx, testUser(created))
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, result.Outcome, "%s", day.Format("2006-01-02"))
	}
	for _, day := range missDays {
		eng, _ := newTestEngine(t, NewFakeClock(day), []model.TaskTemplate{tmpl})
		result, err := eng.Generate(ctx, testUser(created))
		require.NoError(t, err)
		assert.Equal(t, OutcomeNoTemplates, result.Outcome, "%s", day.Format("2006-01-02"))
	}
}

func TestGenerate_GlobalCapTwentyByWeight(t *testing.T) {
	ctx := context.Background()
	// 5 pulse-range (capped at 5 anyway) + 20 day-of-week = 25 drafts.
	var templates []model.TaskTemplate
	for i := 0; i < 5; i++ {
		templates = append(templates, pulseTemplate(fmt.Sprintf("p%d", i), "0-100", 10+i))
	}
	for i := 0; i < 20; i++ {
		templates = append(templates, model.TaskTemplate{
			ID:             fmt.Sprintf("d%d", i),
			TriggerType:    model.TriggerDayOfWeek,
			TriggerValue:   "4", // Wednesday
			IsActive:       true,
			Title:          fmt.Sprintf("d%d", i),
			PriorityWeight: 30 + i,
		})
	}

	eng, _ := newTestEngine(t, NewFakeClock(wednesday), templates)
	result, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, result.Outcome)
	require.Len(t, result.Actions, 20)

	// The 20 day-of-week drafts (weights 30..49) outrank every pulse
	// draft, so all pulse drafts fall off the end.
	for _, a := range result.Actions {
		assert.GreaterOrEqual(t, a.PriorityWeight, 30)
	}
	// Descending by weight.
	for i := 1; i < len(result.Actions); i++ {
		assert.GreaterOrEqual(t, result.Actions[i-1].PriorityWeight, result.Actions[i].PriorityWeight)
	}
}

func TestGenerate_NoTemplates(t *testing.T) {
	ctx := context.Background()

	eng, _ := newTestEngine(t, NewFakeClock(wednesday), nil)
	result, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoTemplates, result.Outcome)

	inactive := pulseTemplate("p1", "0-100", 3)
	inactive.IsActive = false
	eng, _ = newTestEngine(t, NewFakeClock(wednesday), []model.TaskTemplate{inactive})
	result, err = eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoTemplates, result.Outcome)
}

func TestGenerate_CRMFailureIsolated(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t, NewFakeClock(wednesday), []model.TaskTemplate{
		pulseTemplate("p1", "40-60", 3),
	})
	eng.CRM = crm.Static{Err: errors.New("bridge down")}

	result, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, result.Outcome)
	assert.Len(t, result.Actions, 1)
}

func TestGenerate_CRMTaskMapping(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t, NewFakeClock(wednesday), []model.TaskTemplate{
		pulseTemplate("p1", "40-60", 3),
	})
	eng.CRM = crm.Static{Tasks: []crm.Task{{
		Title:       "Call the Hendersons",
		Description: "Listing follow-up",
		CRMType:     "followupboss",
		CRMTaskID:   "fub-123",
		DueDate:     "2025-01-16",
	}}}

	result, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, result.Outcome)
	require.Len(t, result.Actions, 2)

	// Weight 4 CRM task outranks the weight 3 template.
	got := result.Actions[0]
	assert.Equal(t, "client_follow_up", got.ActionType)
	assert.Equal(t, "followupboss_sync", got.Category)
	assert.Equal(t, "medium", got.Priority)
	assert.Equal(t, 4, got.PriorityWeight)
	assert.Equal(t, 0.1, got.PulseImpact)
	assert.Equal(t, "Power Hour Theme", got.DisplayCategory)
	assert.Equal(t, "Urgency", got.ImpactArea)
	require.NotNil(t, got.Source)
	assert.Equal(t, "followupboss", got.Source.Source)
	assert.Equal(t, "fub-123", got.Source.CRMTaskID)
	assert.Equal(t, "2025-01-16", got.Source.DueDate)
}

func TestGenerate_ExampleScenario(t *testing.T) {
	ctx := context.Background()
	score := 45
	eng, _ := newTestEngine(t, NewFakeClock(wednesday), []model.TaskTemplate{
		pulseTemplate("range", "40-60", 5),
		{
			ID:           "wed",
			TriggerType:  model.TriggerDayOfWeek,
			TriggerValue: "4", // Wednesday
			IsActive:     true,
			Title:        "wed",
			// No weight set: defaults to 3.
		},
	})

	user := testUser(wednesday)
	user.CurrentScore = &score

	result, err := eng.Generate(ctx, user)
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, result.Outcome)
	require.Len(t, result.Actions, 2)
	assert.Equal(t, "range", result.Actions[0].Title)
	assert.Equal(t, "wed", result.Actions[1].Title)
	assert.Equal(t, model.DefaultPriorityWeight, result.Actions[1].PriorityWeight)
}

func TestGenerate_TieBreakKeepsEvaluatorOrder(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t, NewFakeClock(wednesday), []model.TaskTemplate{
		{
			ID:             "dow",
			TriggerType:    model.TriggerDayOfWeek,
			TriggerValue:   "4",
			IsActive:       true,
			Title:          "dow",
			PriorityWeight: 3,
		},
		pulseTemplate("range", "0-100", 3),
	})

	result, err := eng.Generate(ctx, testUser(wednesday))
	require.NoError(t, err)
	require.Len(t, result.Actions, 2)
	// Equal weights: pulse-range output comes before day-of-week
	// regardless of catalog order.
	assert.Equal(t, "range", result.Actions[0].Title)
	assert.Equal(t, "dow", result.Actions[1].Title)
}

func TestGenerate_InvalidUser(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t, NewFakeClock(wednesday), nil)

	_, err := eng.Generate(ctx, model.UserState{Timezone: "UTC"})
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = eng.Generate(ctx, model.UserState{UserID: "u1", AccountCreatedAt: wednesday, Timezone: "Mars/Olympus"})
	assert.ErrorIs(t, err, ErrBadTimezone)
}

func TestGenerate_ActionDateUsesUserTimezone(t *testing.T) {
	ctx := context.Background()
	// 02:00 UTC on the 15th is still the 14th in New York.
	clock := NewFakeClock(time.Date(2025, time.January, 15, 2, 0, 0, 0, time.UTC))
	eng, arepo := newTestEngine(t, clock, []model.TaskTemplate{
		pulseTemplate("p1", "0-100", 3),
	})

	user := testUser(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	user.Timezone = "America/New_York"

	result, err := eng.Generate(ctx, user)
	require.NoError(t, err)
	require.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, "2025-01-14", result.Actions[0].ActionDate)

	stored, err := arepo.ListGenerated(ctx, "u1", "2025-01-14")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

// Package generate builds a user's daily action plan: it evaluates the
// template catalog against the user's current state, ranks the matches, and
// persists at most one generated batch per user per local calendar day.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"agentpulse/internal/action"
	"agentpulse/internal/crm"
	"agentpulse/internal/model"
	"agentpulse/internal/pulse"
	"agentpulse/internal/template"
)

// globalCap is the hard ceiling on one day's generated plan.
const globalCap = 20

var (
	ErrInvalidUser    = errors.New("invalid user: id and account creation time are required")
	ErrBadTimezone    = errors.New("invalid timezone")
	ErrNoRepositories = errors.New("engine requires template and action repositories")
)

// Outcome is the three-way result contract callers branch on.
type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeNoTemplates   Outcome = "no_templates"
)

// Result is what one generation run produced. Actions is non-empty only for
// OutcomeCreated.
type Result struct {
	Outcome Outcome             `json:"outcome"`
	Actions []model.DailyAction `json:"actions,omitempty"`
}

// Engine is the generation orchestrator. Evaluator order is fixed
// (pulse-range, day-of-week, account-day, initiative, CRM) so the final
// truncation is reproducible.
type Engine struct {
	Templates template.Repo
	Actions   action.Repo
	Scores    pulse.ScoreProvider // optional; falls back to pulse.DefaultScore
	CRM       crm.Syncer          // optional; failures degrade to zero CRM tasks
	Clock     Clock
	Logger    *log.Logger

	// DefaultTimezone is used when the user snapshot has none.
	DefaultTimezone string
}

// Generate runs one generation pass for the user. It returns an error only
// for caller contract violations and storage failures; template data quality
// problems and CRM failures are logged and survived.
func (e *Engine) Generate(ctx context.Context, user model.UserState) (Result, error) {
	if e.Templates == nil || e.Actions == nil {
		return Result{}, ErrNoRepositories
	}
	if user.UserID == "" || user.AccountCreatedAt.IsZero() {
		return Result{}, ErrInvalidUser
	}

	loc, err := e.location(user.Timezone)
	if err != nil {
		return Result{}, err
	}

	clock := e.Clock
	if clock == nil {
		clock = RealClock{}
	}
	now := clock.Now().In(loc)
	facts := deriveFacts(now, user.AccountCreatedAt)

	e.logf("[generate] generating actions for %s, user %s", facts.actionDate, user.UserID)

	existing, err := e.Actions.ListGenerated(ctx, user.UserID, facts.actionDate)
	if err != nil {
		return Result{}, fmt.Errorf("check existing actions: %w", err)
	}
	if len(existing) > 0 {
		e.logf("[generate] actions already exist for %s", facts.actionDate)
		return Result{Outcome: OutcomeAlreadyExists}, nil
	}

	templates, err := e.Templates.List(ctx, template.Active())
	if err != nil {
		return Result{}, fmt.Errorf("load templates: %w", err)
	}
	if len(templates) == 0 {
		e.logf("[generate] no active templates")
		return Result{Outcome: OutcomeNoTemplates}, nil
	}

	score := e.resolveScore(ctx, user)

	var drafts []model.DailyAction
	appendAll := func(matched []model.TaskTemplate) {
		for _, t := range matched {
			drafts = append(drafts, assembleAction(t, user.UserID, facts.actionDate))
		}
	}
	appendAll(matchPulseRange(templates, score, e.Logger))
	appendAll(matchDayOfWeek(templates, facts.weekday))
	appendAll(matchAccountDay(templates, facts.accountAgeDays))
	appendAll(matchInitiative(templates, facts.dayOfMonth, facts.month))

	drafts = append(drafts, e.syncCRM(ctx, user.UserID, facts.actionDate)...)

	// Highest weight first; stable sort keeps evaluator order on ties.
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].Weight() > drafts[j].Weight()
	})
	if len(drafts) > globalCap {
		drafts = drafts[:globalCap]
	}

	if len(drafts) == 0 {
		e.logf("[generate] no actions matched")
		return Result{Outcome: OutcomeNoTemplates}, nil
	}

	created, err := e.Actions.BulkCreate(ctx, drafts)
	if err != nil {
		if errors.Is(err, action.ErrDuplicateDay) {
			// Lost the race to a concurrent run; the day is covered.
			e.logf("[generate] concurrent run already generated %s", facts.actionDate)
			return Result{Outcome: OutcomeAlreadyExists}, nil
		}
		return Result{}, fmt.Errorf("create actions: %w", err)
	}

	e.logf("[generate] created %d daily actions", len(created))
	return Result{Outcome: OutcomeCreated, Actions: created}, nil
}

func (e *Engine) location(tz string) (*time.Location, error) {
	if tz == "" {
		tz = e.DefaultTimezone
	}
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTimezone, tz)
	}
	return loc, nil
}

func (e *Engine) resolveScore(ctx context.Context, user model.UserState) int {
	if user.CurrentScore != nil {
		return pulse.Clamp(*user.CurrentScore)
	}
	if e.Scores != nil {
		score, err := e.Scores.Score(ctx, user.UserID)
		if err == nil {
			return pulse.Clamp(score)
		}
		e.logf("[generate] score provider failed, using default: %v", err)
	}
	return pulse.DefaultScore
}

func (e *Engine) syncCRM(ctx context.Context, userID, actionDate string) []model.DailyAction {
	if e.CRM == nil {
		return nil
	}
	tasks, err := e.CRM.SyncTasks(ctx, userID)
	if err != nil {
		e.logf("[generate] CRM sync failed: %v", err)
		return nil
	}
	if len(tasks) == 0 {
		return nil
	}
	e.logf("[generate] adding %d CRM tasks", len(tasks))
	out := make([]model.DailyAction, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, assembleCRMAction(t, userID, actionDate))
	}
	return out
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

// deriveFacts computes the run's temporal facts from one localized clock
// sample. Account age is 1-indexed: the creation day itself is day 1.
func deriveFacts(now time.Time, accountCreatedAt time.Time) dayFacts {
	return dayFacts{
		actionDate:     now.Format("2006-01-02"),
		accountAgeDays: int(now.Sub(accountCreatedAt)/(24*time.Hour)) + 1,
		weekday:        int(now.Weekday()),
		dayOfMonth:     now.Day(),
		month:          int(now.Month()) - 1,
	}
}

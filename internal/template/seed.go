package template

import "agentpulse/internal/model"

// SeedTemplates returns the starter catalog: score-band coaching actions for
// every PULSE band, weekday routines, onboarding milestones, and first-of-
// month initiatives.
func SeedTemplates() []model.TaskTemplate {
	return []model.TaskTemplate{
		// --- Score bands (pulse_score_range) ---
		{
			ID:              "tmpl_pulse_critical_calls",
			TriggerType:     model.TriggerPulseScoreRange,
			TriggerValue:    "0-20",
			IsActive:        true,
			Title:           "Call 10 people from your sphere",
			Description:     "Your pipeline needs conversations today. Start with past clients.",
			Category:        "prospecting",
			ActionType:      "make_calls",
			Priority:        "high",
			PriorityWeight:  5,
			PulseImpact:     0.5,
			DisplayCategory: "Power Hour Theme",
			ImpactArea:      "Conversations",
		},
		{
			ID:              "tmpl_pulse_critical_followup",
			TriggerType:     model.TriggerPulseScoreRange,
			TriggerValue:    "0-20",
			IsActive:        true,
			Title:           "Follow up with every open lead",
			Description:     "Work the leads you already have before chasing new ones.",
			Category:        "follow_up",
			ActionType:      "client_follow_up",
			Priority:        "high",
			PriorityWeight:  5,
			PulseImpact:     0.4,
			DisplayCategory: "Power Hour Theme",
			ImpactArea:      "Urgency",
		},
		{
			ID:              "tmpl_pulse_atrisk_appointments",
			TriggerType:     model.TriggerPulseScoreRange,
			TriggerValue:    "21-40",
			IsActive:        true,
			Title:           "Set 2 appointments",
			Description:     "Convert this week's conversations into appointments.",
			Category:        "conversion",
			ActionType:      "set_appointments",
			Priority:        "high",
			PriorityWeight:  4,
			PulseImpact:     0.4,
			DisplayCategory: "Power Hour Theme",
			ImpactArea:      "Appointments",
		},
		{
			ID:              "tmpl_pulse_developing_sphere",
			TriggerType:     model.TriggerPulseScoreRange,
			TriggerValue:    "41-60",
			IsActive:        true,
			Title:           "Reach out to 5 sphere contacts",
			Description:     "Keep momentum going with consistent daily touches.",
			Category:        "prospecting",
			ActionType:      "sphere_outreach",
			Priority:        "medium",
			PriorityWeight:  3,
			PulseImpact:     0.3,
			DisplayCategory: "Daily Habit",
			ImpactArea:      "Conversations",
		},
		{
			ID:              "tmpl_pulse_strong_referrals",
			TriggerType:     model.TriggerPulseScoreRange,
			TriggerValue:    "61-80",
			IsActive:        true,
			Title:           "Ask 2 past clients for referrals",
			Description:     "Your score says your delivery is strong. Cash it in.",
			Category:        "referrals",
			ActionType:      "request_referral",
			Priority:        "medium",
			PriorityWeight:  3,
			PulseImpact:     0.3,
			DisplayCategory: "Growth",
			ImpactArea:      "Pipeline",
		},
		{
			ID:              "tmpl_pulse_elite_mentor",
			TriggerType:     model.TriggerPulseScoreRange,
			TriggerValue:    "81-100",
			IsActive:        true,
			Title:           "Record a market-update video",
			Description:     "Elite agents stay visible. Share this week's market read.",
			Category:        "content",
			ActionType:      "create_content",
			Priority:        "low",
			PriorityWeight:  2,
			PulseImpact:     0.2,
			DisplayCategory: "Growth",
			ImpactArea:      "Visibility",
		},

		// --- Weekday routines (day_of_week; 1=Sunday..7=Saturday) ---
		{
			ID:              "tmpl_dow_monday_pipeline",
			TriggerType:     model.TriggerDayOfWeek,
			TriggerValue:    "2",
			IsActive:        true,
			Title:           "Monday pipeline review",
			Description:     "Walk every active deal and flag the ones that stalled.",
			Category:        "planning",
			ActionType:      "pipeline_review",
			Priority:        "high",
			PriorityWeight:  4,
			PulseImpact:     0.3,
			DisplayCategory: "Daily Habit",
			ImpactArea:      "Pipeline",
		},
		{
			ID:              "tmpl_dow_wednesday_social",
			TriggerType:     model.TriggerDayOfWeek,
			TriggerValue:    "4",
			IsActive:        true,
			Title:           "Post a listing or market story",
			Description:     "Mid-week visibility keeps your name in the feed.",
			Category:        "content",
			ActionType:      "create_content",
			Priority:        "medium",
			PriorityWeight:  3,
			PulseImpact:     0.2,
			DisplayCategory: "Daily Habit",
			ImpactArea:      "Visibility",
		},
		{
			ID:              "tmpl_dow_friday_recap",
			TriggerType:     model.TriggerDayOfWeek,
			TriggerValue:    "6",
			IsActive:        true,
			Title:           "Friday week recap",
			Description:     "Log conversations, appointments, and contracts for the week.",
			Category:        "planning",
			ActionType:      "week_recap",
			Priority:        "medium",
			PriorityWeight:  3,
			PulseImpact:     0.2,
			DisplayCategory: "Daily Habit",
			ImpactArea:      "Accountability",
		},

		// --- Onboarding milestones (account_day_exact) ---
		{
			ID:              "tmpl_day1_profile",
			TriggerType:     model.TriggerAccountDayExact,
			TriggerValue:    "1",
			IsActive:        true,
			Title:           "Complete your agent profile",
			Description:     "Set your market, goals, and sphere so your plan fits you.",
			Category:        "onboarding",
			ActionType:      "complete_profile",
			Priority:        "high",
			PriorityWeight:  5,
			PulseImpact:     0.2,
			DisplayCategory: "Getting Started",
			ImpactArea:      "Setup",
		},
		{
			ID:              "tmpl_day7_checklist",
			TriggerType:     model.TriggerAccountDayExact,
			TriggerValue:    "7",
			IsActive:        true,
			Title:           "Day 7 checklist",
			Description:     "Review your first week: goals set, sphere imported, habits started.",
			Category:        "onboarding",
			ActionType:      "week_one_review",
			Priority:        "medium",
			PriorityWeight:  4,
			PulseImpact:     0.2,
			DisplayCategory: "Getting Started",
			ImpactArea:      "Setup",
		},
		{
			ID:              "tmpl_day30_goals",
			TriggerType:     model.TriggerAccountDayExact,
			TriggerValue:    "30",
			IsActive:        true,
			Title:           "30-day goal check-in",
			Description:     "Compare your first month's numbers against your annual plan.",
			Category:        "planning",
			ActionType:      "goal_checkin",
			Priority:        "medium",
			PriorityWeight:  4,
			PulseImpact:     0.3,
			DisplayCategory: "Growth",
			ImpactArea:      "Accountability",
		},

		// --- Initiatives (first of the month, cadence-gated) ---
		{
			ID:              "tmpl_init_monthly_newsletter",
			TriggerType:     model.TriggerInitiative,
			SubCategory:     model.CadenceMonthly,
			IsActive:        true,
			Title:           "Send your monthly newsletter",
			Description:     "Market stats, a featured listing, and one client story.",
			Category:        "marketing",
			ActionType:      "send_newsletter",
			Priority:        "medium",
			PriorityWeight:  3,
			PulseImpact:     0.3,
			DisplayCategory: "Growth",
			ImpactArea:      "Visibility",
		},
		{
			ID:              "tmpl_init_quarterly_business_review",
			TriggerType:     model.TriggerInitiative,
			SubCategory:     model.CadenceQuarterly,
			IsActive:        true,
			Title:           "Quarterly business review",
			Description:     "Score last quarter against plan and set this quarter's targets.",
			Category:        "planning",
			ActionType:      "business_review",
			Priority:        "high",
			PriorityWeight:  4,
			PulseImpact:     0.4,
			DisplayCategory: "Growth",
			ImpactArea:      "Accountability",
		},
		{
			ID:              "tmpl_init_semiannual_database",
			TriggerType:     model.TriggerInitiative,
			SubCategory:     model.CadenceSemiAnnually,
			IsActive:        true,
			Title:           "Database deep clean",
			Description:     "Merge duplicates, update stale contacts, re-tag your sphere.",
			Category:        "operations",
			ActionType:      "database_cleanup",
			Priority:        "medium",
			PriorityWeight:  3,
			PulseImpact:     0.2,
			DisplayCategory: "Operations",
			ImpactArea:      "Setup",
		},
		{
			ID:              "tmpl_init_annual_plan",
			TriggerType:     model.TriggerInitiative,
			SubCategory:     model.CadenceAnnually,
			IsActive:        true,
			Title:           "Build your annual business plan",
			Description:     "GCI goal, transaction targets, expense budget, lead pillars.",
			Category:        "planning",
			ActionType:      "annual_plan",
			Priority:        "high",
			PriorityWeight:  5,
			PulseImpact:     0.5,
			DisplayCategory: "Growth",
			ImpactArea:      "Accountability",
		},
	}
}

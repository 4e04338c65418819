package generate

import (
	"agentpulse/internal/crm"
	"agentpulse/internal/model"
)

// assembleAction maps a matched template to a draft daily action. Pure; the
// orchestrator persists drafts in one batch after ranking.
func assembleAction(t model.TaskTemplate, userID, actionDate string) model.DailyAction {
	return model.DailyAction{
		UserID:          userID,
		ActionDate:      actionDate,
		ActionType:      t.ActionType,
		Title:           t.Title,
		Description:     t.Description,
		Priority:        t.Priority,
		Status:          model.StatusNotStarted,
		IsRecurring:     false,
		Generated:       true,
		Category:        t.Category,
		PulseImpact:     t.PulseImpact,
		DisplayCategory: t.DisplayCategory,
		PriorityWeight:  t.Weight(),
		ImpactArea:      t.ImpactArea,
	}
}

// assembleCRMAction maps an externally-synced CRM task into the same shape.
// Fixed fields follow the product's follow-up defaults.
func assembleCRMAction(ct crm.Task, userID, actionDate string) model.DailyAction {
	priority := ct.Priority
	if priority == "" {
		priority = "medium"
	}
	return model.DailyAction{
		UserID:          userID,
		ActionDate:      actionDate,
		ActionType:      "client_follow_up",
		Category:        ct.CRMType + "_sync",
		Title:           ct.Title,
		Description:     ct.Description,
		Priority:        priority,
		Status:          model.StatusNotStarted,
		IsRecurring:     false,
		Generated:       true,
		PulseImpact:     0.1,
		DisplayCategory: "Power Hour Theme",
		PriorityWeight:  4,
		ImpactArea:      "Urgency",
		Source: &model.SourceMeta{
			Source:    ct.CRMType,
			CRMTaskID: ct.CRMTaskID,
			DueDate:   ct.DueDate,
		},
	}
}

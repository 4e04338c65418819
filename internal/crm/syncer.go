// Package crm pulls follow-up tasks from an external CRM bridge so they can
// ride along on a user's generated daily plan.
package crm

import "context"

// Task is the shape the bridge returns for one open CRM task.
type Task struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	CRMType     string `json:"crmType"`
	CRMTaskID   string `json:"crmTaskId"`
	DueDate     string `json:"dueDate,omitempty"`
}

// Syncer fetches a user's open CRM tasks. Failures are the caller's to
// contain: the generation engine logs and proceeds without CRM tasks.
type Syncer interface {
	SyncTasks(ctx context.Context, userID string) ([]Task, error)
}

// Noop is the default syncer: no CRM connected, nothing to pull.
type Noop struct{}

func (Noop) SyncTasks(ctx context.Context, userID string) ([]Task, error) {
	return nil, nil
}

// Static returns a fixed set of tasks (or a fixed error). Test double.
type Static struct {
	Tasks []Task
	Err   error
}

func (s Static) SyncTasks(ctx context.Context, userID string) ([]Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Tasks, nil
}

package crm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_SyncTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks" {
			t.Errorf("path = %q, want /tasks", r.URL.Path)
		}
		if got := r.URL.Query().Get("userId"); got != "u1" {
			t.Errorf("userId = %q, want u1", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-123" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title":"Call the Hendersons","crmType":"followupboss","crmTaskId":"fub-1","dueDate":"2025-01-16"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-123", time.Second)
	tasks, err := c.SyncTasks(context.Background(), "u1")
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "Call the Hendersons" || tasks[0].CRMType != "followupboss" || tasks[0].CRMTaskID != "fub-1" {
		t.Fatalf("unexpected task: %+v", tasks[0])
	}
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", time.Second)
	if _, err := c.SyncTasks(context.Background(), "u1"); err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// stubTaskRepo mirrors the persistence contract: every lookup of an
// existing task matches on (id, userID) jointly.
type stubTaskRepo struct {
	tasks  map[string]*domain.Task
	nextID int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.nextID++
	created := cloneTask(task)
	created.ID = fmt.Sprintf("task-%d", r.nextID)
	r.tasks[created.ID] = cloneTask(created)
	return created, nil
}

func (r *stubTaskRepo) List(_ context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, task := range r.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		out = append(out, cloneTask(task))
	}
	return out, nil
}

func (r *stubTaskRepo) FindOwned(_ context.Context, userID, taskID string) (*domain.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *stubTaskRepo) Update(_ context.Context, userID, taskID string, changes ports.TaskChanges) (*domain.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	if changes.Title != nil {
		task.Title = *changes.Title
	}
	if changes.Description != nil {
		task.Description = *changes.Description
	}
	if changes.Status != nil {
		task.Status = *changes.Status
	}
	if changes.CategoryID != nil {
		task.CategoryID = *changes.CategoryID
	}
	return cloneTask(task), nil
}

func (r *stubTaskRepo) Delete(_ context.Context, userID, taskID string) error {
	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

type stubDispatcher struct {
	entries []ports.ActivityInput
}

func (d *stubDispatcher) Enqueue(input ports.ActivityInput) {
	d.entries = append(d.entries, input)
}

func newTestTaskService() (*TaskService, *stubTaskRepo, *stubDispatcher) {
	repo := newStubTaskRepo()
	dispatcher := &stubDispatcher{}
	return NewTaskService(repo, dispatcher, zerolog.Nop()), repo, dispatcher
}

func TestTaskService_Create_DefaultsToPending(t *testing.T) {
	svc, _, dispatcher := newTestTaskService()

	task, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "buy milk"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}
	if task.UserID != "user-a" {
		t.Fatalf("owner not fixed to caller: %s", task.UserID)
	}
	if len(dispatcher.entries) != 1 || dispatcher.entries[0].Action != domain.ActivityCreated {
		t.Fatalf("expected one created activity entry, got %+v", dispatcher.entries)
	}
}

func TestTaskService_Create_EmptyTitle(t *testing.T) {
	svc, _, _ := newTestTaskService()

	for _, title := range []string{"", "   "} {
		if _, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: title}); !errors.Is(err, domain.ErrTitleRequired) {
			t.Fatalf("title %q: expected ErrTitleRequired, got %v", title, err)
		}
	}
}

func TestTaskService_Create_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestTaskService()

	_, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "x", Status: "archived"})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskService_GetOwned_OtherUsersTask(t *testing.T) {
	svc, _, _ := newTestTaskService()

	task, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "secret"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A foreign owner gets the same not-found as a missing id.
	if _, err := svc.GetOwned(context.Background(), "user-b", task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), "user-a", "task-999"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for missing id, got %v", err)
	}

	if _, err := svc.GetOwned(context.Background(), "user-a", task.ID); err != nil {
		t.Fatalf("owner should see the task: %v", err)
	}
}

func TestTaskService_Update_PartialFields(t *testing.T) {
	svc, _, dispatcher := newTestTaskService()

	task, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{
		Title:       "write report",
		Description: "quarterly numbers",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	status := "completed"
	updated, err := svc.Update(context.Background(), "user-a", task.ID, ports.UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.StatusCompleted {
		t.Fatalf("status not updated: %s", updated.Status)
	}
	if updated.Title != "write report" || updated.Description != "quarterly numbers" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.UserID != "user-a" {
		t.Fatalf("owner changed: %s", updated.UserID)
	}

	last := dispatcher.entries[len(dispatcher.entries)-1]
	if last.Action != domain.ActivityCompleted {
		t.Fatalf("expected completed activity, got %s", last.Action)
	}
}

func TestTaskService_Update_EmptyTitleRejectedBeforeStore(t *testing.T) {
	svc, repo, _ := newTestTaskService()

	task, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "original"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	empty := "  "
	if _, err := svc.Update(context.Background(), "user-a", task.ID, ports.UpdateTaskInput{Title: &empty}); !errors.Is(err, domain.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if repo.tasks[task.ID].Title != "original" {
		t.Fatalf("store changed on rejected update")
	}
}

func TestTaskService_Update_OtherUsersTask(t *testing.T) {
	svc, repo, _ := newTestTaskService()

	task, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "mine"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	title := "stolen"
	if _, err := svc.Update(context.Background(), "user-b", task.ID, ports.UpdateTaskInput{Title: &title}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if repo.tasks[task.ID].Title != "mine" {
		t.Fatalf("foreign update mutated the task")
	}
}

func TestTaskService_Delete_Idempotence(t *testing.T) {
	svc, _, _ := newTestTaskService()

	task, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "temp"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-a", task.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "user-a", task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("second delete: expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_Delete_OtherUsersTask(t *testing.T) {
	svc, repo, _ := newTestTaskService()

	task, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "keep"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-b", task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, ok := repo.tasks[task.ID]; !ok {
		t.Fatalf("task deleted by non-owner")
	}
}

func TestTaskService_List_StatusFilterScopedToCaller(t *testing.T) {
	svc, _, _ := newTestTaskService()

	if _, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "a1", Status: "completed"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-a", ports.CreateTaskInput{Title: "a2"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-b", ports.CreateTaskInput{Title: "b1", Status: "completed"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tasks, err := svc.List(context.Background(), "user-a", ports.ListTasksInput{Status: "completed"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "a1" || tasks[0].UserID != "user-a" {
		t.Fatalf("unexpected task: %+v", tasks[0])
	}
}

func TestTaskService_List_InvalidStatusFilter(t *testing.T) {
	svc, _, _ := newTestTaskService()

	if _, err := svc.List(context.Background(), "user-a", ports.ListTasksInput{Status: "archived"}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

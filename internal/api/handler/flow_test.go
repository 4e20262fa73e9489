package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/api"
	"github.com/taskhive/task-system/internal/api/handler"
	"github.com/taskhive/task-system/internal/api/middleware"
	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
	"github.com/taskhive/task-system/internal/core/service"
	"github.com/taskhive/task-system/internal/pkg/token"
)

// In-memory repositories backing the request-level flow tests. They
// mirror the persistence contract: task lookups match on (id, userID)
// jointly.

type memUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	created := *user
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[created.Email] = &created
	return &created, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type memTaskRepo struct {
	tasks  map[string]*domain.Task
	nextID int
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.nextID++
	created := *task
	created.ID = fmt.Sprintf("t%d", r.nextID)
	r.tasks[created.ID] = &created
	clone := created
	return &clone, nil
}

func (r *memTaskRepo) List(_ context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, task := range r.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		clone := *task
		out = append(out, &clone)
	}
	return out, nil
}

func (r *memTaskRepo) FindOwned(_ context.Context, userID, taskID string) (*domain.Task, error) {
	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	clone := *task
	return &clone, nil
}

func (r *memTaskRepo) Update(_ context.Context, userID, taskID string, changes ports.TaskChanges) (*domain.Task, error) {
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
	clone := *task
	return &clone, nil
}

func (r *memTaskRepo) Delete(_ context.Context, userID, taskID string) error {
	task, ok := r.tasks[taskID]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

type noopDispatcher struct{}

func (noopDispatcher) Enqueue(ports.ActivityInput) {}

// flowServer wires real services, the real auth middleware, and the real
// error handler over in-memory repositories.
type flowServer struct {
	e     *echo.Echo
	tasks *memTaskRepo
}

func newFlowServer() *flowServer {
	codec := token.NewCodec("test-secret", time.Hour)
	userRepo := &memUserRepo{users: make(map[string]*domain.User)}
	taskRepo := &memTaskRepo{tasks: make(map[string]*domain.Task)}

	authService := service.NewAuthService(userRepo, codec)
	taskService := service.NewTaskService(taskRepo, noopDispatcher{}, zerolog.Nop())

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	authRequired := middleware.Auth(codec)

	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	tasks := e.Group("/tasks", authRequired)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return &flowServer{e: e, tasks: taskRepo}
}

func (s *flowServer) do(t *testing.T, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *flowServer) registerAndLogin(t *testing.T, name, email, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", fmt.Sprintf(`{"name":%q,"email":%q,"password":%q}`, name, email, password), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/auth/login", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("login: no token in %s", rec.Body.String())
	}
	return resp.Token
}

func TestFlow_RegisterLoginCreateTask(t *testing.T) {
	s := newFlowServer()
	bearer := s.registerAndLogin(t, "Alice", "a@x.com", "pw")

	rec := s.do(t, http.MethodPost, "/tasks", `{"title":"buy milk"}`, bearer)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var task domain.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if task.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", task.Status)
	}
	if task.UserID == "" {
		t.Fatalf("task has no owner")
	}
	if stored := s.tasks.tasks[task.ID]; stored == nil || stored.UserID != task.UserID {
		t.Fatalf("task not persisted under owner")
	}
}

func TestFlow_CrossUserDeleteIs404AndHarmless(t *testing.T) {
	s := newFlowServer()
	bearerA := s.registerAndLogin(t, "Alice", "a@x.com", "pw")
	bearerB := s.registerAndLogin(t, "Bob", "b@x.com", "pw")

	rec := s.do(t, http.MethodPost, "/tasks", `{"title":"secret plan"}`, bearerA)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}
	var task domain.Task
	_ = json.Unmarshal(rec.Body.Bytes(), &task)

	// B holds a perfectly valid token, but the task is not theirs: the
	// response must be the same 404 a missing id would produce.
	rec = s.do(t, http.MethodGet, "/tasks/"+task.ID, "", bearerB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign get: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodGet, "/tasks/"+task.ID, "", bearerA)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get: expected 200, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodDelete, "/tasks/"+task.ID, "", bearerB)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := s.tasks.tasks[task.ID]; !ok {
		t.Fatalf("task deleted by non-owner")
	}

	// The owner still sees and can delete it.
	rec = s.do(t, http.MethodDelete, "/tasks/"+task.ID, "", bearerA)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodDelete, "/tasks/"+task.ID, "", bearerA)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestFlow_UpdateEmptyTitleIs400AndStoreUnchanged(t *testing.T) {
	s := newFlowServer()
	bearer := s.registerAndLogin(t, "Alice", "a@x.com", "pw")

	rec := s.do(t, http.MethodPost, "/tasks", `{"title":"original"}`, bearer)
	var task domain.Task
	_ = json.Unmarshal(rec.Body.Bytes(), &task)

	rec = s.do(t, http.MethodPut, "/tasks/"+task.ID, `{"title":""}`, bearer)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "title") {
		t.Fatalf("expected field error on title, got %s", rec.Body.String())
	}
	if s.tasks.tasks[task.ID].Title != "original" {
		t.Fatalf("store changed on rejected update")
	}
}

func TestFlow_StatusFilterExcludesOtherUsers(t *testing.T) {
	s := newFlowServer()
	bearerA := s.registerAndLogin(t, "Alice", "a@x.com", "pw")
	bearerB := s.registerAndLogin(t, "Bob", "b@x.com", "pw")

	for _, req := range []struct{ bearer, body string }{
		{bearerA, `{"title":"a done","status":"completed"}`},
		{bearerA, `{"title":"a open"}`},
		{bearerB, `{"title":"b done","status":"completed"}`},
	} {
		if rec := s.do(t, http.MethodPost, "/tasks", req.body, req.bearer); rec.Code != http.StatusCreated {
			t.Fatalf("create: expected 201, got %d", rec.Code)
		}
	}

	rec := s.do(t, http.MethodGet, "/tasks?status=completed", "", bearerA)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var tasks []domain.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "a done" {
		t.Fatalf("expected only the caller's completed task, got %+v", tasks)
	}
}

func TestFlow_MissingTokenIs401(t *testing.T) {
	s := newFlowServer()

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/tasks", ""},
		{http.MethodPost, "/tasks", `{"title":"x"}`},
		{http.MethodPut, "/tasks/t1", `{"title":"x"}`},
		{http.MethodDelete, "/tasks/t1", ""},
	} {
		rec := s.do(t, tc.method, tc.path, tc.body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

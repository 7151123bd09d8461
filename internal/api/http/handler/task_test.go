package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskdeck-server/internal/api/http/middleware"
	"github.com/dtroode/taskdeck-server/internal/model"
	"github.com/dtroode/taskdeck-server/internal/service"
	"github.com/dtroode/taskdeck-server/internal/testutil"
	"github.com/dtroode/taskdeck-server/internal/token"
	"github.com/dtroode/taskdeck-server/web"
)

type taskSvcStub struct {
	task    model.Task
	err     error
	buckets model.TaskBuckets

	added   []service.AddTaskParams
	deleted []uuid.UUID
}

func (s *taskSvcStub) Add(_ context.Context, params service.AddTaskParams) (model.Task, error) {
	if s.err != nil {
		return model.Task{}, s.err
	}
	s.added = append(s.added, params)
	return s.task, nil
}

func (s *taskSvcStub) Get(_ context.Context, _, _ uuid.UUID) (model.Task, error) {
	return s.task, s.err
}

func (s *taskSvcStub) ToggleCompletion(_ context.Context, _, _ uuid.UUID, completed bool) (model.Task, error) {
	if s.err != nil {
		return model.Task{}, s.err
	}
	task := s.task
	task.Completed = completed
	return task, nil
}

func (s *taskSvcStub) Delete(_ context.Context, taskID, _ uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, taskID)
	return nil
}

func (s *taskSvcStub) Buckets(_ context.Context, _ uuid.UUID, _ model.Date) (model.TaskBuckets, error) {
	return s.buckets, s.err
}

func taskEngine(t *testing.T, taskSvc *taskSvcStub, authSvc *authSvcStub) (*gin.Engine, *http.Cookie) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userID := uuid.New()
	authSvc.session.UserID = &userID
	authSvc.user = &model.User{ID: userID, FirstName: "test"}

	lg := testutil.MakeNoopLogger()
	codec := token.NewSessionCodec("handler-test", time.Hour)
	authenticate := middleware.NewAuthenticate(authSvc, codec, lg)

	engine := gin.New()
	engine.Use(authenticate.Load)
	engine.Use(authenticate.RequireUser)
	engine.SetHTMLTemplate(web.Templates())

	h := NewTask(taskSvc, authSvc, lg)
	engine.GET("/todos", h.List)
	engine.GET("/todos/:id", h.Get)
	engine.POST("/todos", h.Create)
	engine.PUT("/todos/:id", h.Toggle)
	engine.DELETE("/todos/:id", h.Delete)

	value, err := codec.Encode(authSvc.session.ID)
	require.NoError(t, err)
	return engine, &http.Cookie{Name: middleware.CookieName, Value: value}
}

func emptyBuckets() model.TaskBuckets {
	return model.TaskBuckets{
		Overdue:   []model.Task{},
		DueToday:  []model.Task{},
		DueLater:  []model.Task{},
		Completed: []model.Task{},
	}
}

func TestTask_List_JSONWhenPreferred(t *testing.T) {
	t.Parallel()

	taskSvc := &taskSvcStub{buckets: emptyBuckets()}
	taskSvc.buckets.DueToday = []model.Task{{
		ID:    uuid.New(),
		Title: "Complete Wd 201",
	}}
	engine, cookie := taskEngine(t, taskSvc, newAuthSvcStub())

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), `"dueToday":[{`)
	assert.Contains(t, w.Body.String(), `"overDue":[]`)
	assert.Contains(t, w.Body.String(), `"dueLater":[]`)
	assert.Contains(t, w.Body.String(), `"completedItems":[]`)
}

func TestTask_List_HTMLByDefault(t *testing.T) {
	t.Parallel()

	taskSvc := &taskSvcStub{buckets: emptyBuckets()}
	taskSvc.buckets.Overdue = []model.Task{{
		ID:      uuid.New(),
		Title:   "Buy groceries",
		DueDate: model.Date{Year: 2026, Month: time.August, Day: 1},
	}}
	engine, cookie := taskEngine(t, taskSvc, newAuthSvcStub())

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Accept", "text/html")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "test&#39;s todos")
	assert.Contains(t, w.Body.String(), "Buy groceries")
	assert.Contains(t, w.Body.String(), `name="_csrf"`)
}

func TestTask_Get(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()
	taskSvc := &taskSvcStub{task: model.Task{ID: taskID, Title: "Buy groceries"}}
	engine, cookie := taskEngine(t, taskSvc, newAuthSvcStub())

	req := httptest.NewRequest(http.MethodGet, "/todos/"+taskID.String(), nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Buy groceries")
}

func TestTask_Get_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		id         string
		err        error
		wantStatus int
	}{
		{
			name:       "malformed id",
			id:         "not-a-uuid",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "absent",
			id:         uuid.NewString(),
			err:        model.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "foreign",
			id:         uuid.NewString(),
			err:        model.NewAuthorizationError(uuid.New()),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskSvc := &taskSvcStub{err: tt.err}
			engine, cookie := taskEngine(t, taskSvc, newAuthSvcStub())

			req := httptest.NewRequest(http.MethodGet, "/todos/"+tt.id, nil)
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestTask_Create(t *testing.T) {
	t.Parallel()

	authSvc := newAuthSvcStub()
	taskSvc := &taskSvcStub{}
	engine, cookie := taskEngine(t, taskSvc, authSvc)

	req := httptest.NewRequest(http.MethodPost, "/todos",
		strings.NewReader("title=Complete+Wd+201&dueDate=2026-08-28"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/todos", w.Header().Get("Location"))

	require.Len(t, taskSvc.added, 1)
	assert.Equal(t, "Complete Wd 201", taskSvc.added[0].Title)
	assert.Equal(t, model.Date{Year: 2026, Month: time.August, Day: 28}, taskSvc.added[0].DueDate)
	assert.Equal(t, *authSvc.session.UserID, taskSvc.added[0].OwnerID)
	assert.Equal(t, "Todo item added successfully", authSvc.flashes[authSvc.session.ID].Message)
}

func TestTask_Create_InvalidInputFlashes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form string
		err  error
	}{
		{
			name: "unparseable due date",
			form: "title=Complete+Wd+201&dueDate=tomorrow",
		},
		{
			name: "missing due date",
			form: "title=Complete+Wd+201",
		},
		{
			name: "short title",
			form: "title=Eggs&dueDate=2026-08-28",
			err:  model.NewValidationError("title", "must be at least 5 characters"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := newAuthSvcStub()
			taskSvc := &taskSvcStub{err: tt.err}
			engine, cookie := taskEngine(t, taskSvc, authSvc)

			req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(tt.form))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			require.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/todos", w.Header().Get("Location"))
			assert.Empty(t, taskSvc.added)
			assert.Equal(t, "Please enter a valid title and due date for the todo item",
				authSvc.flashes[authSvc.session.ID].Message)
		})
	}
}

func TestTask_Toggle(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()
	taskSvc := &taskSvcStub{task: model.Task{ID: taskID, Title: "Buy groceries"}}
	engine, cookie := taskEngine(t, taskSvc, newAuthSvcStub())

	req := httptest.NewRequest(http.MethodPut, "/todos/"+taskID.String(),
		strings.NewReader(`{"completed":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":true`)
}

func TestTask_Toggle_ForeignForbidden(t *testing.T) {
	t.Parallel()

	taskSvc := &taskSvcStub{err: model.NewAuthorizationError(uuid.New())}
	engine, cookie := taskEngine(t, taskSvc, newAuthSvcStub())

	req := httptest.NewRequest(http.MethodPut, "/todos/"+uuid.NewString(),
		strings.NewReader(`{"completed":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"success":false}`, w.Body.String())
}

func TestTask_Delete(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()
	taskSvc := &taskSvcStub{}
	engine, cookie := taskEngine(t, taskSvc, newAuthSvcStub())

	req := httptest.NewRequest(http.MethodDelete, "/todos/"+taskID.String(), nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, []uuid.UUID{taskID}, taskSvc.deleted)
}

func TestTask_Delete_Absent(t *testing.T) {
	t.Parallel()

	taskSvc := &taskSvcStub{err: model.ErrNotFound}
	engine, cookie := taskEngine(t, taskSvc, newAuthSvcStub())

	req := httptest.NewRequest(http.MethodDelete, "/todos/"+uuid.NewString(), nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false}`, w.Body.String())
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/taskdeck-server/internal/api/http/middleware"
	"github.com/dtroode/taskdeck-server/internal/logger"
	"github.com/dtroode/taskdeck-server/internal/model"
	"github.com/dtroode/taskdeck-server/internal/service"
)

// TaskService defines task operations used by handlers. Every operation takes
// the acting identity explicitly.
type TaskService interface {
	Add(ctx context.Context, params service.AddTaskParams) (model.Task, error)
	Get(ctx context.Context, taskID, actorID uuid.UUID) (model.Task, error)
	ToggleCompletion(ctx context.Context, taskID, actorID uuid.UUID, completed bool) (model.Task, error)
	Delete(ctx context.Context, taskID, actorID uuid.UUID) error
	Buckets(ctx context.Context, ownerID uuid.UUID, today model.Date) (model.TaskBuckets, error)
}

// Task handles the /todos endpoints.
type Task struct {
	taskService TaskService
	authService AuthService
	logger      *logger.Logger
	now         func() time.Time
}

// NewTask creates a new Task handler.
func NewTask(taskService TaskService, authService AuthService, logger *logger.Logger) *Task {
	return &Task{
		taskService: taskService,
		authService: authService,
		logger:      logger,
		now:         time.Now,
	}
}

type createTaskForm struct {
	Title   string `form:"title" json:"title"`
	DueDate string `form:"dueDate" json:"dueDate"`
}

type toggleForm struct {
	Completed bool `form:"completed" json:"completed"`
}

// List returns the four categorized buckets for the current identity, as JSON
// when the client prefers it and as a rendered page otherwise.
func (h *Task) List(c *gin.Context) {
	user, _ := middleware.UserFrom(c)

	buckets, err := h.taskService.Buckets(c.Request.Context(), user.ID, model.DateOf(h.now()))
	if err != nil {
		h.logger.Error("failed to categorize tasks", "user_id", user.ID, "error", err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false})
		return
	}

	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEJSON:
		c.JSON(http.StatusOK, buckets)
	default:
		h.renderTodos(c, user, buckets)
	}
}

// Get returns an owned task by id. Foreign tasks yield 403 with no content,
// absent ones 404.
func (h *Task) Get(c *gin.Context) {
	user, _ := middleware.UserFrom(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), taskID, user.ID)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Create adds a task for the current identity and redirects back to /todos.
// Validation failures flash a reason and redirect the same way.
func (h *Task) Create(c *gin.Context) {
	user, _ := middleware.UserFrom(c)

	var form createTaskForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashAndRedirect(c, model.FlashError, "Please enter a valid title and due date for the todo item")
		return
	}

	dueDate, err := model.ParseDate(form.DueDate)
	if err != nil {
		h.flashAndRedirect(c, model.FlashError, "Please enter a valid title and due date for the todo item")
		return
	}

	_, err = h.taskService.Add(c.Request.Context(), service.AddTaskParams{
		Title:   form.Title,
		DueDate: dueDate,
		OwnerID: user.ID,
	})
	if err != nil {
		var vErr *model.ValidationError
		if !errors.As(err, &vErr) {
			h.logger.Error("failed to create task", "user_id", user.ID, "error", err.Error())
		}
		h.flashAndRedirect(c, model.FlashError, "Please enter a valid title and due date for the todo item")
		return
	}

	h.flashAndRedirect(c, model.FlashSuccess, "Todo item added successfully")
}

// Toggle sets the completion flag on an owned task and returns the updated
// record.
func (h *Task) Toggle(c *gin.Context) {
	user, _ := middleware.UserFrom(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}

	var form toggleForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false})
		return
	}

	task, err := h.taskService.ToggleCompletion(c.Request.Context(), taskID, user.ID, form.Completed)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete removes an owned task.
func (h *Task) Delete(c *gin.Context) {
	user, _ := middleware.UserFrom(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false})
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), taskID, user.ID); err != nil {
		h.writeTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Task) renderTodos(c *gin.Context, user model.User, buckets model.TaskBuckets) {
	session, _ := middleware.SessionFrom(c)

	data := gin.H{
		"Title":          "Todos",
		"CSRFToken":      session.CSRFToken,
		"FirstName":      user.FirstName,
		"Overdue":        buckets.Overdue,
		"DueToday":       buckets.DueToday,
		"DueLater":       buckets.DueLater,
		"CompletedItems": buckets.Completed,
	}

	flash, err := h.authService.TakeFlash(c.Request.Context(), session.ID)
	if err != nil {
		h.logger.Error("failed to take flash", "error", err.Error())
	}
	if !flash.IsZero() {
		data["Flash"] = flash
	}

	c.HTML(http.StatusOK, "todos.html", data)
}

func (h *Task) writeTaskError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusUnprocessableEntity {
		h.logger.Error("task operation failed", "path", c.Request.URL.Path, "error", err.Error())
	}
	c.JSON(status, gin.H{"success": false})
}

func (h *Task) flashAndRedirect(c *gin.Context, kind, message string) {
	if session, ok := middleware.SessionFrom(c); ok {
		if err := h.authService.SetFlash(c.Request.Context(), session.ID, model.Flash{Kind: kind, Message: message}); err != nil {
			h.logger.Error("failed to set flash", "error", err.Error())
		}
	}
	c.Redirect(http.StatusFound, "/todos")
}

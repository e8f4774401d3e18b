package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// TodoHandler handles the owner-scoped todo endpoints.
type TodoHandler struct {
	todoService service.TodoService
}

// NewTodoHandler creates a new todo handler.
func NewTodoHandler(todoService service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// CreateTodoRequest represents a new todo.
type CreateTodoRequest struct {
	Title       string      `json:"title" validate:"required,max=100"`
	Description string      `json:"description" validate:"max=500"`
	Deadline    *model.Date `json:"deadline"`
}

// UpdateTodoRequest represents a partial todo update. Absent fields stay
// untouched; a null deadline clears it.
type UpdateTodoRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=100"`
	Description *string            `json:"description" validate:"omitempty,max=500"`
	Completed   *bool              `json:"completed"`
	Deadline    model.OptionalDate `json:"deadline"`
}

// todoID parses the :id path segment. A malformed id cannot name an owned
// todo, so it surfaces as not found rather than a distinct error.
func todoID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, httpError(apperrors.ErrTodoNotFound)
	}
	return id, nil
}

// List godoc
// @Summary List the caller's todos, newest first
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Todo
// @Failure 401 {object} errors.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	todos, err := h.todoService.List(c.Request().Context(), identity.UserID)
	if err != nil {
		return httpError(err)
	}
	if todos == nil {
		todos = []model.Todo{}
	}

	return c.JSON(http.StatusOK, todos)
}

// Get godoc
// @Summary Get one todo by id
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID"
// @Success 200 {object} model.Todo
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	todo, err := h.todoService.Get(c.Request().Context(), id, identity.UserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, todo)
}

// Create godoc
// @Summary Create a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTodoRequest true "Todo fields"
// @Success 201 {object} model.Todo
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	var req CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := h.todoService.Create(c.Request().Context(), identity.UserID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, todo)
}

// Update godoc
// @Summary Partially update a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID"
// @Param request body UpdateTodoRequest true "Fields to change"
// @Success 200 {object} model.Todo
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	var req UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := h.todoService.Update(c.Request().Context(), id, identity.UserID, service.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Deadline:    req.Deadline,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, todo)
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Security BearerAuth
// @Param id path string true "Todo ID"
// @Success 204 "No Content"
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	deleted, err := h.todoService.Delete(c.Request().Context(), id, identity.UserID)
	if err != nil {
		return httpError(err)
	}
	if !deleted {
		return httpError(apperrors.ErrTodoNotFound)
	}

	return c.NoContent(http.StatusNoContent)
}

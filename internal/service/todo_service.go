package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// CreateTodoInput carries the caller-supplied fields of a new todo.
type CreateTodoInput struct {
	Title       string
	Description string
	Deadline    *model.Date
}

// TodoPatch carries a partial update. Nil pointers mean "not sent"; the
// deadline additionally distinguishes an explicit null, which clears it.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Deadline    model.OptionalDate
}

// TodoService exposes the owner-scoped todo operations.
type TodoService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Todo, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Todo, error)
	Create(ctx context.Context, ownerID uuid.UUID, in CreateTodoInput) (*model.Todo, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, patch TodoPatch) (*model.Todo, error)
	// Delete reports whether a row was removed; false means the todo was
	// already gone or never belonged to the caller.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}

type todoService struct {
	todos repository.TodoRepository
}

// NewTodoService builds a TodoService on top of the repository.
func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{todos: todos}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.ErrTitleRequired
	}
	if len(title) > model.MaxTitleLength {
		return apperrors.ErrTitleTooLong
	}
	return nil
}

// List returns the owner's todos, most recently created first.
func (s *todoService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Todo, error) {
	todos, err := s.todos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *todoService) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Todo, error) {
	todo, err := s.todos.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Create(ctx context.Context, ownerID uuid.UUID, in CreateTodoInput) (*model.Todo, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if len(in.Description) > model.MaxDescriptionLength {
		return nil, apperrors.ErrDescriptionTooLong
	}

	todo := &model.Todo{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Completed:   false,
		Deadline:    in.Deadline,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update applies only the supplied patch fields to the owner's todo.
func (s *todoService) Update(ctx context.Context, id, ownerID uuid.UUID, patch TodoPatch) (*model.Todo, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil && len(*patch.Description) > model.MaxDescriptionLength {
		return nil, apperrors.ErrDescriptionTooLong
	}

	todo, err := s.todos.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}

	if patch.Title != nil {
		todo.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		todo.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	if patch.Deadline.Set {
		todo.Deadline = patch.Deadline.Value
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	deleted, err := s.todos.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete todo: %w", err)
	}
	return deleted, nil
}

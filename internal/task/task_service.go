package task

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"tasktrack/db"
	"tasktrack/models"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskInvalidArgs = errors.New("task invalid args")
)

// TaskService handles task operations; every call is scoped to the owner
type TaskService struct {
	repo db.TaskRepository
}

// NewTaskService creates a new task service
func NewTaskService(repo db.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns all tasks owned by the given user
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	return s.repo.FindAllByOwner(ctx, ownerID)
}

// Create stores a new task owned by the given user
func (s *TaskService) Create(ctx context.Context, ownerID int64, title string, description *string) (*models.Task, error) {
	if !validTitle(title) {
		return nil, ErrTaskInvalidArgs
	}

	return s.repo.Create(ctx, &models.Task{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	})
}

// Get returns the task if the given user owns it, ErrTaskNotFound otherwise
func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return task, nil
}

// Update mutates the task if the given user owns it. A nil completed flag
// keeps the stored completion state.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, title string, description *string, completed *bool) (*models.Task, error) {
	if !validTitle(title) {
		return nil, ErrTaskInvalidArgs
	}

	task, err := s.repo.Update(ctx, ownerID, id, title, description, completed)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return task, nil
}

// Delete removes the task if the given user owns it
func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return translateNotFound(err)
	}
	return nil
}

// validTitle bounds titles by character count, matching the column
// definition rather than the UTF-8 byte length.
func validTitle(title string) bool {
	return strings.TrimSpace(title) != "" && utf8.RuneCountInString(title) <= models.MaxTitleLength
}

func translateNotFound(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

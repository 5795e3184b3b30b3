package db

import (
	"context"
	"database/sql"
	"errors"

	"tasktrack/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository defines the interface for user account operations.
// Repositories share the pooled connection owned by the caller; they do
// not manage its lifecycle.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// TaskRepository defines the interface for task operations. Every lookup
// and mutation is scoped to the owning user's id; a task that exists but
// belongs to someone else is indistinguishable from a missing one.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	FindByID(ctx context.Context, ownerID, id int64) (*models.Task, error)
	FindAllByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error)
	Update(ctx context.Context, ownerID, id int64, title string, description *string, completed *bool) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// RepositoryFactory creates repositories backed by the shared connection pool
type RepositoryFactory struct {
	SQLiteDB *sql.DB
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(sqliteDB *sql.DB) *RepositoryFactory {
	return &RepositoryFactory{SQLiteDB: sqliteDB}
}

// NewUserRepository creates a new user repository
func (f *RepositoryFactory) NewUserRepository() UserRepository {
	return NewSQLiteUserRepository(f.SQLiteDB)
}

// NewTaskRepository creates a new task repository
func (f *RepositoryFactory) NewTaskRepository() TaskRepository {
	return NewSQLiteTaskRepository(f.SQLiteDB)
}

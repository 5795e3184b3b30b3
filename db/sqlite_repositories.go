package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"tasktrack/models"
)

// SQLiteUserRepository implements the UserRepository interface for SQLite
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create inserts a new user. Uniqueness of email and username is enforced
// by the table constraints, so concurrent duplicate signups race on the
// insert itself and exactly one of them wins.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	query := `INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if dupErr := translateUniqueViolation(err); dupErr != nil {
			return nil, dupErr
		}
		return nil, fmt.Errorf("error inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting last insert ID: %w", err)
	}
	user.ID = id

	return user, nil
}

// FindByID finds a user by ID
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail finds a user by email
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

// FindByUsername finds a user by username
func (r *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

// Delete removes a user. Owned tasks are removed by the cascading foreign
// key on tasks.owner_id.
func (r *SQLiteUserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SQLiteUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return &user, nil
}

// translateUniqueViolation maps a SQLite unique-constraint failure to the
// matching duplicate sentinel, or returns nil for unrelated errors.
func translateUniqueViolation(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return nil
	}
	if strings.Contains(sqliteErr.Error(), "users.email") {
		return ErrDuplicateEmail
	}
	if strings.Contains(sqliteErr.Error(), "users.username") {
		return ErrDuplicateUsername
	}
	return nil
}

// SQLiteTaskRepository implements the TaskRepository interface for SQLite
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLiteTaskRepository
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

// Create inserts a new task owned by task.OwnerID
func (r *SQLiteTaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `INSERT INTO tasks (title, description, completed, owner_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		task.Title, nullableString(task.Description), task.Completed,
		task.OwnerID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error getting last insert ID: %w", err)
	}
	task.ID = id

	return task, nil
}

// FindByID finds a task by ID, scoped to its owner
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	query := `SELECT id, title, description, completed, owner_id, created_at, updated_at
			  FROM tasks WHERE id = ? AND owner_id = ?`
	return r.scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// FindAllByOwner finds all tasks owned by the given user
func (r *SQLiteTaskRepository) FindAllByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	query := `SELECT id, title, description, completed, owner_id, created_at, updated_at
			  FROM tasks WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var task models.Task
		var description sql.NullString

		err := rows.Scan(&task.ID, &task.Title, &description, &task.Completed,
			&task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning task: %w", err)
		}

		if description.Valid {
			task.Description = &description.String
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over task rows: %w", err)
	}

	return tasks, nil
}

// Update mutates a task in a single owner-scoped statement, so the
// ownership check and the write cannot be split by a concurrent request.
// A nil completed flag leaves the stored value untouched.
func (r *SQLiteTaskRepository) Update(ctx context.Context, ownerID, id int64, title string, description *string, completed *bool) (*models.Task, error) {
	query := `UPDATE tasks
			  SET title = ?, description = ?, completed = COALESCE(?, completed), updated_at = ?
			  WHERE id = ? AND owner_id = ?`
	result, err := r.db.ExecContext(ctx, query,
		title, nullableString(description), nullableBool(completed), time.Now(), id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error getting affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, ownerID, id)
}

// Delete removes a task in a single owner-scoped statement
func (r *SQLiteTaskRepository) Delete(ctx context.Context, ownerID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SQLiteTaskRepository) scanTask(row *sql.Row) (*models.Task, error) {
	var task models.Task
	var description sql.NullString

	err := row.Scan(&task.ID, &task.Title, &description, &task.Completed,
		&task.OwnerID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning task: %w", err)
	}

	if description.Valid {
		task.Description = &description.String
	}
	return &task, nil
}

// Helper functions for handling nullable values
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tasktrack/db"
	"tasktrack/internal/auth"
	"tasktrack/models"
)

// CreateTestUser persists a user whose password is "password1"
func CreateTestUser(t *testing.T, repo db.UserRepository, username, email string) *models.User {
	hash, err := auth.HashPassword("password1")
	require.NoError(t, err)

	user, err := repo.Create(context.Background(), &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	return user
}

// CreateTestTask persists a task owned by the given user
func CreateTestTask(t *testing.T, repo db.TaskRepository, ownerID int64, title string) *models.Task {
	description := "fixture task"
	task, err := repo.Create(context.Background(), &models.Task{
		Title:       title,
		Description: &description,
		OwnerID:     ownerID,
	})
	require.NoError(t, err)
	return task
}

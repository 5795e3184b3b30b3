package user

import (
	"context"
	"errors"
	"fmt"

	"tasktrack/db"
	"tasktrack/internal/auth"
	"tasktrack/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService handles account registration and authentication
type UserService struct {
	repo   db.UserRepository
	tokens *auth.TokenService
}

// NewUserService creates a new user service
func NewUserService(repo db.UserRepository, tokens *auth.TokenService) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

// Register creates an account with a bcrypt-hashed password. The plaintext
// never reaches the repository or any log line.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	created, err := s.repo.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, db.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return created, nil
}

// Authenticate checks the credentials and issues an access token. Unknown
// email and wrong password are reported identically.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Generate(user.Email)
}

// FindByEmail resolves a token subject to a persisted user
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

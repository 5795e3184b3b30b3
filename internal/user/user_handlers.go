package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"tasktrack/internal/auth"
	"tasktrack/middleware"
	"tasktrack/pkg/res"
)

const minPasswordLength = 8

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserHandlers exposes the signup, login and profile endpoints
type UserHandlers struct {
	Service *UserService
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{Service: service}
}

// Signup registers a new account. Duplicate email or username is a 400;
// malformed fields are a 422.
func (h *UserHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		res.Error(w, "invalid request format", http.StatusBadRequest)
		return
	}

	if msg, ok := validateSignup(payload); !ok {
		res.Error(w, msg, http.StatusUnprocessableEntity)
		return
	}

	user, err := h.Service.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			res.Error(w, "Email already registered", http.StatusBadRequest)
		case errors.Is(err, ErrUsernameTaken):
			res.Error(w, "Username already taken", http.StatusBadRequest)
		default:
			res.Error(w, "failed to create user", http.StatusInternalServerError)
		}
		return
	}

	res.Json(w, user, http.StatusCreated)
}

// Login exchanges form-encoded credentials for a bearer token. The form's
// username field carries the account email.
func (h *UserHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		res.Error(w, "invalid request format", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.Service.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			res.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		res.Error(w, "failed to authenticate", http.StatusInternalServerError)
		return
	}

	res.Json(w, TokenResponse{AccessToken: token, TokenType: "bearer"}, http.StatusOK)
}

// Me returns the authenticated caller's profile
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		res.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return
	}

	res.Json(w, user, http.StatusOK)
}

func validateSignup(payload SignupRequest) (string, bool) {
	if payload.Username == "" {
		return "username must not be empty", false
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		return "invalid email address", false
	}
	if len(payload.Password) < minPasswordLength {
		return "Password must be at least 8 characters long.", false
	}
	if len(payload.Password) > auth.MaxPasswordLength {
		return "Password must be at most 72 characters long.", false
	}
	return "", true
}

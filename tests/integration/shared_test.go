package integration

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"tasktrack/db"
	"tasktrack/internal/auth"
	"tasktrack/internal/task"
	"tasktrack/internal/user"
	"tasktrack/internal/web"
	"tasktrack/middleware"
	"tasktrack/models"
	"tasktrack/tests/testutils"
)

type apiFixture struct {
	server   *testutils.TestServer
	userRepo db.UserRepository
	taskRepo db.TaskRepository
	tokens   *auth.TokenService
}

func setupAPI(t *testing.T) *apiFixture {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	t.Cleanup(cleanup)

	cfg := testutils.GetTestConfig()
	userRepo := factory.NewUserRepository()
	taskRepo := factory.NewTaskRepository()

	tokenService := auth.NewTokenService(cfg.JwtKey, cfg.AccessTokenTTL)
	userService := user.NewUserService(userRepo, tokenService)
	taskService := task.NewTaskService(taskRepo)

	userHandlers := user.NewUserHandlers(userService)
	taskHandlers := task.NewTaskHandlers(taskService)
	mw := middleware.NewMiddleware(tokenService, userRepo)

	router := web.NewHandler(userHandlers, taskHandlers, mw, cfg).SetupRoutes()

	server := testutils.NewTestServer(t, router)
	t.Cleanup(server.Close)

	return &apiFixture{
		server:   server,
		userRepo: userRepo,
		taskRepo: taskRepo,
		tokens:   tokenService,
	}
}

// signup registers a user through the API and returns the created profile
func (f *apiFixture) signup(t *testing.T, username, email, password string) *models.User {
	resp := f.server.POST("/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")

	var created models.User
	testutils.AssertJSONResponse(t, resp, http.StatusCreated, &created)
	return &created
}

// login exchanges credentials for a bearer token through the API
func (f *apiFixture) login(t *testing.T, email, password string) string {
	resp := f.server.POSTForm("/auth/login", url.Values{
		"username": {email},
		"password": {password},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body user.TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// signupAndLogin is the common two-step fixture for protected endpoints
func (f *apiFixture) signupAndLogin(t *testing.T, username, email string) (*models.User, string) {
	created := f.signup(t, username, email, "password1")
	token := f.login(t, email, "password1")
	return created, token
}

// createTask creates a task through the API with the given token
func (f *apiFixture) createTask(t *testing.T, token, title string, description *string) *models.Task {
	resp := f.server.POST("/tasks/", task.TaskRequest{Title: title, Description: description}, token)

	var created models.Task
	testutils.AssertJSONResponse(t, resp, http.StatusCreated, &created)
	return &created
}

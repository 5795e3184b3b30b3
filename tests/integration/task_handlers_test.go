package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/models"
	"tasktrack/tests/testutils"
)

func TestTaskCRUD(t *testing.T) {
	api := setupAPI(t)
	_, token := api.signupAndLogin(t, "alice", "a@x.com")

	t.Run("ListEmpty", func(t *testing.T) {
		resp := api.server.GET("/tasks/", token)

		var tasks []models.Task
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &tasks)
		assert.Empty(t, tasks)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		description := "D"
		created := api.createTask(t, token, "T", &description)

		require.NotZero(t, created.ID)
		assert.Equal(t, "T", created.Title)
		require.NotNil(t, created.Description)
		assert.Equal(t, "D", *created.Description)
		assert.False(t, created.Completed)

		// Get reflects what was stored
		resp := api.server.GET(fmt.Sprintf("/tasks/%d", created.ID), token)
		var fetched models.Task
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &fetched)
		assert.Equal(t, "T", fetched.Title)
		require.NotNil(t, fetched.Description)
		assert.Equal(t, "D", *fetched.Description)
		assert.False(t, fetched.Completed)

		// Update the title, then get again
		resp = api.server.PUT(fmt.Sprintf("/tasks/%d", created.ID), map[string]any{
			"title":       "T2",
			"description": "D",
		}, token)
		var updated models.Task
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &updated)
		assert.Equal(t, "T2", updated.Title)

		resp = api.server.GET(fmt.Sprintf("/tasks/%d", created.ID), token)
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &fetched)
		assert.Equal(t, "T2", fetched.Title)
	})

	t.Run("UpdateCanComplete", func(t *testing.T) {
		created := api.createTask(t, token, "finish me", nil)

		resp := api.server.PUT(fmt.Sprintf("/tasks/%d", created.ID), map[string]any{
			"title":     "finish me",
			"completed": true,
		}, token)
		var updated models.Task
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &updated)
		assert.True(t, updated.Completed)
	})

	t.Run("DeleteThenGet", func(t *testing.T) {
		created := api.createTask(t, token, "temporary", nil)

		resp := api.server.DELETE(fmt.Sprintf("/tasks/%d", created.ID), token)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = api.server.GET(fmt.Sprintf("/tasks/%d", created.ID), token)
		testutils.AssertErrorResponse(t, resp, http.StatusNotFound, "")
	})

	t.Run("MissingTitleRejected", func(t *testing.T) {
		resp := api.server.POST("/tasks/", map[string]any{"description": "no title"}, token)
		testutils.AssertErrorResponse(t, resp, http.StatusUnprocessableEntity, "title")
	})

	t.Run("TitleAtBoundAccepted", func(t *testing.T) {
		// 200 multi-byte characters fit the bound even though the
		// UTF-8 encoding is 400 bytes
		title := strings.Repeat("é", 200)
		created := api.createTask(t, token, title, nil)
		assert.Equal(t, title, created.Title)
	})

	t.Run("TitleOverBoundRejected", func(t *testing.T) {
		resp := api.server.POST("/tasks/", map[string]any{
			"title": strings.Repeat("é", 201),
		}, token)
		testutils.AssertErrorResponse(t, resp, http.StatusUnprocessableEntity, "title")
	})

	t.Run("UnknownIdIsNotFound", func(t *testing.T) {
		resp := api.server.GET("/tasks/999999", token)
		testutils.AssertErrorResponse(t, resp, http.StatusNotFound, "")
	})

	t.Run("NonNumericIdIsNotFound", func(t *testing.T) {
		resp := api.server.GET("/tasks/abc", token)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestTaskOwnershipIsolation(t *testing.T) {
	api := setupAPI(t)
	_, aliceToken := api.signupAndLogin(t, "alice", "a@x.com")
	_, bobToken := api.signupAndLogin(t, "bob", "b@x.com")

	aliceTask := api.createTask(t, aliceToken, "alice's secret plan", nil)
	path := fmt.Sprintf("/tasks/%d", aliceTask.ID)

	t.Run("NonOwnerGetIsNotFound", func(t *testing.T) {
		resp := api.server.GET(path, bobToken)
		testutils.AssertErrorResponse(t, resp, http.StatusNotFound, "")
	})

	t.Run("NonOwnerUpdateIsNotFound", func(t *testing.T) {
		resp := api.server.PUT(path, map[string]any{"title": "hijacked"}, bobToken)
		testutils.AssertErrorResponse(t, resp, http.StatusNotFound, "")

		// The task is untouched
		resp = api.server.GET(path, aliceToken)
		var task models.Task
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &task)
		assert.Equal(t, "alice's secret plan", task.Title)
	})

	t.Run("NonOwnerDeleteIsNotFound", func(t *testing.T) {
		resp := api.server.DELETE(path, bobToken)
		testutils.AssertErrorResponse(t, resp, http.StatusNotFound, "")

		resp = api.server.GET(path, aliceToken)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("ListsAreDisjoint", func(t *testing.T) {
		api.createTask(t, bobToken, "bob's task", nil)

		var aliceTasks, bobTasks []models.Task
		resp := api.server.GET("/tasks/", aliceToken)
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &aliceTasks)
		resp = api.server.GET("/tasks/", bobToken)
		testutils.AssertJSONResponse(t, resp, http.StatusOK, &bobTasks)

		require.Len(t, aliceTasks, 1)
		require.Len(t, bobTasks, 1)
		assert.Equal(t, "alice's secret plan", aliceTasks[0].Title)
		assert.Equal(t, "bob's task", bobTasks[0].Title)
	})
}

func TestTasksRequireAuthentication(t *testing.T) {
	api := setupAPI(t)

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/tasks/"},
		{"POST", "/tasks/"},
		{"GET", "/tasks/1"},
		{"PUT", "/tasks/1"},
		{"DELETE", "/tasks/1"},
	}

	for _, tc := range paths {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var resp *http.Response
			switch tc.method {
			case "GET":
				resp = api.server.GET(tc.path, "")
			case "POST":
				resp = api.server.POST(tc.path, map[string]any{"title": "x"}, "")
			case "PUT":
				resp = api.server.PUT(tc.path, map[string]any{"title": "x"}, "")
			case "DELETE":
				resp = api.server.DELETE(tc.path, "")
			}
			testutils.AssertErrorResponse(t, resp, http.StatusUnauthorized, "")
		})
	}
}

func TestTaskCollectionPathWithoutSlash(t *testing.T) {
	api := setupAPI(t)
	_, token := api.signupAndLogin(t, "alice", "a@x.com")

	resp := api.server.POST("/tasks", map[string]any{"title": "no slash"}, token)
	var created models.Task
	testutils.AssertJSONResponse(t, resp, http.StatusCreated, &created)

	var tasks []models.Task
	resp = api.server.GET("/tasks", token)
	testutils.AssertJSONResponse(t, resp, http.StatusOK, &tasks)
	require.Len(t, tasks, 1)
}

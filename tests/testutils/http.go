package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type TestServer struct {
	*httptest.Server
	t *testing.T
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	server := httptest.NewServer(handler)
	return &TestServer{
		Server: server,
		t:      t,
	}
}

// GET issues a GET request, attaching the bearer token when non-empty
func (ts *TestServer) GET(path, token string) *http.Response {
	return ts.do("GET", path, nil, token)
}

// POST issues a JSON POST request, attaching the bearer token when non-empty
func (ts *TestServer) POST(path string, body interface{}, token string) *http.Response {
	return ts.do("POST", path, body, token)
}

// POSTForm issues a form-encoded POST request, as the login endpoint expects
func (ts *TestServer) POSTForm(path string, values url.Values) *http.Response {
	req, err := http.NewRequest("POST", ts.URL+path, strings.NewReader(values.Encode()))
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	return resp
}

// PUT issues a JSON PUT request, attaching the bearer token when non-empty
func (ts *TestServer) PUT(path string, body interface{}, token string) *http.Response {
	return ts.do("PUT", path, body, token)
}

// DELETE issues a DELETE request, attaching the bearer token when non-empty
func (ts *TestServer) DELETE(path, token string) *http.Response {
	return ts.do("DELETE", path, nil, token)
}

func (ts *TestServer) do(method, path string, body interface{}, token string) *http.Response {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(ts.t, err)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.URL+path, bodyReader)
	require.NoError(ts.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	return resp
}

func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, target interface{}) {
	require.Equal(t, expectedStatus, resp.StatusCode)

	if target != nil {
		defer resp.Body.Close()
		err := json.NewDecoder(resp.Body).Decode(target)
		require.NoError(t, err)
	}
}

func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	require.Equal(t, expectedStatus, resp.StatusCode)

	defer resp.Body.Close()
	var errorResp map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	require.NoError(t, err)

	if expectedMessage != "" {
		require.Contains(t, errorResp["error"], expectedMessage)
	}
}

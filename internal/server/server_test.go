package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codexplain/internal/config"
	"codexplain/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(config.DefaultConfig()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postSource(t *testing.T, srv *httptest.Server, source string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/analyze", "text/plain", strings.NewReader(source))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAnalyzeEndpoint_RawBody(t *testing.T) {
	srv := newTestServer(t)

	resp := postSource(t, srv, "def noop():\n    pass\n")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var result models.AnalysisResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Bullets, 1)
	assert.Equal(t, "Define function `noop` with 0 parameter(s).", result.Bullets[0].Text)
	require.NotEmpty(t, result.Complexity)
	assert.Equal(t, models.ClassConstant, result.Complexity[0].Class)
}

func TestAnalyzeEndpoint_FormField(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{"code": {"x = 1\n"}}
	resp, err := http.Post(srv.URL+"/analyze",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.AnalysisResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Bullets, 1)
	assert.Equal(t, "Assign `1` into `x`.", result.Bullets[0].Text)
}

func TestAnalyzeEndpoint_SyntaxError(t *testing.T) {
	srv := newTestServer(t)

	resp := postSource(t, srv, "def broken(:\n    return 1\n")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Error string `json:"error"`
		Line  int    `json:"line"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.NotEmpty(t, payload.Error)
	assert.Equal(t, 1, payload.Line)
}

func TestAnalyzeEndpoint_EmptyBody(t *testing.T) {
	srv := newTestServer(t)

	resp := postSource(t, srv, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpoint_BodyOverLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analysis.MaxSourceBytes = 16
	srv := httptest.NewServer(New(cfg).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/analyze", "text/plain",
		strings.NewReader(strings.Repeat("x = 1\n", 100)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpoint_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/analyze")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "ok", payload["status"])
}

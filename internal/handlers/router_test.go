package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_Health(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `warbler_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRouter_NotFound(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "404")
}

func TestRouter_AnonymousHome(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sign up now")
}

func TestSetupRouter_Minimal(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := h.SetupRouter(nil, "", "")
	assert.NotNil(t, r)
}

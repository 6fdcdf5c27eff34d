package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildServer_Health(t *testing.T) {
	c := testCfg()
	c.Server.RateLimit = 10
	c.Server.RateBurst = 10

	srv, err := buildServer(c)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestBuildServer_MissingKeySurfacesPerRequest(t *testing.T) {
	c := testCfg()
	c.Server.RateLimit = 10
	c.Server.RateBurst = 10

	srv, err := buildServer(c)
	require.NoError(t, err)

	body := `{"census_data": [{"dob": "1980-01-01"}]}`
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "anthropic.key")
}

func TestBuildServer_BadReferenceDate(t *testing.T) {
	c := testCfg()
	c.Analysis.ReferenceDate = "yesterday"

	_, err := buildServer(c)
	assert.Error(t, err)
}

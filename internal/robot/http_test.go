package robot

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_RunAliquot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewServer().Router()

	req := httptest.NewRequest(http.MethodPost, "/run_aliquot", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string   `json:"status"`
		Log    []string `json:"log"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Log, LogLineLimit, "log is truncated to the first %d lines", LogLineLimit)
	assert.Contains(t, resp.Log[3], "Picking up tip")
}

func TestHTTP_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewServer().Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

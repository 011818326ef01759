package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receipt-service/internal/config"
)

func TestNewLoggerWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "service.log")
	logger, err := NewLogger(&config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: path,
	})
	require.NoError(t, err)

	NewJobLogger(logger, "RECEIPT", "job-1", "COM1:front").Success(42)
	require.NoError(t, CloseLogger(logger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "Job completed", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "job-1", entry["job_id"])
	assert.Equal(t, "COM1:front", entry["queue_id"])
	assert.EqualValues(t, 42, entry["bytes"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(&config.LoggingConfig{Level: "loud", Format: "json", Output: "stdout"})
	assert.Error(t, err)
}

func TestErrorResponseEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, "BAD_REQUEST"},
		{http.StatusNotFound, "NOT_FOUND"},
		{http.StatusConflict, "QUEUE_BUSY"},
		{http.StatusUnprocessableEntity, "RENDER_ERROR"},
		{http.StatusBadGateway, "PRINTER_WRITE_FAILED"},
		{http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set("request_id", "req-1")

			ErrorResponse(c, tt.status, "failed", errors.New("boom"))

			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, "req-1", resp.RequestID)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "boom", resp.Error.Details)
		})
	}
}

func TestSuccessResponseWithoutRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessResponse(c, http.StatusOK, "ok", gin.H{"status": "printed"})

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.RequestID)
	assert.Equal(t, map[string]interface{}{"status": "printed"}, resp.Data)
}

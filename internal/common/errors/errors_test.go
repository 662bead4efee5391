package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	errors []string
	warns  []string
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.warns = append(l.warns, msg)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeAuthenticationFailed, http.StatusUnauthorized},
		{ErrCodeEmailAlreadyRegistered, http.StatusConflict},
		{ErrCodeTaskNotFound, http.StatusNotFound},
		{ErrCodeAIGatewayFailed, http.StatusBadGateway},
		{ErrCodeInvalidAIOutput, http.StatusBadGateway},
		{ErrCodeAIGatewayTimeout, http.StatusGatewayTimeout},
		{ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestAsStandardError_Wrapped(t *testing.T) {
	base := NewSessionNotFoundError("chat_1")
	wrapped := fmt.Errorf("loading session: %w", base)

	got, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeSessionNotFound, got.Code)
	assert.True(t, IsCode(wrapped, ErrCodeSessionNotFound))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrCodeSessionNotFound))
}

func TestAIGatewayFailedError_UnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewAIGatewayFailedError("IdeaValidation", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Details, "IdeaValidation")
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeAIGatewayFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeInvalidAIOutput))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeDatabaseQueryFailed))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeEmailAlreadyRegistered))
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeTaskNotFound))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeChatMessageEmpty))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestErrorHandler_Respond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantErrLog bool
	}{
		{name: "standard error", err: NewTaskNotFoundError(7), wantStatus: http.StatusNotFound, wantCode: "TASK_NOT_FOUND"},
		{name: "plain error", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR", wantErrLog: true},
		{name: "gateway error", err: NewAIGatewayFailedError("Risks", fmt.Errorf("503")), wantStatus: http.StatusBadGateway, wantCode: "AI_GATEWAY_FAILED", wantErrLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			h := NewErrorHandler(log)

			r := gin.New()
			r.Use(h.Middleware())
			r.GET("/x", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotEmpty(t, body["error"])
			assert.Equal(t, tt.wantErrLog, len(log.errors) == 1)
		})
	}
}

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apierrors "fir-voice/internal/api/errors"
	apperrors "fir-voice/internal/app/errors"
	"fir-voice/internal/app/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(StructuredLogging(logger))
	router.Use(ErrorHandler(logger))
	router.Use(CORS(DefaultCORSConfig()))
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	router := newRouter(zap.NewNop())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", apperrors.Validation("No audio file provided"), http.StatusBadRequest, "No audio file provided"},
		{"processing", apperrors.Preprocess(apperrors.StepResample, nil, "bad rate"), http.StatusInternalServerError, "resample: bad rate"},
		{"api error", apierrors.NewServiceUnavailableError("down"), http.StatusServiceUnavailable, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(zap.NewNop())
			router.GET("/fail", func(c *gin.Context) {
				HandleError(c, tt.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			req.Header.Set(RequestIDHeader, "req-err")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, "req-err", body["request_id"])
		})
	}
}

func TestErrorHandler_Panics(t *testing.T) {
	logger, logs := testutil.ObservedLogger()
	router := newRouter(logger)
	router.GET("/panic-error", func(c *gin.Context) {
		panic(fmt.Errorf("kaboom"))
	})
	router.GET("/panic-value", func(c *gin.Context) {
		panic("kaboom")
	})

	for _, path := range []string{"/panic-error", "/panic-value"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, "Internal server error", decodeError(t, w)["error"], path)
	}

	assert.Equal(t, 1, logs.FilterMessage("Internal server error").Len())
	assert.Equal(t, 1, logs.FilterMessage("Unknown panic occurred").Len())
}

func TestStructuredLogging(t *testing.T) {
	logger, logs := testutil.ObservedLogger()
	router := newRouter(logger)
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/transcribe", func(c *gin.Context) {
		HandleError(c, apperrors.Validation("No audio file provided"))
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/transcribe", nil))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/transcribe", fields["path"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
	assert.Contains(t, fields["error"], "No audio file provided")
}

func TestCORS(t *testing.T) {
	router := newRouter(zap.NewNop())
	router.POST("/transcribe", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/transcribe", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")

	restricted := gin.New()
	restricted.Use(CORS(CORSConfig{AllowOrigins: []string{"https://app.example.com"}}))
	restricted.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	restricted.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

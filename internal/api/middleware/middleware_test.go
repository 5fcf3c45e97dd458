package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/unifiedui/price-chat/internal/api/dto"
	"github.com/unifiedui/price-chat/internal/api/middleware"
	domainerrors "github.com/unifiedui/price-chat/internal/domain/errors"
	"github.com/unifiedui/price-chat/tests/testutils"
)

func TestAuthenticate(t *testing.T) {
	router := testutils.SetupTestRouter()
	router.GET("/protected", middleware.NewAuthMiddleware("secret").Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		header   string
		expected int
	}{
		{name: "valid", header: "Bearer secret", expected: http.StatusOK},
		{name: "case insensitive scheme", header: "bearer secret", expected: http.StatusOK},
		{name: "missing", header: "", expected: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic secret", expected: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", expected: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := testutils.PerformRequest(router, http.MethodGet, "/protected", nil, headers)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestAuthenticate_DisabledWithoutKey(t *testing.T) {
	auth := middleware.NewAuthMiddleware("")
	assert.False(t, auth.Enabled())

	router := testutils.SetupTestRouter()
	router.GET("/open", auth.Authenticate(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := testutils.PerformRequest(router, http.MethodGet, "/open", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleError(t *testing.T) {
	router := testutils.SetupTestRouter()
	router.GET("/busy", func(c *gin.Context) {
		middleware.HandleError(c, domainerrors.NewConversationBusyError("conv-1", errors.New("busy")))
	})
	router.GET("/plain", func(c *gin.Context) {
		middleware.HandleError(c, errors.New("kaboom"))
	})

	w := testutils.PerformRequest(router, http.MethodGet, "/busy", nil, nil)
	testutils.AssertStatusCode(t, http.StatusConflict, w)
	var resp dto.ErrorResponse
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Equal(t, domainerrors.ErrCodeConversationBusy, resp.Code)
	assert.Equal(t, "conv-1", resp.Details)

	w = testutils.PerformRequest(router, http.MethodGet, "/plain", nil, nil)
	testutils.AssertStatusCode(t, http.StatusInternalServerError, w)
	testutils.ParseJSONResponse(t, w, &resp)
	assert.Equal(t, domainerrors.ErrCodeInternal, resp.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestRecovery(t *testing.T) {
	router := testutils.SetupTestRouter()
	router.Use(middleware.NewErrorMiddleware().Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("unexpected") })

	w := testutils.PerformRequest(router, http.MethodGet, "/panic", nil, nil)
	testutils.AssertStatusCode(t, http.StatusInternalServerError, w)
}

func TestLogger_RequestID(t *testing.T) {
	router := testutils.SetupTestRouter()
	router.Use(middleware.NewLoggingMiddleware().Logger())
	router.GET("/conversations/:conversationId", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	w := testutils.PerformRequest(router, http.MethodGet, "/conversations/conv-1", nil,
		map[string]string{middleware.RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))

	w = testutils.PerformRequest(router, http.MethodGet, "/conversations/conv-1", nil, nil)
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), w.Body.String())
}

func TestCORS(t *testing.T) {
	router := testutils.SetupTestRouter()
	router.Use(middleware.NewCORSMiddleware(middleware.DefaultCORSConfig().WithOrigins([]string{"https://precios.example"})))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := testutils.PerformRequest(router, http.MethodOptions, "/x", nil, map[string]string{"Origin": "https://precios.example"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://precios.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = testutils.PerformRequest(router, http.MethodGet, "/x", nil, map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

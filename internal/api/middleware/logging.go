package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// LoggingMiddleware handles request logging.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

// NewLoggingMiddleware creates a new LoggingMiddleware on the global logger.
func NewLoggingMiddleware() *LoggingMiddleware {
	return NewLoggingMiddlewareWithLogger(log.Logger)
}

// NewLoggingMiddlewareWithLogger creates a new LoggingMiddleware with a custom logger.
func NewLoggingMiddlewareWithLogger(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// Logger returns a gin middleware that assigns a request id, installs a
// request-scoped logger and logs the request when it completes.
func (m *LoggingMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		logCtx := m.logger.With().Str("request_id", requestID)
		if conversationID := c.Param("conversationId"); conversationID != "" {
			logCtx = logCtx.Str("conversation_id", conversationID)
		}
		requestLogger := logCtx.Logger()
		c.Set(loggerKey, requestLogger)

		c.Next()

		status := c.Writer.Status()
		event := requestLogger.Info()
		if status >= 400 && status < 500 {
			event = requestLogger.Warn()
		} else if status >= 500 {
			event = requestLogger.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("request completed")
	}
}

// GetRequestLogger retrieves the request-scoped logger from context.
func GetRequestLogger(c *gin.Context) zerolog.Logger {
	if logger, exists := c.Get(loggerKey); exists {
		if l, ok := logger.(zerolog.Logger); ok {
			return l
		}
	}
	return log.Logger
}

// GetRequestID retrieves the request ID from context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

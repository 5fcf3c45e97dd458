package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/unifiedui/price-chat/internal/domain/errors"
)

// AuthMiddleware guards the API with a static bearer key.
type AuthMiddleware struct {
	apiKey string
}

// NewAuthMiddleware creates a new AuthMiddleware. An empty key disables
// authentication.
func NewAuthMiddleware(apiKey string) *AuthMiddleware {
	return &AuthMiddleware{
		apiKey: apiKey,
	}
}

// Enabled reports whether requests are checked.
func (m *AuthMiddleware) Enabled() bool {
	return m.apiKey != ""
}

// Authenticate returns a gin middleware that validates the Bearer token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			HandleError(c, domainerrors.NewUnauthorizedError("missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			HandleError(c, domainerrors.NewUnauthorizedError("invalid authorization header format"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.apiKey)) != 1 {
			HandleError(c, domainerrors.NewUnauthorizedError("invalid token"))
			return
		}

		c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seifhassan89/full-stack-user-curd/internal/security"
	"github.com/seifhassan89/full-stack-user-curd/pkg/response"
)

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey = "user_id"
	// UserEmailKey is the context key for the authenticated user's email
	UserEmailKey = "user_email"
	// UserRoleKey is the context key for the authenticated user's role
	UserRoleKey = "user_role"
	// RefreshTokenKey is the context key for the raw refresh token
	RefreshTokenKey = "refresh_token"
)

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAccess verifies the access token and stores the caller's
// identity in the request context.
func RequireAccess(signer *security.TokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := signer.VerifyAccess(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRefresh verifies the refresh token signature and expiry and
// stores the subject plus the raw token for the rotation check.
func RequireRefresh(signer *security.TokenSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Missing or malformed authorization header")
			c.Abort()
			return
		}

		subject, err := signer.VerifyRefresh(token)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired refresh token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, subject)
		c.Set(RefreshTokenKey, token)
		c.Next()
	}
}

// RequireRole rejects callers whose token does not carry the given role.
// Must run after RequireAccess.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserRoleKey) != role {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetRefreshToken returns the raw refresh token from context
func GetRefreshToken(c *gin.Context) string {
	return c.GetString(RefreshTokenKey)
}

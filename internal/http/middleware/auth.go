package middleware

import (
	"net/http"
	"strings"

	"gameslibrary/internal/auth"
	"gameslibrary/internal/domain"
	"gameslibrary/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "userID"
	usernameKey = "username"
	userRoleKey = "userRole"
	// authRejectKey holds why a presented credential was ignored.
	authRejectKey = "authReject"
)

// TokenParser turns a bearer token into access claims.
type TokenParser interface {
	Parse(token string) (*auth.AccessClaims, error)
}

// Authenticate reads an optional bearer token. A missing or unusable token
// leaves the request anonymous; RequireAuth and RequireRoles refuse it later
// with the reason recorded here.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.Set(authRejectKey, "malformed authorization header")
			c.Next()
			return
		}

		claims, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			kind, _ := domain.TokenErrorKindOf(err)
			logger.From(c.Request.Context()).Info("access token ignored", logger.Kind(string(kind)), logger.Err(err))
			c.Set(authRejectKey, "invalid or expired token")
			c.Next()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAuth refuses anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(userIDKey); !ok {
			abortUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (domain.RequestContext, bool) {
	id, ok := c.Get(userIDKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	uid, _ := id.(int64)
	return domain.RequestContext{
		UserID:   domain.ID(uid),
		Username: c.GetString(usernameKey),
		Role:     c.GetString(userRoleKey),
	}, true
}

// abortUnauthenticated explains a 401 with the rejected credential, if any.
func abortUnauthenticated(c *gin.Context) {
	msg := "authentication required"
	if reason := c.GetString(authRejectKey); reason != "" {
		msg = reason
	}
	abortUnauthorized(c, msg)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}

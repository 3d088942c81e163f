package middleware

import (
	"errors"
	"net/http"
	"strings"

	"home-flavours/models"
	"home-flavours/services"

	"github.com/gin-gonic/gin"
	"github.com/romana/rlog"
)

const principalKey = "principal"

// AuthRequired validates the bearer token against its server-side session
// and injects the caller into context
func AuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return authenticate(auth, false)
}

// WebSocketAuthRequired is AuthRequired that also takes ?token=, since
// browsers cannot set headers on a websocket handshake. Mount it on the
// socket route only: query strings end up in access logs.
func WebSocketAuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return authenticate(auth, true)
}

func authenticate(auth *services.AuthService, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c, allowQuery)
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		p, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				rlog.Errorf("Authenticate: %v", err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set(principalKey, *p)
		c.Set("userID", p.UserID)
		c.Set("role", string(p.Role))
		c.Next()
	}
}

func bearerToken(c *gin.Context, allowQuery bool) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			c.Abort()
			return
		}
		callerRole := models.UserRole(roleVal.(string))
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// GetPrincipal returns the authenticated caller
func GetPrincipal(c *gin.Context) services.Principal {
	val, _ := c.Get(principalKey)
	return val.(services.Principal)
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) uint {
	val, _ := c.Get("userID")
	return val.(uint)
}

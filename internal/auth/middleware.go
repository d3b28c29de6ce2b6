package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"visio-hr/hr-portal-backend/internal/common"
)

const actorContextKey = "auth.actor"

// RequireAuth validates the bearer token and stores the acting principal in
// the request context.
func RequireAuth(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			common.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}

		actor, err := service.Authenticate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			common.RespondError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// RequireRoles rejects requests whose actor holds none of the given roles.
// Must run after RequireAuth.
func RequireRoles(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			common.RespondError(c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		common.RespondError(c, http.StatusForbidden, "insufficient role", nil)
		c.Abort()
	}
}

// ActorFromContext returns the principal stored by RequireAuth.
func ActorFromContext(c *gin.Context) (Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return Actor{}, false
	}
	actor, ok := value.(Actor)
	return actor, ok
}

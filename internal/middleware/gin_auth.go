package middleware

import (
	"net/http"

	"github.com/bogdanSgithub/autovitals-backend/internal/auth"
	"github.com/bogdanSgithub/autovitals-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

const identityGinKey = "identity"

// Require enforces rule before the rest of the chain runs. Denials answer 401
// and collaborator failures 500; in both cases the handler never executes.
func (g *Gate) Require(rule Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Evaluate(c, rule)
		if err != nil {
			if IsDenied(err) {
				logger.Info("request not authorized", map[string]any{
					"policy": rule.String(),
					"path":   c.FullPath(),
					"reason": err.Error(),
					"ip":     c.ClientIP(),
				})
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "unauthorized",
				})
				return
			}

			logger.Error("authorization lookup failed", map[string]any{
				"policy": rule.String(),
				"path":   c.FullPath(),
				"error":  err.Error(),
			})
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "authorization failed",
			})
			return
		}

		c.Set(identityGinKey, id)
		c.Request = c.Request.WithContext(withIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// Identity returns the caller attached by Require.
func Identity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityGinKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

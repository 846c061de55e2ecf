package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tasktracker/tasktracker-api/internal/constants"
	apierrors "github.com/tasktracker/tasktracker-api/internal/errors"
	"github.com/tasktracker/tasktracker-api/internal/identity"
	"github.com/tasktracker/tasktracker-api/internal/models"
)

// Activator switches the current identity.
type Activator interface {
	Activate(id string) (*models.Identity, error)
}

// RequireAuth checks the session for a signed-in identity and activates it on
// the provider. Activation is what triggers the data store reload when the
// request's identity differs from the one currently loaded.
func RequireAuth(provider Activator) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(constants.ContextKeyIdentityID)

		id, ok := raw.(string)
		if !ok || id == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if _, err := provider.Activate(id); err != nil {
			if errors.Is(err, identity.ErrIdentityNotFound) {
				apierrors.Unauthorized(c, "Session references an unknown account")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store the identity id in context for easy access in handlers
		c.Set(constants.ContextKeyIdentityID, id)
		c.Next()
	}
}

// GetIdentityID retrieves the current identity id from context
func GetIdentityID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(constants.ContextKeyIdentityID)
	if !exists {
		return "", false
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

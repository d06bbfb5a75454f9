package middleware

import (
	"errors"
	"strings"

	"usertodos/internal/adapter/http/helper"
	"usertodos/internal/core/domain"
	"usertodos/internal/core/port"
	ct "usertodos/pkg/context"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthGate resolves the bearer token into a domain.Identity or aborts with
// 401. Every rejection produces the same response.
func AuthGate(auth port.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.Authenticate(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))

		if errors.Is(err, domain.ErrUnauthorized) {
			helper.SendUnauthorizedError(c)
			return
		}

		if err != nil {
			helper.SendDomainError(c, err)
			return
		}

		current := GetCurrent(c)
		current.Set(ct.UserIDKey, identity.UserID)
		current.Set(ct.UsernameKey, identity.Username)

		c.Set(identityKey, identity)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")

	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// CurrentIdentity returns the identity stored by AuthGate.
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	value, ok := c.Get(identityKey)

	if !ok {
		return domain.Identity{}, false
	}

	identity, ok := value.(domain.Identity)

	return identity, ok
}

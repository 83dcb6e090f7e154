package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fantasy-book-hub/internal/auth"
)

const (
	// IdentityKey is the gin context key holding the verified auth.Identity.
	IdentityKey = "identity"
)

// Identify resolves the caller's identity from the Authorization header.
//
// A missing, malformed, or expired token is not an error here: the request
// proceeds anonymously and rejection is left to the per-route access checks.
func Identify(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.Next()
			return
		}

		identity, err := tokens.Parse(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// IdentityFrom extracts the verified identity, if any, from the gin context.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	val, ok := c.Get(IdentityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := val.(auth.Identity)
	return identity, ok
}

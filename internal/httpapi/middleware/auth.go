package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cyril-dot/billionBackend/internal/auth"
	"github.com/Cyril-dot/billionBackend/internal/common"
)

const (
	PartyIDKey = "party_id"
	RoleKey    = "party_role"
)

// AuthRequired validates the Bearer token and stores the party id and role in
// the request context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		partyID, role, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40102, "invalid token")
			c.Abort()
			return
		}
		c.Set(PartyIDKey, partyID)
		c.Set(RoleKey, role)
		c.Next()
	}
}

// RoleRequired rejects callers whose token carries a different role.
func RoleRequired(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != role {
			common.Fail(c, http.StatusForbidden, 40301, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PartyID returns the authenticated party id set by AuthRequired.
func PartyID(c *gin.Context) (string, bool) {
	id := c.GetString(PartyIDKey)
	return id, id != ""
}

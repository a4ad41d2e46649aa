package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Cyril-dot/billionBackend/internal/common"
)

const RequestIDHeader = "X-Request-ID"

// RequestID attaches a ULID to every request, reusing an inbound id if the
// caller supplied one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			if generated, err := common.NewULID(); err == nil {
				id = generated
			}
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

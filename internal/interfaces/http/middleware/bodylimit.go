package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pdv/backend/internal/interfaces/http/dto"
)

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the limit is refused up front; chunked bodies fail on read once they cross
// it, which binding surfaces as a validation error. A non-positive maxBytes
// disables the check.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	message := fmt.Sprintf("Request body exceeds the %d byte limit", maxBytes)

	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			AbortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, message)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

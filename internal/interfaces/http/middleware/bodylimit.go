package middleware

import (
	"net/http"

	"github.com/facture/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit caps the request body at maxBytes. Invoice payloads are small;
// anything outsized is either a client bug or a deliberately inflated
// logo_image data URL.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge,
					"Request body exceeds the configured limit"))
			return
		}
		// Chunked uploads carry no Content-Length; cap them while reading.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

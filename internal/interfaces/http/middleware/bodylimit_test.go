package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(maxBytes int64) *gin.Engine {
	r := gin.New()
	r.Use(BodyLimit(maxBytes))
	r.POST("/clients", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusCreated)
	})
	return r
}

func TestBodyLimit_RejectsOversizedDeclaredBody(t *testing.T) {
	r := bodyLimitRouter(64)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/clients", strings.NewReader(strings.Repeat("x", 256)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_REQUEST_TOO_LARGE")
}

func TestBodyLimit_PassesSmallBody(t *testing.T) {
	r := bodyLimitRouter(64)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/clients", strings.NewReader(`{"name":"Atlas"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBodyLimit_CapsChunkedReads(t *testing.T) {
	r := bodyLimitRouter(16)

	// No declared Content-Length: the limit must bite during the read.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/clients", strings.NewReader(strings.Repeat("y", 512)))
	req.ContentLength = -1
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServerError logs err with full detail and answers with a generic 500. The
// underlying error never reaches the response body.
func ServerError(c *gin.Context, message string, err error) {
	log := RequestLog(c)
	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

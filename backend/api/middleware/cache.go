package middleware

import (
	"github.com/gin-gonic/gin"
)

// Cache sets cache headers for the static frontend: the shell itself is
// revalidated, fingerprinted assets are cached for a week.
func Cache() func(c *gin.Context) {
	return func(c *gin.Context) {
		if c.Request.RequestURI == "/" {
			c.Header("Cache-Control", "no-cache")
		} else {
			c.Header("Cache-Control", "max-age=604800")
		}
		c.Next()
	}
}

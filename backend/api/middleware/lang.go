package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// LangMiddleware stores the preferred response language in the request
// context so response helpers can localize error messages.
func LangMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		} else {
			// First entry only; quality weights are ignored.
			lang = strings.Split(lang, ",")[0]
			if idx := strings.IndexAny(lang, ";-"); idx > 0 {
				lang = lang[:idx]
			}
		}
		c.Set("lang", lang)
		c.Next()
	}
}

// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swapkaro/swapkaro-backend/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := "en"

		// Handle values like "hi-IN,hi;q=0.9,en;q=0.8"
		if header := c.GetHeader("Accept-Language"); header != "" {
			first := strings.Split(header, ",")[0]
			lang = i18n.Normalize(strings.Split(first, ";")[0])
		}

		c.Set("lang", lang)
		c.Next()
	}
}

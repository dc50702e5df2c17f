package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows browser requests from the configured front-end origin
// and answers OPTIONS preflights. An empty or unparsable base URL falls back
// to "*" (dev/test convenience).
func CORSMiddleware(frontendBaseURL string) gin.HandlerFunc {
	origin := originOf(frontendBaseURL)
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// originOf reduces a base URL to its scheme://host origin, since browsers
// match Access-Control-Allow-Origin byte-wise against the Origin header,
// which never carries a path.
func originOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "*"
	}
	return u.Scheme + "://" + u.Host
}

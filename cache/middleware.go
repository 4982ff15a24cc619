package cache

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// NoStore disables response caching for every request it wraps: browsers,
// proxies and CDNs must refetch content on each read.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}

// NoStorePaths applies NoStore only to requests whose path starts with one of
// the given prefixes.
func NoStorePaths(prefixes ...string) gin.HandlerFunc {
	noStore := NoStore()
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				noStore(c)
				return
			}
		}
		c.Next()
	}
}

package middleware

import (
	"strconv"
	"time"

	"geekplay/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency labelled by the matched route
// template, so path parameters do not explode label cardinality.
func Metrics(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(service, c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

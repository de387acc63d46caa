package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) bool

// Health answers 200 when every check passes and 503 otherwise, listing
// each check's result by name.
func Health(checks map[string]Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{}
		status := http.StatusOK
		for name, check := range checks {
			ok := check(c.Request.Context())
			body[name] = ok
			if !ok {
				status = http.StatusServiceUnavailable
			}
		}
		if status == http.StatusOK {
			body["status"] = "ok"
		} else {
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}

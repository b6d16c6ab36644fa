package ctxmanage

import (
	"github.com/gin-gonic/gin"
)

type key int

// TraceIdKey is the context key under which the per-request trace id is stored.
const TraceIdKey key = 1

// GetTraceIdOfRequest returns the trace id set by the logger middleware,
// or "unknown" if the middleware did not run for this request.
func GetTraceIdOfRequest(c *gin.Context) string {
	ctx := c.Request.Context()
	traceId, ok := ctx.Value(TraceIdKey).(string)
	if !ok {
		return "unknown"
	}
	return traceId
}

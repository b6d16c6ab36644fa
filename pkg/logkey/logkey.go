package logkey

// Keys used for structured logging across the service.
const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"
)

package interfaces

// Logger is the structured logger every layer writes to. Fields may be nil.
//
//	logger.Info("Server created", map[string]interface{}{
//		"server_id": 42,
//		"tags":      3,
//	})
type Logger interface {
	// Debug is for troubleshooting detail such as cache hits
	Debug(msg string, fields map[string]interface{})

	Info(msg string, fields map[string]interface{})

	// Warn reports a degraded but handled condition, like a failed view count
	Warn(msg string, fields map[string]interface{})

	// Error reports a failure that reached the user or dropped work
	Error(msg string, fields map[string]interface{})
}

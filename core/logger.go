package core

// Logger is the application-wide logging interface.
// Implementations may inspect args for well-known types (e.g. a user) to
// enrich the log entry.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

package logger

import "sync"

var (
	globalLogger *SystemLogger
	globalOnce   sync.Once
)

// InitGlobalLogger initializes the global system logger
func InitGlobalLogger(config SystemLoggerConfig) {
	globalOnce.Do(func() {
		globalLogger = NewSystemLogger(config)
	})
}

// Get returns the global system logger, initializing a default one if needed
func Get() *SystemLogger {
	if globalLogger == nil {
		InitGlobalLogger(SystemLoggerConfig{
			MinLevel:    LevelInfo,
			Service:     "monetico",
			Version:     "1.0.0",
			Environment: "development",
		})
	}
	return globalLogger
}

// Debug logs a debug message using the global logger
func Debug(message string, ctx ...LogContext) {
	Get().Debug(message, ctx...)
}

// Info logs an info message using the global logger
func Info(message string, ctx ...LogContext) {
	Get().Info(message, ctx...)
}

// Warn logs a warning message using the global logger
func Warn(message string, ctx ...LogContext) {
	Get().Warn(message, ctx...)
}

// Error logs an error message using the global logger
func Error(message string, err error, ctx ...LogContext) {
	Get().Error(message, err, ctx...)
}

// Fatal logs a fatal message and exits using the global logger
func Fatal(message string, err error, ctx ...LogContext) {
	Get().Fatal(message, err, ctx...)
}

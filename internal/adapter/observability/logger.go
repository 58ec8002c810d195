// Package observability provides the structured logger used across the relay.
package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Logger provides leveled, structured logging with free-form fields.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]any)
	LogWarning(ctx context.Context, message string, fields map[string]any)
	LogError(ctx context.Context, message string, fields map[string]any)
}

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// ParseLevel maps a configuration string to a LogLevel. Unknown values
// fall back to info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarning
	case "error":
		return LogLevelError
	}
	return LogLevelInfo
}

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// ParseFormat maps a configuration string to a LogFormat. Unknown values
// fall back to human-readable output.
func ParseFormat(s string) LogFormat {
	if strings.ToLower(s) == "json" {
		return LogFormatJSON
	}
	return LogFormatHuman
}

// DefaultLogger writes structured logs via the standard log package.
type DefaultLogger struct {
	level  LogLevel
	format LogFormat
}

// NewDefaultLogger creates a logger with the specified level and format.
func NewDefaultLogger(level LogLevel, format LogFormat) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		format: format,
	}
}

// LogInfo logs an informational message with structured fields.
func (l *DefaultLogger) LogInfo(ctx context.Context, message string, fields map[string]any) {
	if l.level > LogLevelInfo {
		return
	}
	l.write("info", "[INFO]", message, fields)
}

// LogWarning logs a warning message with structured fields.
func (l *DefaultLogger) LogWarning(ctx context.Context, message string, fields map[string]any) {
	if l.level > LogLevelWarning {
		return
	}
	l.write("warn", "[WARN]", message, fields)
}

// LogError logs an error message with structured fields.
func (l *DefaultLogger) LogError(ctx context.Context, message string, fields map[string]any) {
	l.write("error", "[ERROR]", message, fields)
}

func (l *DefaultLogger) write(level, prefix, message string, fields map[string]any) {
	if l.format == LogFormatJSON {
		entry := make(map[string]any, len(fields)+2)
		for k, v := range fields {
			entry[k] = v
		}
		entry["level"] = level
		entry["message"] = message
		data, err := json.Marshal(entry)
		if err != nil {
			log.Printf("%s %s%s", prefix, message, formatFields(fields))
			return
		}
		log.Print(string(data))
		return
	}
	log.Printf("%s %s%s", prefix, message, formatFields(fields))
}

// formatFields renders fields as sorted key=value pairs for human output.
func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

// RedactToken shows only the last 4 characters of a credential with an
// explicit redaction marker, so startup logs never leak tokens.
func RedactToken(token string) string {
	if len(token) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", token[len(token)-4:])
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) LogInfo(context.Context, string, map[string]any)    {}
func (NopLogger) LogWarning(context.Context, string, map[string]any) {}
func (NopLogger) LogError(context.Context, string, map[string]any)   {}

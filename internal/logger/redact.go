package logger

import (
	"log/slog"
	"strings"
)

const redactedValue = "***REDACTED***"

var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"authorization",
	"link",
}

// redact masks any attribute whose key, or enclosing group, looks like a
// credential. The value kind is irrelevant: byte slices, Stringers and
// structs are masked the same as strings. Empty strings are kept so a
// missing value is still visible.
func redact(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
		return a
	}

	if isSensitive(a.Key) {
		return slog.String(a.Key, redactedValue)
	}
	for _, g := range groups {
		if isSensitive(g) {
			return slog.String(a.Key, redactedValue)
		}
	}

	return a
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(key, pattern) {
			return true
		}
	}
	return false
}

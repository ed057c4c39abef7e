package configuration

import (
	"os"
	"strings"
)

const (
	suggestDisable  = "MYCATALOG_SUGGEST_DISABLE"
	importSkipViews = "MYCATALOG_IMPORT_SKIP_VIEWS"
	logLevel        = "MYCATALOG_LOG_LEVEL"
)

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "y", "t", "1", "on", "yes", "true":
		return true
	}
	return false
}

// IsSuggestDisabled turns the "did you mean" scan into a no-op. Large
// catalogs on hot error paths may want this off.
func IsSuggestDisabled() bool {
	return isTruthy(os.Getenv(suggestDisable))
}

// IsImportSkipViews makes the importer ignore views and import base
// tables only.
func IsImportSkipViews() bool {
	return isTruthy(os.Getenv(importSkipViews))
}

// LogLevel returns the configured log level name, or empty for the
// default.
func LogLevel() string {
	return os.Getenv(logLevel)
}

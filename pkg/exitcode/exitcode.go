// Package exitcode provides standardized exit codes for brandkit
package exitcode

// Exit codes for the brandkit CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	ValidationError = 3
	FileSystemError = 4
	UsageError      = 5
	PartialFailure  = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case ValidationError:
		return "Validation error"
	case FileSystemError:
		return "File system error"
	case UsageError:
		return "Usage error"
	case PartialFailure:
		return "One or more collections failed"
	default:
		return "Unknown error"
	}
}

package models

// Log levels recorded in the audit sheet.
const (
	LogLevelInfo  = "INFO"
	LogLevelWarn  = "WARN"
	LogLevelError = "ERROR"
)

// LogEntry is an append-only audit record. Entries are never mutated or
// deleted.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Action    string `json:"action"`
	RequestNo string `json:"requestNo,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

package core

// error_messages.go maps technical errors to user-friendly messages
// with codes for support reference. Patterns are matched
// case-insensitively with strings.Contains; the first match wins, so
// specific patterns come before general ones.
//
// Code ranges:
//
//	FILE001-FILE099  file handling and parsing
//	SES001-SES099    session lifecycle
//	CFG001-CFG099    cleaning/export configuration
//	DB001-DB099      job history storage
//	RATE001          request throttling
//	ERR000           fallback
import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File handling
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File could not be read as CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a CSV file with a header row and data",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Select a CSV file to upload",
			Code:    "FILE004",
		},
	},

	// Sessions
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "This upload session has expired",
			Action:  "Upload your file again to start a new session",
			Code:    "SES001",
		},
	},

	// Configuration
	{
		pattern: "unknown column",
		msg: UserMessage{
			Message: "The selected email column does not exist in this file",
			Action:  "Pick one of the file's columns for email validation",
			Code:    "CFG001",
		},
	},
	{
		pattern: "unknown export target",
		msg: UserMessage{
			Message: "The selected export platform is not available",
			Action:  "Choose one of the listed export formats",
			Code:    "CFG002",
		},
	},
	{
		pattern: "unknown preset",
		msg: UserMessage{
			Message: "The selected cleaning preset does not exist",
			Action:  "Choose one of the listed presets",
			Code:    "CFG003",
		},
	},

	// Job history storage
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the job history database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "The job history database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},

	// Cancellation and throttling
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// MapError converts a technical error to a user-friendly message.
// Unrecognized errors fall back to a generic failed-to-process message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Message: "Unknown error", Code: "ERR000"}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return UserMessage{
		Message: "Failed to load or process the file",
		Action:  "Check the file and try again, or contact support",
		Code:    "ERR000",
	}
}

// MapErrorWithContext prefixes the mapped message with operation context.
func MapErrorWithContext(err error, operation string) UserMessage {
	msg := MapError(err)
	if operation != "" {
		msg.Message = fmt.Sprintf("%s: %s", operation, msg.Message)
	}
	return msg
}

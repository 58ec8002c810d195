package github

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error reports a failed GitHub API call: a transport failure (StatusCode 0)
// or a non-2xx response. It carries the upstream message and is fatal to the
// run; the relay never retries.
type Error struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("github: %s", e.Message)
	}
	return fmt.Sprintf("github: %s (status: %d)", e.Message, e.StatusCode)
}

// MapHTTPError converts a non-2xx GitHub response into a typed *Error,
// extracting the message from GitHub's standard error payload when present.
func MapHTTPError(statusCode int, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    parseErrorMessage(statusCode, body),
	}
}

// parseErrorMessage extracts a user-friendly message from GitHub's response.
func parseErrorMessage(statusCode int, body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		preview := string(body)
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		if preview == "" {
			return fmt.Sprintf("HTTP %d", statusCode)
		}
		return fmt.Sprintf("HTTP %d: %s", statusCode, preview)
	}

	if errResp.Message == "" {
		return fmt.Sprintf("HTTP %d", statusCode)
	}

	if len(errResp.Errors) > 0 {
		var details []string
		for _, e := range errResp.Errors {
			switch {
			case e.Message != "":
				details = append(details, e.Message)
			case e.Field != "":
				details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Code))
			}
		}
		if len(details) > 0 {
			return fmt.Sprintf("%s: %s", errResp.Message, strings.Join(details, "; "))
		}
	}

	return errResp.Message
}

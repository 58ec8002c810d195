package slack

import "fmt"

// Error reports a failed chat.postMessage call. Code is the Slack API error
// code (for example "channel_not_found") or the transport failure text.
type Error struct {
	Code string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("slack: post message failed: %s", e.Code)
}

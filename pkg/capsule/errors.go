package capsule

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrorKind tells apart the three ways a call can fail.
type ErrorKind int

const (
	// KindHTTP is a non-2xx response from the API.
	KindHTTP ErrorKind = iota + 1
	// KindNetwork means no response was received.
	KindNetwork
	// KindRequest means the request could not be built.
	KindRequest
)

// NetworkErrorMessage is reported for every request that never got a response.
const NetworkErrorMessage = "Network error: Unable to reach Capsule CRM API"

// Error is returned by every Client method. Its message is what ends up in
// the tool result.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

// errorKeys are the message fields of a Capsule error body, by priority.
// Each is read on its own so that one oddly typed key does not hide the rest.
var errorKeys = []string{"error_description", "error", "message"}

func httpError(status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP %d", status)
	if gjson.ValidBytes(body) {
		for _, key := range errorKeys {
			v := gjson.GetBytes(body, key)
			if v.Type == gjson.String && v.Str != "" {
				msg += ": " + v.Str
				break
			}
		}
	}
	return &Error{Kind: KindHTTP, Status: status, Message: msg}
}

func networkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: NetworkErrorMessage, Cause: cause}
}

func requestError(cause error) *Error {
	return &Error{Kind: KindRequest, Message: "Request error: " + cause.Error(), Cause: cause}
}

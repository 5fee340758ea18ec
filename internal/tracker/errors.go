package tracker

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a request failed.
type Kind int

const (
	// KindNetwork means no HTTP response was received.
	KindNetwork Kind = iota + 1
	// KindTimeout means the request deadline fired before the call settled.
	KindTimeout
	// KindHTTP4xx means the backend rejected the request.
	KindHTTP4xx
	// KindHTTP5xx means the backend failed while handling the request.
	KindHTTP5xx
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTP4xx:
		return "http_4xx"
	case KindHTTP5xx:
		return "http_5xx"
	default:
		return "unknown"
	}
}

// Error is the single failure type returned by the access layer. Values are
// built where the failure is detected and never modified afterwards.
type Error struct {
	// Message is human readable and safe to show to the user.
	Message string
	// StatusCode is the HTTP status, 408 for timeouts and 0 when no
	// response arrived.
	StatusCode int
	Kind       Kind
	// Code is the backend's machine-readable error code when it sent one.
	Code string
	// Cause is the underlying transport or decode error, if any.
	Cause error
}

// Error codes the client understands.
const (
	CodeBookHasSessions = "book_has_sessions"
)

// Fixed user-facing messages.
const (
	msgNetwork         = "cannot connect to server"
	msgCancelled       = "request cancelled"
	msgTimeout         = "request timed out"
	msgNotFound        = "resource not found"
	msgServerError     = "internal server error, please try again later"
	msgInvalidResponse = "invalid response from server"
	msgBookHasSessions = "this book has reading sessions; delete them first"
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Kind == kind
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsBookHasSessions reports whether err is the translated "book still has
// reading sessions" delete failure.
func IsBookHasSessions(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == CodeBookHasSessions
}

func networkError(cause error) *Error {
	return &Error{Message: msgNetwork, Kind: KindNetwork, Cause: cause}
}

func cancelledError(cause error) *Error {
	return &Error{Message: msgCancelled, Kind: KindNetwork, Cause: cause}
}

func timeoutError(cause error) *Error {
	return &Error{Message: msgTimeout, StatusCode: http.StatusRequestTimeout, Kind: KindTimeout, Cause: cause}
}

func statusError(status int, body errorBody) *Error {
	kind := KindHTTP4xx
	if status >= 500 {
		kind = KindHTTP5xx
	}

	msg := body.message()
	switch {
	case status == http.StatusInternalServerError:
		msg = msgServerError
	case status == http.StatusNotFound && msg == "":
		msg = msgNotFound
	case msg == "":
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &Error{Message: msg, StatusCode: status, Kind: kind, Code: body.Code}
}

func invalidResponseError(status int, cause error) *Error {
	return &Error{Message: msgInvalidResponse, StatusCode: status, Kind: KindHTTP5xx, Cause: cause}
}

// Package errors classifies request failures into a closed network-error taxonomy.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"
)

// ==========================
// 1. Error Types
// ==========================

// ErrorType is the closed set of failure kinds surfaced by the request layer.
type ErrorType string

const (
	ErrTypeTimeout ErrorType = "TIMEOUT"
	ErrTypeNetwork ErrorType = "NETWORK_ERROR"
	ErrTypeAbort   ErrorType = "ABORT"
	ErrTypeServer  ErrorType = "SERVER_ERROR"
	ErrTypeUnknown ErrorType = "UNKNOWN"
)

// ParseErrorType maps a configured name onto an ErrorType.
func ParseErrorType(s string) (ErrorType, error) {
	switch t := ErrorType(strings.ToUpper(strings.TrimSpace(s))); t {
	case ErrTypeTimeout, ErrTypeNetwork, ErrTypeAbort, ErrTypeServer, ErrTypeUnknown:
		return t, nil
	}
	return "", fmt.Errorf("unknown error type %q", s)
}

// ErrAIServiceUnavailable signals that the answer service is down, as opposed
// to a transient fault. Callers switch to keyword-only mode when they see it.
var ErrAIServiceUnavailable = stderrors.New("AI_SERVICE_UNAVAILABLE")

// NetworkError is a classified failure. It is never mutated after construction.
type NetworkError struct {
	Message    string    `json:"message"`
	Type       ErrorType `json:"type"`
	Retryable  bool      `json:"retryable"`
	StatusCode int       `json:"statusCode,omitempty"`
	Err        error     `json:"-"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("NetworkError[%s]: %s", e.Type, e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ==========================
// 2. Constructors
// ==========================

func newNetworkError(msg string, t ErrorType, retryable bool, status int, cause error) *NetworkError {
	return &NetworkError{
		Message:    msg,
		Type:       t,
		Retryable:  retryable,
		StatusCode: status,
		Err:        cause,
		Timestamp:  time.Now().UTC(),
	}
}

func NewTimeoutError(msg string) *NetworkError {
	return newNetworkError(msg, ErrTypeTimeout, true, 0, nil)
}

func NewNetworkError(msg string) *NetworkError {
	return newNetworkError(msg, ErrTypeNetwork, true, 0, nil)
}

func NewAbortError(msg string) *NetworkError {
	return newNetworkError(msg, ErrTypeAbort, false, 0, nil)
}

func NewServerError(msg string, status int) *NetworkError {
	return newNetworkError(msg, ErrTypeServer, true, status, nil)
}

func NewUnknownError(msg string) *NetworkError {
	return newNetworkError(msg, ErrTypeUnknown, false, 0, nil)
}

// NewStatusError classifies an HTTP status code returned by a remote endpoint.
func NewStatusError(status int, statusText string) *NetworkError {
	msg := fmt.Sprintf("HTTP %d: %s", status, statusText)
	switch {
	case status >= 500:
		return newNetworkError(msg, ErrTypeServer, true, status, nil)
	case status == 408 || status == 504:
		return newNetworkError(msg, ErrTypeTimeout, true, status, nil)
	default:
		return newNetworkError(msg, ErrTypeUnknown, false, status, nil)
	}
}

// FromContext converts a finished context into ABORT or TIMEOUT.
func FromContext(ctx context.Context, msg string) *NetworkError {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		e := NewTimeoutError(msg)
		e.Err = ctx.Err()
		return e
	}
	e := NewAbortError(msg)
	e.Err = ctx.Err()
	return e
}

// ==========================
// 3. Classification
// ==========================

// Classify maps any error onto a NetworkError. Rules are checked in order and
// the first match wins. An error that already is a NetworkError is returned as is.
func Classify(err error) *NetworkError {
	if err == nil {
		return nil
	}
	var ne *NetworkError
	if stderrors.As(err, &ne) {
		return ne
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "timeout") || isTimeout(err):
		return newNetworkError(orDefault(msg, "Request timed out"), ErrTypeTimeout, true, 0, err)
	case stderrors.Is(err, context.Canceled) || strings.Contains(lower, "abort"):
		return newNetworkError(orDefault(msg, "Request aborted"), ErrTypeAbort, false, 0, err)
	case containsAny(lower, "network", "fetch", "connection") || isNetwork(err):
		return newNetworkError(orDefault(msg, "Network error"), ErrTypeNetwork, true, 0, err)
	case containsAny(msg, "500", "502", "503"):
		return newNetworkError(msg, ErrTypeServer, true, 500, err)
	}
	return newNetworkError(orDefault(msg, "Unknown error"), ErrTypeUnknown, false, 0, err)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return stderrors.As(err, &nerr) && nerr.Timeout()
}

func isNetwork(err error) bool {
	var opErr *net.OpError
	if stderrors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return true
	}
	var nerr net.Error
	return stderrors.As(err, &nerr)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}

// IsAbort reports whether err is an intentional cancellation.
// Callers treat it as silent.
func IsAbort(err error) bool {
	if err == nil {
		return false
	}
	return Classify(err).Type == ErrTypeAbort
}

// IsAIUnavailable reports whether err carries the AI-service-down signal.
func IsAIUnavailable(err error) bool {
	return stderrors.Is(err, ErrAIServiceUnavailable)
}

// ==========================
// 4. User Messages
// ==========================

const (
	MsgTimeout = "Request timed out. Please check your connection and try again."
	MsgNetwork = "Network error. Please check your internet connection."
	MsgAbort   = "Request was cancelled."
	MsgServer  = "Server is experiencing issues. Please try again later."
	MsgDefault = "An unexpected error occurred. Please try again."

	MsgAIUnavailable = "AI service temporarily unavailable. Showing keyword search results."
)

// UserMessage converts an error into one of the fixed user-facing strings.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsAIUnavailable(err) {
		return MsgAIUnavailable
	}
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve.Message
	}
	switch Classify(err).Type {
	case ErrTypeTimeout:
		return MsgTimeout
	case ErrTypeNetwork:
		return MsgNetwork
	case ErrTypeAbort:
		return MsgAbort
	case ErrTypeServer:
		return MsgServer
	default:
		return MsgDefault
	}
}

// ==========================
// 5. Validation Errors
// ==========================

// ValidationError reports bad caller input. It never reaches the retry layer.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

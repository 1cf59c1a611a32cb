// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// StatusClientClosedRequest is returned when the caller cancelled the request.
const StatusClientClosedRequest = 499

// ErrorHandler turns adapter failures into HTTP error responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Type          string `json:"type"`
	Message       string `json:"message"`
	Retryable     bool   `json:"retryable"`
	AIUnavailable bool   `json:"aiUnavailable,omitempty"`
	Field         string `json:"field,omitempty"`
}

// Handle writes err to w. Aborted requests are logged at warn level only.
func (h *ErrorHandler) Handle(w http.ResponseWriter, operation string, err error) {
	status, detail := h.describe(err)

	fields := map[string]interface{}{
		"operation": operation,
		"status":    status,
		"type":      detail.Type,
		"error":     err.Error(),
	}
	switch {
	case status == StatusClientClosedRequest || status == http.StatusBadRequest:
		h.logger.Warn("Request not completed", fields)
	default:
		h.logger.Error("Request failed", fields)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: detail})
}

func (h *ErrorHandler) describe(err error) (int, ErrorDetail) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return http.StatusBadRequest, ErrorDetail{
			Type:    "VALIDATION_ERROR",
			Message: ve.Message,
			Field:   ve.Field,
		}
	}
	if IsAIUnavailable(err) {
		return http.StatusServiceUnavailable, ErrorDetail{
			Type:          "AI_SERVICE_UNAVAILABLE",
			Message:       MsgAIUnavailable,
			AIUnavailable: true,
		}
	}

	ne := Classify(err)
	detail := ErrorDetail{
		Type:      string(ne.Type),
		Message:   UserMessage(ne),
		Retryable: ne.Retryable,
	}
	switch ne.Type {
	case ErrTypeAbort:
		return StatusClientClosedRequest, detail
	case ErrTypeTimeout:
		return http.StatusGatewayTimeout, detail
	case ErrTypeNetwork, ErrTypeServer:
		return http.StatusBadGateway, detail
	default:
		return http.StatusInternalServerError, detail
	}
}

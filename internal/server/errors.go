package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/localrivet/hrdesk/internal/errortypes"
	"github.com/localrivet/hrdesk/internal/tools"
)

// ErrorResponse represents the structure of error responses sent by the API
type ErrorResponse struct {
	Status  string                 `json:"status"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Common error codes
const (
	// ErrorCodeInvalidRequest indicates the client sent an invalid request
	ErrorCodeInvalidRequest = "INVALID_REQUEST"

	// ErrorCodeInternalError indicates an internal server error
	ErrorCodeInternalError = "INTERNAL_ERROR"

	// ErrorCodeResourceNotFound indicates a requested resource was not found
	ErrorCodeResourceNotFound = "RESOURCE_NOT_FOUND"

	// ErrorCodeConflict indicates the request does not fit the current state of a record
	ErrorCodeConflict = "CONFLICT"
)

// writeErrorResponse writes a structured error response to the HTTP response writer
func writeErrorResponse(w http.ResponseWriter, status int, code, message string, err error) {
	errResp := ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}

		// Client errors are expected traffic
		if status >= http.StatusInternalServerError {
			logErr := errortypes.APIError(err, fmt.Sprintf("API Error (%s)", code)).
				WithField("status_code", status).
				WithField("error_code", code).
				WithField("client_message", message)
			errortypes.LogError(nil, logErr)
		} else {
			slog.Debug("API request rejected", "status_code", status, "error_code", code, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// HandleBadRequest handles 400 Bad Request errors
func HandleBadRequest(w http.ResponseWriter, message string, err error) {
	writeErrorResponse(w, http.StatusBadRequest, ErrorCodeInvalidRequest, message, err)
}

// HandleNotFound handles 404 Not Found errors
func HandleNotFound(w http.ResponseWriter, message string, err error) {
	writeErrorResponse(w, http.StatusNotFound, ErrorCodeResourceNotFound, message, err)
}

// HandleConflict handles 409 Conflict errors
func HandleConflict(w http.ResponseWriter, message string, err error) {
	writeErrorResponse(w, http.StatusConflict, ErrorCodeConflict, message, err)
}

// HandleInternalError handles 500 Internal Server Error errors
func HandleInternalError(w http.ResponseWriter, message string, err error) {
	writeErrorResponse(w, http.StatusInternalServerError, ErrorCodeInternalError, message, err)
}

// ErrorWithStatus creates an error with an HTTP status code
type ErrorWithStatus struct {
	err        error
	statusCode int
	errorCode  string
	message    string
}

// NewErrorWithStatus creates a new error with HTTP status code
func NewErrorWithStatus(err error, status int, code, message string) *ErrorWithStatus {
	return &ErrorWithStatus{
		err:        err,
		statusCode: status,
		errorCode:  code,
		message:    message,
	}
}

// Error returns the error message
func (e *ErrorWithStatus) Error() string {
	if e.message != "" {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.err.Error()
}

// Unwrap returns the underlying error
func (e *ErrorWithStatus) Unwrap() error {
	return e.err
}

// StatusCode returns the HTTP status code
func (e *ErrorWithStatus) StatusCode() int {
	return e.statusCode
}

// ErrorCode returns the application error code
func (e *ErrorWithStatus) ErrorCode() string {
	return e.errorCode
}

// Message returns the client-friendly message
func (e *ErrorWithStatus) Message() string {
	return e.message
}

// HandleError handles any error, inspecting its type to determine the
// appropriate HTTP response. Errors from the HR packages are classified with
// errortypes.FromDomain and answered with their client message.
func HandleError(w http.ResponseWriter, err error) {
	if err == nil {
		HandleInternalError(w, "An unexpected error occurred", nil)
		return
	}
	if se, ok := err.(*ErrorWithStatus); ok {
		writeErrorResponse(w, se.StatusCode(), se.ErrorCode(), se.Message(), se.Unwrap())
		return
	}

	appErr := errortypes.FromDomain(err, "")
	switch appErr.Type {
	case errortypes.ErrorTypeValidation:
		HandleBadRequest(w, clientMessage(appErr, "Invalid request parameters"), err)
	case errortypes.ErrorTypeNotFound:
		HandleNotFound(w, clientMessage(appErr, "Resource not found"), err)
	case errortypes.ErrorTypeConflict:
		HandleConflict(w, clientMessage(appErr, "Request conflicts with current state"), err)
	default:
		HandleInternalError(w, "An unexpected error occurred", err)
	}
}

// clientMessage prefers the HR message of the wrapped error and falls back
// to the AppError message, then to def.
func clientMessage(appErr *errortypes.AppError, def string) string {
	if msg := tools.Message(appErr.Err); msg != appErr.Err.Error() {
		return msg
	}
	if appErr.Message != "" {
		return appErr.Message
	}
	return def
}

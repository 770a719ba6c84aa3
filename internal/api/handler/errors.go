package handler

import (
	"net/http"

	"github.com/ftpong/pong-server/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeAlreadyQueued    = apierr.CodeAlreadyQueued
	CodeAlreadyInSession = apierr.CodeAlreadyInSession
	CodeQueueFull        = apierr.CodeQueueFull
	CodeNotQueued        = apierr.CodeNotQueued
	CodeSessionNotFound  = apierr.CodeSessionNotFound
	CodeSessionFinished  = apierr.CodeSessionFinished
	CodeNotParticipant   = apierr.CodeNotParticipant
	CodeNotConnected     = apierr.CodeNotConnected
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}

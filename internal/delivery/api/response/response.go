// Package response writes the JSON bodies of the public API.
package response

import (
	"net/http"

	domainerrors "authgate/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// MessageResponse is the body of a successful call.
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// ErrorResponse is the body of every failed call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the body of the health check.
type StatusResponse struct {
	Status string `json:"status"`
}

// Message returns a successful response carrying a message
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageResponse{Message: message})
}

// Redirect returns a successful response carrying a message and a redirect target
func Redirect(c echo.Context, message, target string) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: message, Redirect: target})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorResponse{Error: message})
}

// InternalServerError returns the generic 500 error. The cause is never sent to the client.
func InternalServerError(c echo.Context) error {
	return Error(c, http.StatusInternalServerError, domainerrors.MsgUnexpectedError)
}

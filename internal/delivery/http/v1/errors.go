package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tasktrack/internal/services"
	"tasktrack/internal/timecalc"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errInvalidTaskID           = errors.New("invalid task id")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

// abortServiceError maps the service sentinels onto HTTP statuses:
// bad credentials and session failures read as 401, foreign tasks as
// 403, missing tasks as 404, rejected input as 400, taken usernames
// as 409. Anything unrecognized stays an opaque 500.
func abortServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrUserPasswordMismatch),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSessionExpired):
		abort(c, newUnauthorizedError(err.Error()))
	case errors.Is(err, services.ErrUserAlreadyExists):
		abort(c, newConflictError(err.Error()))
	case errors.Is(err, services.ErrTaskForbidden):
		abort(c, newAPIError(http.StatusForbidden, err.Error()))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newAPIError(http.StatusNotFound, err.Error()))
	case errors.Is(err, services.ErrTaskValidation),
		errors.Is(err, timecalc.ErrInvalidTimestamp):
		abort(c, newBadRequestError(err.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

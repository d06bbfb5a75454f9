package helper

import (
	"errors"
	"net/http"

	"usertodos/internal/core/domain"
	"usertodos/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

const (
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidData         = "INVALID_DATA"
	CodeUsernameDuplication = "USERNAME_DUPLICATION"
	CodeEmailDuplication    = "EMAIL_DUPLICATION"
	CodeTodoDuplication     = "TODO_DUPLICATION"
	CodeDuplication         = "DUPLICATION"
	CodeTodoNotFound        = "TODO_NOT_FOUND"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"

	MessageUnauthorized       = "Could not validate credentials"
	MessageInvalidCredentials = "Username or password is invalid"
	MessageInvalidData        = "Invalid data"
	MessageInternal           = "Something went wrong"
)

type mapping struct {
	target   error
	status   int
	code     string
	fallback string
}

// checked in order; specific duplicates precede the generic one.
var errorMappings = []mapping{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, MessageInvalidCredentials},
	{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, MessageUnauthorized},
	{domain.ErrInvalidInput, http.StatusBadRequest, CodeInvalidData, MessageInvalidData},
	{domain.ErrDuplicateUsername, http.StatusConflict, CodeUsernameDuplication, "Username already exists"},
	{domain.ErrDuplicateEmail, http.StatusConflict, CodeEmailDuplication, "Email already exists"},
	{domain.ErrDuplicateTodo, http.StatusConflict, CodeTodoDuplication, "Todo already exists"},
	{domain.ErrDuplicateEntity, http.StatusConflict, CodeDuplication, "Resource already exists"},
	{domain.ErrTodoNotFound, http.StatusNotFound, CodeTodoNotFound, "Todo not found"},
}

func SendError(c *gin.Context, statusCode int, code string, message string, errs ...response.ValidationError) {
	if statusCode == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	c.AbortWithStatusJSON(statusCode, response.ErrorResponse{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Errors:     errs,
	})
}

func SendValidationError(c *gin.Context, errs []response.ValidationError) {
	SendError(c, http.StatusBadRequest, CodeInvalidData, MessageInvalidData, errs...)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	SendValidationError(c, []response.ValidationError{{Field: field, Message: message}})
}

func SendUnauthorizedError(c *gin.Context) {
	SendError(c, http.StatusUnauthorized, CodeUnauthorized, MessageUnauthorized)
}

func SendInternalError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, CodeInternalServerError, MessageInternal)
}

// SendDomainError answers with the status and code registered for err. Errors
// without a mapping are attached to the gin context for the request logger
// and answered with the generic 500 body.
func SendDomainError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		message, ok := domain.PublicMessage(err)

		if !ok || m.status == http.StatusUnauthorized {
			message = m.fallback
		}

		SendError(c, m.status, m.code, message)
		return
	}

	_ = c.Error(err)
	SendInternalError(c)
}

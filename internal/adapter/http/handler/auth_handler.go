package handler

import (
	"net/http"

	. "usertodos/internal/adapter/http/helper"
	"usertodos/internal/core/model/request"
	"usertodos/internal/core/model/response"
	"usertodos/internal/core/port"
	. "usertodos/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type AuthHandler struct {
	svc       port.AuthService
	validator port.Validator
}

func NewAuthHandler(svc port.AuthService, validator port.Validator) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		validator: validator,
	}
}

// Login accepts a JSON or form encoded username/password pair.
func (a *AuthHandler) Login(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.auth.Login", []attribute.KeyValue{
		attribute.String("handler.operation", "Login"),
	})
	defer span.End()

	params, err := Bind[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := a.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, a.validator.FormatValidationErrors(err))
		return
	}

	token, err := a.svc.Login(ctx, &params)

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	AddHTTPStatus(span, http.StatusOK)

	c.JSON(http.StatusOK, response.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (a *AuthHandler) CreateUser(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.auth.CreateUser", []attribute.KeyValue{
		attribute.String("handler.operation", "CreateUser"),
	})
	defer span.End()

	params, err := BindJSON[request.CreateUserRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := a.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, a.validator.FormatValidationErrors(err))
		return
	}

	user, err := a.svc.Register(ctx, &params)

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	AddHTTPStatus(span, http.StatusCreated)

	c.Status(http.StatusCreated)
}

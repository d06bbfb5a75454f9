package handler

import (
	"net/http"

	. "usertodos/internal/adapter/http/helper"
	"usertodos/internal/adapter/http/middleware"
	"usertodos/internal/core/model/request"
	"usertodos/internal/core/model/response"
	"usertodos/internal/core/port"
	. "usertodos/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TodoHandler serves the caller's own todos. The owner id always comes from
// the identity resolved by middleware.AuthGate, never from the request.
type TodoHandler struct {
	svc       port.TodoService
	validator port.Validator
}

func NewTodoHandler(svc port.TodoService, validator port.Validator) *TodoHandler {
	return &TodoHandler{
		svc:       svc,
		validator: validator,
	}
}

// startSpan replaces the request context so the service spans nest under it.
func (t *TodoHandler) startSpan(c *gin.Context, operation string, userID int) trace.Span {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
		attribute.Int("user.id", userID),
	})

	c.Request = c.Request.WithContext(ctx)

	return span
}

func (t *TodoHandler) List(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)

	if !ok {
		SendUnauthorizedError(c)
		return
	}

	span := t.startSpan(c, "List", identity.UserID)
	defer span.End()

	var query request.ListTodosQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		SendBadRequestError(c, "query", "offset and limit must be integers")
		return
	}

	if err := t.validator.ValidateStruct(query); err != nil {
		SendValidationError(c, t.validator.FormatValidationErrors(err))
		return
	}

	span.SetAttributes(
		attribute.Int("pagination.offset", query.Offset),
		attribute.Int("pagination.limit", query.Limit),
	)

	todos, err := t.svc.List(c.Request.Context(), identity.UserID, query.Offset, query.Limit)

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	AddHTTPStatus(span, http.StatusOK)

	c.JSON(http.StatusOK, response.NewTodoListResponse(todos))
}

func (t *TodoHandler) Get(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)

	if !ok {
		SendUnauthorizedError(c)
		return
	}

	span := t.startSpan(c, "Get", identity.UserID)
	defer span.End()

	path, ok := t.bindPath(c)

	if !ok {
		return
	}

	todo, err := t.svc.Get(c.Request.Context(), identity.UserID, path.ID)

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	AddHTTPStatus(span, http.StatusOK)

	c.JSON(http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) Create(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)

	if !ok {
		SendUnauthorizedError(c)
		return
	}

	span := t.startSpan(c, "Create", identity.UserID)
	defer span.End()

	params, err := BindJSON[request.CreateTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := t.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, t.validator.FormatValidationErrors(err))
		return
	}

	todo, err := t.svc.Create(c.Request.Context(), identity.UserID, params.Label)

	if err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("todo.id", todo.ID))
	AddHTTPStatus(span, http.StatusCreated)

	c.JSON(http.StatusCreated, response.NewTodoCreatedResponse(todo))
}

func (t *TodoHandler) Update(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)

	if !ok {
		SendUnauthorizedError(c)
		return
	}

	span := t.startSpan(c, "Update", identity.UserID)
	defer span.End()

	params, err := BindJSON[request.UpdateTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := t.validator.ValidateStruct(params); err != nil {
		SendValidationError(c, t.validator.FormatValidationErrors(err))
		return
	}

	span.SetAttributes(attribute.Int("todo.id", params.ID))

	if err := t.svc.Update(c.Request.Context(), identity.UserID, params.ID, params.Label); err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	AddHTTPStatus(span, http.StatusNoContent)

	c.Status(http.StatusNoContent)
}

func (t *TodoHandler) Delete(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)

	if !ok {
		SendUnauthorizedError(c)
		return
	}

	span := t.startSpan(c, "Delete", identity.UserID)
	defer span.End()

	path, ok := t.bindPath(c)

	if !ok {
		return
	}

	if err := t.svc.Delete(c.Request.Context(), identity.UserID, path.ID); err != nil {
		AddSpanError(span, err)
		SendDomainError(c, err)
		return
	}

	AddHTTPStatus(span, http.StatusNoContent)

	c.Status(http.StatusNoContent)
}

func (t *TodoHandler) bindPath(c *gin.Context) (request.TodoPath, bool) {
	var path request.TodoPath

	if err := c.ShouldBindUri(&path); err != nil {
		SendBadRequestError(c, "id", "id must be an integer")
		return path, false
	}

	if err := t.validator.ValidateStruct(path); err != nil {
		SendValidationError(c, t.validator.FormatValidationErrors(err))
		return path, false
	}

	return path, true
}

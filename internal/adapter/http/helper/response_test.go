package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"usertodos/internal/core/domain"
	"usertodos/internal/core/model/response"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func send(err error) (*httptest.ResponseRecorder, response.ErrorResponse, *gin.Context) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendDomainError(c, err)

	var body response.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)

	return w, body, c
}

func TestSendDomainErrorMapping(t *testing.T) {
	RegisterTestingT(t)

	cases := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, MessageUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, MessageInvalidCredentials},
		{domain.NewError(domain.ErrTodoNotFound, "Todo [%d] not found", 5), http.StatusNotFound, CodeTodoNotFound, "Todo [5] not found"},
		{domain.NewError(domain.ErrDuplicateTodo, "Todo [%s] already exists", "buy milk"), http.StatusConflict, CodeTodoDuplication, "Todo [buy milk] already exists"},
		{domain.NewError(domain.ErrDuplicateUsername, "Username [%s] already exists", "alice"), http.StatusConflict, CodeUsernameDuplication, "Username [alice] already exists"},
		{domain.ErrDuplicateEmail, http.StatusConflict, CodeEmailDuplication, "Email already exists"},
		{fmt.Errorf("wrapped: %w", domain.ErrInvalidInput), http.StatusBadRequest, CodeInvalidData, MessageInvalidData},
		{fmt.Errorf("create user: %w", domain.ErrDuplicateEntity), http.StatusConflict, CodeDuplication, "Resource already exists"},
		{domain.NewError(domain.ErrInvalidInput, "Password must be at most %d bytes long", 72), http.StatusBadRequest, CodeInvalidData, "Password must be at most 72 bytes long"},
	}

	for _, tc := range cases {
		w, body, _ := send(tc.err)

		Expect(w.Code).To(Equal(tc.status), tc.err.Error())
		Expect(body.Code).To(Equal(tc.code))
		Expect(body.Message).To(Equal(tc.message))
		Expect(body.StatusCode).To(Equal(tc.status))
	}
}

func TestUnauthorizedCarriesChallenge(t *testing.T) {
	RegisterTestingT(t)

	w, _, _ := send(domain.ErrUnauthorized)

	Expect(w.Header().Get("WWW-Authenticate")).To(Equal("Bearer"))
}

func TestUnknownErrorIsGenericInternal(t *testing.T) {
	RegisterTestingT(t)

	w, body, c := send(errors.New("pq: connection refused at 10.0.0.3"))

	Expect(w.Code).To(Equal(http.StatusInternalServerError))
	Expect(body.Code).To(Equal(CodeInternalServerError))
	Expect(body.Message).To(Equal(MessageInternal))
	Expect(w.Body.String()).NotTo(ContainSubstring("10.0.0.3"))
	Expect(c.Errors).To(HaveLen(1))
}

func TestCorruptHashIsInternal(t *testing.T) {
	RegisterTestingT(t)

	w, _, _ := send(fmt.Errorf("login user 1: %w", domain.ErrCorruptHash))

	Expect(w.Code).To(Equal(http.StatusInternalServerError))
}

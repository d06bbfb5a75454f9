package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"usertodos/internal/adapter/database/memory"
	"usertodos/internal/adapter/database/sqlite"
	"usertodos/internal/adapter/database/sqlite/repository"
	"usertodos/internal/adapter/http/handler"
	"usertodos/internal/adapter/http/routes"
	"usertodos/internal/adapter/http/validation"
	"usertodos/internal/core/model/response"
	"usertodos/internal/core/port"
	"usertodos/internal/core/service"
	"usertodos/internal/core/telemetry"
	. "usertodos/pkg/test"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

type testApp struct {
	DB       *sqlite.DB
	Router   *gin.Engine
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository
}

func newTestApp() *testApp {
	gin.SetMode(gin.TestMode)

	db := InitTestDB()
	probe := telemetry.NewNoOpProbe()

	userRepo := repository.NewUserRepository(db, probe)
	todoRepo := repository.NewTodoRepository(db, probe)

	validator, err := validation.New()
	Expect(err).To(BeNil())

	authSvc := service.NewAuthService(userRepo, NewTestHasher(), NewTestIssuer(),
		service.WithIdentityCache(memory.NewMemoryRepository(time.Minute), time.Minute),
	)
	todoSvc := service.NewTodoService(todoRepo, probe)

	router := routes.SetupRouter(routes.HandlersConfig{
		AuthHandler: handler.NewAuthHandler(authSvc, validator),
		TodoHandler: handler.NewTodoHandler(todoSvc, validator),
		AuthService: authSvc,
	}, routes.RouterConfig{})

	return &testApp{
		DB:       db,
		Router:   router,
		UserRepo: userRepo,
		TodoRepo: todoRepo,
	}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		Expect(err).To(BeNil())
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	return rr
}

func (a *testApp) register(username, password string) {
	rr := a.do(http.MethodPost, "/auth/users", "", map[string]any{
		"first_name": "Test",
		"last_name":  username,
		"email":      username + "@example.com",
		"birthdate":  "1990-01-01",
		"username":   username,
		"password":   password,
	})

	Expect(rr.Code).To(Equal(http.StatusCreated), rr.Body.String())
}

func (a *testApp) login(username, password string) string {
	rr := a.do(http.MethodPost, "/auth/login", "", map[string]any{
		"username": username,
		"password": password,
	})

	Expect(rr.Code).To(Equal(http.StatusOK), rr.Body.String())

	var token response.TokenResponse
	Expect(json.Unmarshal(rr.Body.Bytes(), &token)).To(Succeed())

	return token.AccessToken
}

func decodeError(rr *httptest.ResponseRecorder) response.ErrorResponse {
	var body response.ErrorResponse
	Expect(json.Unmarshal(rr.Body.Bytes(), &body)).To(Succeed())

	return body
}

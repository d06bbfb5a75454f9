package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"usertodos/internal/adapter/database/postgres"
	"usertodos/internal/adapter/database/postgres/repository"
	"usertodos/internal/core/domain"
	"usertodos/internal/core/port"
	"usertodos/pkg/test/factory"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type PostgresRepositoryTestSuite struct {
	suite.Suite
	DB       *postgres.DB
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository
	Alice    domain.User
	Bob      domain.User
}

func TestPostgresRepositoryTestSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	RegisterTestingT(t)
	suite.Run(t, new(PostgresRepositoryTestSuite))
}

func (s *PostgresRepositoryTestSuite) SetupTest() {
	db, err := postgres.Open(context.Background(), os.Getenv("TEST_DATABASE_URL"))
	s.Require().NoError(err)

	_, err = db.Exec(context.Background(), "TRUNCATE todos, users RESTART IDENTITY CASCADE")
	s.Require().NoError(err)

	s.DB = db
	s.UserRepo = repository.NewUserRepository(db, nil)
	s.TodoRepo = repository.NewTodoRepository(db, nil)

	s.Alice, err = s.UserRepo.Create(context.Background(), factory.NewUser(map[string]any{"Username": "alice"}))
	s.Require().NoError(err)

	s.Bob, err = s.UserRepo.Create(context.Background(), factory.NewUser(map[string]any{"Username": "bob"}))
	s.Require().NoError(err)
}

func (s *PostgresRepositoryTestSuite) TearDownTest() {
	s.DB.Close()
}

func (s *PostgresRepositoryTestSuite) TestDuplicateUsername() {
	_, err := s.UserRepo.Create(context.Background(), factory.NewUser(map[string]any{"Username": "alice"}))

	Expect(errors.Is(err, domain.ErrDuplicateUsername)).To(BeTrue())
}

func (s *PostgresRepositoryTestSuite) TestDuplicateEmail() {
	_, err := s.UserRepo.Create(context.Background(), factory.NewUser(map[string]any{"Email": s.Alice.Email}))

	Expect(errors.Is(err, domain.ErrDuplicateEmail)).To(BeTrue())
}

func (s *PostgresRepositoryTestSuite) TestTodoScoping() {
	todo, err := s.TodoRepo.Create(context.Background(), domain.Todo{Label: "buy milk", UserID: s.Alice.ID})
	Expect(err).To(BeNil())

	_, err = s.TodoRepo.GetByOwner(context.Background(), s.Bob.ID, todo.ID)
	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())

	err = s.TodoRepo.UpdateLabel(context.Background(), s.Bob.ID, todo.ID, "stolen")
	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())

	err = s.TodoRepo.DeleteByOwner(context.Background(), s.Bob.ID, todo.ID)
	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())

	found, err := s.TodoRepo.GetByOwner(context.Background(), s.Alice.ID, todo.ID)
	Expect(err).To(BeNil())
	Expect(found.Label).To(Equal("buy milk"))
}

func (s *PostgresRepositoryTestSuite) TestDuplicateTodoPerOwner() {
	_, err := s.TodoRepo.Create(context.Background(), domain.Todo{Label: "same", UserID: s.Alice.ID})
	Expect(err).To(BeNil())

	_, err = s.TodoRepo.Create(context.Background(), domain.Todo{Label: "same", UserID: s.Alice.ID})
	Expect(errors.Is(err, domain.ErrDuplicateTodo)).To(BeTrue())

	_, err = s.TodoRepo.Create(context.Background(), domain.Todo{Label: "same", UserID: s.Bob.ID})
	Expect(err).To(BeNil())
}

func (s *PostgresRepositoryTestSuite) TestListByOwner() {
	for _, label := range []string{"a", "b", "c"} {
		_, err := s.TodoRepo.Create(context.Background(), domain.Todo{Label: label, UserID: s.Alice.ID})
		Expect(err).To(BeNil())
	}

	todos, err := s.TodoRepo.ListByOwner(context.Background(), s.Alice.ID, 1, 10)
	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(2))
	Expect(todos[0].Label).To(Equal("b"))

	empty, err := s.TodoRepo.ListByOwner(context.Background(), s.Bob.ID, 0, 10)
	Expect(err).To(BeNil())
	Expect(empty).To(BeEmpty())
}

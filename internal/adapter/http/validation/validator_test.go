package validation

import (
	"strings"
	"testing"

	"usertodos/internal/core/model/request"

	. "github.com/onsi/gomega"
)

func TestValidatorReportsWireFieldNames(t *testing.T) {
	RegisterTestingT(t)

	v, err := New()
	Expect(err).To(BeNil())

	err = v.ValidateStruct(request.CreateUserRequest{
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "not-an-email",
		Birthdate: "01/02/1990",
		Username:  "al",
		Password:  "pw123",
	})
	Expect(err).NotTo(BeNil())

	fields := map[string]string{}

	for _, e := range v.FormatValidationErrors(err) {
		fields[e.Field] = e.Message
	}

	Expect(fields).To(HaveKey("email"))
	Expect(fields).To(HaveKey("username"))
	Expect(fields["birthdate"]).To(Equal("birthdate must be a date in the YYYY-MM-DD format"))
	Expect(fields).NotTo(HaveKey("password"))
}

func TestValidatorBoundsPasswordInBytes(t *testing.T) {
	RegisterTestingT(t)

	v, err := New()
	Expect(err).To(BeNil())

	req := request.CreateUserRequest{
		FirstName: "Alice",
		LastName:  "Liddell",
		Email:     "alice@example.com",
		Birthdate: "1990-02-01",
		Username:  "alice",
		Password:  strings.Repeat("a", 72),
	}
	Expect(v.ValidateStruct(req)).To(BeNil())

	// 36 runes but 72 bytes still fits
	req.Password = strings.Repeat("é", 36)
	Expect(v.ValidateStruct(req)).To(BeNil())

	req.Password = strings.Repeat("é", 37)
	err = v.ValidateStruct(req)
	Expect(err).NotTo(BeNil())

	errs := v.FormatValidationErrors(err)
	Expect(errs).To(HaveLen(1))
	Expect(errs[0].Field).To(Equal("password"))
	Expect(errs[0].Message).To(Equal("password must be at most 72 bytes long"))
}

func TestValidatorAcceptsValidRequest(t *testing.T) {
	RegisterTestingT(t)

	v, err := New()
	Expect(err).To(BeNil())

	Expect(v.ValidateStruct(request.UpdateTodoRequest{ID: 1, Label: "buy milk"})).To(BeNil())
	Expect(v.ValidateStruct(request.ListTodosQuery{Offset: 0, Limit: 100})).To(BeNil())
	Expect(v.ValidateStruct(request.ListTodosQuery{Offset: -1, Limit: 101})).NotTo(BeNil())
}

func TestFormatValidationErrorsIgnoresOtherErrors(t *testing.T) {
	RegisterTestingT(t)

	v, err := New()
	Expect(err).To(BeNil())

	Expect(v.FormatValidationErrors(nil)).To(BeNil())
}

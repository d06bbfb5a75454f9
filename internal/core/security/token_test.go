package security_test

import (
	"strings"
	"testing"
	"time"

	"usertodos/internal/core/domain"
	"usertodos/internal/core/security"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type JWTIssuerSuite struct {
	suite.Suite
	now    time.Time
	issuer *security.JWTIssuer
}

func (s *JWTIssuerSuite) SetupTest() {
	s.now = time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)

	issuer, err := security.NewJWTIssuer("test-secret", security.WithClock(func() time.Time { return s.now }))
	Expect(err).To(BeNil())

	s.issuer = issuer
}

func TestJWTIssuerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(JWTIssuerSuite))
}

func (s *JWTIssuerSuite) TestIssueThenVerifyReturnsSubject() {
	token, err := s.issuer.Issue("alice")
	Expect(err).To(BeNil())

	subject, err := s.issuer.Verify(token)

	Expect(err).To(BeNil())
	Expect(subject).To(Equal("alice"))
}

func (s *JWTIssuerSuite) TestDefaultTTLIsThirtyMinutes() {
	Expect(s.issuer.TTL()).To(Equal(30 * time.Minute))

	token, _ := s.issuer.Issue("alice")

	claims := &security.Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	Expect(err).To(BeNil())
	Expect(claims.Subject).To(Equal("alice"))
	Expect(claims.ExpiresAt.Time.Equal(s.now.Add(30 * time.Minute))).To(BeTrue())
}

func (s *JWTIssuerSuite) TestTokenExpiresAfterTTL() {
	token, _ := s.issuer.Issue("alice")

	s.now = s.now.Add(29 * time.Minute)
	subject, err := s.issuer.Verify(token)
	Expect(err).To(BeNil())
	Expect(subject).To(Equal("alice"))

	s.now = s.now.Add(2 * time.Minute)
	subject, err = s.issuer.Verify(token)
	Expect(err).To(Equal(domain.ErrInvalidToken))
	Expect(subject).To(BeEmpty())
}

func (s *JWTIssuerSuite) TestWrongSecretIsInvalid() {
	other, _ := security.NewJWTIssuer("other-secret", security.WithClock(func() time.Time { return s.now }))
	token, _ := other.Issue("alice")

	_, err := s.issuer.Verify(token)

	Expect(err).To(Equal(domain.ErrInvalidToken))
}

func (s *JWTIssuerSuite) TestOtherAlgorithmIsInvalid() {
	claims := security.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Hour)),
	}}

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)

	for _, token := range []string{hs512, none} {
		_, err := s.issuer.Verify(token)
		Expect(err).To(Equal(domain.ErrInvalidToken))
	}
}

func (s *JWTIssuerSuite) TestMissingClaimsAreInvalid() {
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, security.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}).SignedString([]byte("test-secret"))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, security.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(s.now.Add(time.Hour))},
	}).SignedString([]byte("test-secret"))

	for _, token := range []string{noExpiry, noSubject, "", "garbage", "a.b.c"} {
		_, err := s.issuer.Verify(token)
		Expect(err).To(Equal(domain.ErrInvalidToken))
	}
}

func (s *JWTIssuerSuite) TestTamperedTokenIsInvalid() {
	alice, _ := s.issuer.Issue("alice")
	bob, _ := s.issuer.Issue("bob")

	aliceParts := strings.Split(alice, ".")
	bobParts := strings.Split(bob, ".")
	tampered := strings.Join([]string{bobParts[0], bobParts[1], aliceParts[2]}, ".")

	_, err := s.issuer.Verify(tampered)

	Expect(err).To(Equal(domain.ErrInvalidToken))
}

func (s *JWTIssuerSuite) TestEmptySecretIsRejected() {
	_, err := security.NewJWTIssuer("")

	Expect(err).NotTo(BeNil())
}

func (s *JWTIssuerSuite) TestWithTTL() {
	issuer, _ := security.NewJWTIssuer("test-secret",
		security.WithTTL(time.Minute),
		security.WithClock(func() time.Time { return s.now }))

	token, _ := issuer.Issue("bob")

	s.now = s.now.Add(61 * time.Second)
	_, err := issuer.Verify(token)

	Expect(err).To(Equal(domain.ErrInvalidToken))
}

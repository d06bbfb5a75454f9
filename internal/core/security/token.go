package security

import (
	"errors"
	"time"

	"usertodos/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 30 * time.Minute

type Claims struct {
	jwt.RegisteredClaims
}

type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type JWTOption func(*JWTIssuer)

func WithTTL(ttl time.Duration) JWTOption {
	return func(j *JWTIssuer) {
		if ttl > 0 {
			j.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) JWTOption {
	return func(j *JWTIssuer) {
		if now != nil {
			j.now = now
		}
	}
}

func NewJWTIssuer(secret string, opts ...JWTOption) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}

	issuer := &JWTIssuer{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(issuer)
	}

	return issuer, nil
}

func (j *JWTIssuer) TTL() time.Duration {
	return j.ttl
}

func (j *JWTIssuer) Issue(subject string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(j.now().Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(j.secret)
}

func (j *JWTIssuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	if err != nil || !token.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}

	return claims.Subject, nil
}

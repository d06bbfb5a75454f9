package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"usertodos/internal/core/domain"
	"usertodos/internal/core/model/request"
	"usertodos/internal/core/port"
	"usertodos/internal/core/telemetry"
)

const (
	DefaultIdentityTTL = time.Minute
	identityKeyPrefix  = "identity:"
)

type AuthService struct {
	repo      port.UserRepository
	hasher    port.PasswordHasher
	tokens    port.TokenIssuer
	cache     port.CacheRepository
	cacheTTL  time.Duration
	telemetry port.Telemetry

	// dummyHash keeps login timing similar for unknown usernames.
	dummyOnce sync.Once
	dummyHash string
}

type AuthOption func(*AuthService)

func WithIdentityCache(cache port.CacheRepository, ttl time.Duration) AuthOption {
	return func(s *AuthService) {
		s.cache = cache

		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithAuthTelemetry(probe port.Telemetry) AuthOption {
	return func(s *AuthService) {
		if probe != nil {
			s.telemetry = probe
		}
	}
}

func NewAuthService(repo port.UserRepository, hasher port.PasswordHasher, tokens port.TokenIssuer, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		cacheTTL:  DefaultIdentityTTL,
		telemetry: telemetry.NewNoOpProbe(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *AuthService) Register(ctx context.Context, req *request.CreateUserRequest) (*domain.User, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "auth", "register", 0, map[string]interface{}{
		"user.username": req.Username,
	})
	defer span.End()

	start := time.Now()

	user, err := s.register(ctx, req)

	s.telemetry.RecordServiceOperation(ctx, "auth", "register", user.ID, time.Since(start), err)

	if err != nil {
		return nil, err
	}

	s.telemetry.RecordBusinessEvent(ctx, "registered", "user", strconv.Itoa(user.ID), user.ID, nil)

	return &user, nil
}

func (s *AuthService) register(ctx context.Context, req *request.CreateUserRequest) (domain.User, error) {
	birthdate, err := domain.ParseBirthdate(req.Birthdate)

	if err != nil {
		return domain.User{}, domain.NewError(domain.ErrInvalidInput, "Birthdate [%s] must use the YYYY-MM-DD format", req.Birthdate)
	}

	hash, err := s.hasher.Hash(req.Password)

	if err != nil {
		return domain.User{}, fmt.Errorf("register user: %w", err)
	}

	user, err := s.repo.Create(ctx, domain.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Birthdate:    birthdate,
		PasswordHash: hash,
	})

	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return domain.User{}, domain.NewError(err, "Username [%s] already exists", req.Username)
	case errors.Is(err, domain.ErrDuplicateEmail):
		return domain.User{}, domain.NewError(err, "Email [%s] already exists", req.Email)
	case err != nil:
		return domain.User{}, fmt.Errorf("register user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and mints a bearer token for the username.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *request.LoginRequest) (string, error) {
	ctx, span := s.telemetry.StartServiceSpan(ctx, "auth", "login", 0, nil)
	defer span.End()

	start := time.Now()

	token, userID, err := s.login(ctx, req)

	s.telemetry.RecordServiceOperation(ctx, "auth", "login", userID, time.Since(start), err)

	return token, err
}

func (s *AuthService) login(ctx context.Context, req *request.LoginRequest) (string, int, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)

	if errors.Is(err, domain.ErrNotFound) {
		s.dummyOnce.Do(func() {
			s.dummyHash, _ = s.hasher.Hash("usertodos-dummy-password")
		})

		_, _ = s.hasher.Verify(req.Password, s.dummyHash)

		return "", 0, domain.ErrInvalidCredentials
	}

	if err != nil {
		return "", 0, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)

	if err != nil {
		return "", user.ID, fmt.Errorf("login user %d: %w", user.ID, err)
	}

	if !ok {
		return "", user.ID, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)

	if err != nil {
		return "", user.ID, fmt.Errorf("issue token: %w", err)
	}

	return token, user.ID, nil
}

// Authenticate resolves a bearer token into an Identity. Every rejection is
// reported as domain.ErrUnauthorized regardless of its cause; only storage
// failures surface as other errors.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return s.reject(ctx, "missing_token")
	}

	username, err := s.tokens.Verify(token)

	if err != nil || username == "" {
		return s.reject(ctx, "invalid_token")
	}

	if identity, ok := s.cachedIdentity(ctx, username); ok {
		return identity, nil
	}

	user, err := s.repo.GetByUsername(ctx, username)

	if errors.Is(err, domain.ErrNotFound) {
		return s.reject(ctx, "unknown_subject")
	}

	if err != nil {
		return domain.Identity{}, fmt.Errorf("resolve identity: %w", err)
	}

	identity := user.Identity()
	s.storeIdentity(ctx, identity)

	return identity, nil
}

func (s *AuthService) reject(ctx context.Context, stage string) (domain.Identity, error) {
	s.telemetry.RecordBusinessEvent(ctx, stage, "auth", "", 0, nil)

	return domain.Identity{}, domain.ErrUnauthorized
}

func (s *AuthService) cachedIdentity(ctx context.Context, username string) (domain.Identity, bool) {
	if s.cache == nil {
		return domain.Identity{}, false
	}

	raw, err := s.cache.Get(ctx, identityKeyPrefix+username)

	if err != nil {
		if !errors.Is(err, port.ErrCacheMiss) {
			s.telemetry.RecordError(ctx, "auth.cache.get", err, map[string]interface{}{"username": username})
		}

		return domain.Identity{}, false
	}

	var identity domain.Identity

	if err := json.Unmarshal(raw, &identity); err != nil || identity.Username != username {
		s.evictIdentity(ctx, username)
		return domain.Identity{}, false
	}

	return identity, true
}

// evictIdentity drops an entry that no longer decodes to the username's
// identity so it is not read again.
func (s *AuthService) evictIdentity(ctx context.Context, username string) {
	if err := s.cache.Delete(ctx, identityKeyPrefix+username); err != nil {
		s.telemetry.RecordError(ctx, "auth.cache.delete", err, map[string]interface{}{"username": username})
	}
}

func (s *AuthService) storeIdentity(ctx context.Context, identity domain.Identity) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(identity)

	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, identityKeyPrefix+identity.Username, raw, s.cacheTTL); err != nil {
		s.telemetry.RecordError(ctx, "auth.cache.set", err, map[string]interface{}{"username": identity.Username})
	}
}

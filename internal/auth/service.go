package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/simmas/internal"
	"github.com/frahmantamala/simmas/internal/core/common/validation"
)

var ErrCredentialNotFound = errors.New("credential not found")

// Credential is the slice of a user record needed to authenticate.
type Credential struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
}

type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*Credential, error)
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserView
}

// Service is the main auth service with dependencies
type Service struct {
	store  CredentialStore
	hasher *PasswordHasher
	tokens *TokenService
	logger *slog.Logger

	// compared against when the email is unknown so both paths cost one bcrypt run
	dummyHash string
}

func NewService(store CredentialStore, hasher *PasswordHasher, tokens *TokenService, logger *slog.Logger) *Service {
	dummy, _ := hasher.Hash("simmas-timing-equalizer")
	return &Service{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		dummyHash: dummy,
	}
}

// Login checks credentials and issues a session token. Every credential
// failure returns ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	dto.Normalize()
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	cred, err := s.store.FindByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			s.hasher.Verify(dto.Password, s.dummyHash)
			s.logger.Info("login failed", "reason", "unknown_email")
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("failed to load credentials", err)
	}

	if !s.hasher.Verify(dto.Password, cred.PasswordHash) {
		s.logger.Info("login failed", "reason", "password_mismatch", "user_id", cred.ID)
		return nil, internal.ErrInvalidCredentials
	}

	if !cred.IsActive {
		s.logger.Info("login failed", "reason", "inactive", "user_id", cred.ID)
		return nil, internal.ErrInvalidCredentials
	}

	role, ok := ParseRole(cred.Role)
	if !ok {
		s.logger.Error("login failed: stored role outside enum", "user_id", cred.ID, "role", cred.Role)
		return nil, internal.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(Identity{
		UserID:      cred.ID,
		Email:       cred.Email,
		DisplayName: cred.Name,
		Role:        role,
	}, 0)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue session", err)
	}

	s.logger.Info("login succeeded", "user_id", cred.ID, "role", role)

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserView{
			ID:    cred.ID,
			Email: cred.Email,
			Name:  cred.Name,
			Role:  role,
		},
	}, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexanest/authsvc/internal/apperrors"
	"github.com/nexanest/authsvc/internal/models"
	"github.com/nexanest/authsvc/internal/repository"
	"github.com/nexanest/authsvc/internal/service/auth/tokenmanager"
)

// How many times a refresh token may be regenerated on a store collision.
// The only operation the service retries internally.
const createSessionRetries = 3

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Hasher to compare user passwords on login
	// BcryptHasher is used if not set
	Hasher PasswordHasher
}

// Device is what we record about the client that opened a session
type Device struct {
	IPAddress string
	UserAgent string
}

// AuthService orchestrates the session lifecycle: login issues a token pair
// and a session row, refresh rotates the pair invalidating the presented
// refresh token, logout revokes sessions, validate checks bearer tokens.
//
// Access token validation is a pure signature check with no store lookup, so
// a revoked session keeps its outstanding access tokens alive until they
// expire on their own. The access TTL is the bound on revocation latency.
type AuthService struct {
	token   *tokenmanager.TokenManager
	hasher  PasswordHasher
	storage repository.Storage

	// Compared against on login for unknown emails so both failure paths
	// cost one bcrypt comparison
	decoyHash string
}

func NewService(cfg Config, token *tokenmanager.TokenManager, storage repository.Storage) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	decoyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hasher is not usable. Err: %w", err)
	}

	return &AuthService{
		token:     token,
		hasher:    hasher,
		storage:   storage,
		decoyHash: decoyHash,
	}, nil
}

// Login verifies credentials and opens a new session.
// Prior sessions of the user stay live: multi device login is allowed.
// Unknown email and wrong password both surface as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email string, password string, device Device) (models.TokenPair, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, email)

	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		_ = s.hasher.Compare(s.decoyHash, password)
		return models.TokenPair{}, apperrors.ErrInvalidCredentials
	case err != nil:
		return models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return models.TokenPair{}, apperrors.ErrInactiveAccount
	}

	return s.openSession(ctx, s.storage, user.ID, device)
}

// Refresh exchanges a live refresh token for a new token pair.
// Rotation is single use: the presented token's session is revoked and a
// successor session created in one transaction, so of N concurrent calls
// with the same token exactly one wins and the rest get ErrSessionNotFound.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	claims, err := s.token.Parse(refreshToken, tokenmanager.TypeRefresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	var pair models.TokenPair
	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		old, err := st.Session().Claim(ctx, refreshToken, time.Now())
		if err != nil {
			return err
		}

		// A signed token naming another user's session means key compromise
		// or a store mixup; fail the same way as an unknown token
		if old.UserID != claims.UserID {
			return apperrors.ErrSessionNotFound
		}

		user, err := st.User().GetUserByID(ctx, old.UserID)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return apperrors.ErrInactiveAccount
		}

		pair, err = s.openSession(ctx, st, user.ID, Device{IPAddress: old.IPAddress, UserAgent: old.UserAgent})
		return err
	})
	if err != nil {
		return models.TokenPair{}, err
	}

	return pair, nil
}

// Logout revokes every live session of the user.
// Idempotent: logging out with nothing to revoke is not an error.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	_, err := s.storage.Session().RevokeUser(ctx, userID)
	return err
}

// Validate checks an access token and returns the user id it names.
// Stateless: the signature check needs no store round trip.
func (s *AuthService) Validate(ctx context.Context, accessToken string) (uuid.UUID, error) {
	claims, err := s.token.Parse(accessToken, tokenmanager.TypeAccess)
	if err != nil {
		return uuid.Nil, err
	}

	return claims.UserID, nil
}

// openSession issues a token pair and persists the session row.
// Regenerates the refresh token on the vanishingly rare store collision.
func (s *AuthService) openSession(ctx context.Context, st repository.Storage, userID uuid.UUID, device Device) (models.TokenPair, error) {
	access, err := s.token.Issue(userID, tokenmanager.TypeAccess)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while issuing access token. Err: %w", err)
	}

	for range createSessionRetries {
		refresh, err := s.token.Issue(userID, tokenmanager.TypeRefresh)
		if err != nil {
			return models.TokenPair{}, fmt.Errorf("error while issuing refresh token. Err: %w", err)
		}

		// Each attempt gets its own transaction (a savepoint when the caller
		// already holds one): a unique violation aborts the Postgres tx it
		// happened in, so the insert must not run directly in the caller's tx
		err = st.InTx(ctx, func(st repository.Storage) error {
			_, err := st.Session().Create(ctx, models.Session{
				ID:               uuid.New(),
				UserID:           userID,
				RefreshToken:     refresh.Value,
				IssuedAt:         time.Now().Truncate(time.Second),
				AccessExpiresAt:  access.ExpiresAt,
				RefreshExpiresAt: refresh.ExpiresAt,
				IPAddress:        device.IPAddress,
				UserAgent:        device.UserAgent,
			})
			return err
		})

		switch {
		case errors.Is(err, apperrors.ErrDuplicateToken):
			continue
		case err != nil:
			return models.TokenPair{}, err
		}

		return models.TokenPair{Access: access, Refresh: refresh}, nil
	}

	return models.TokenPair{}, fmt.Errorf("%w: give up after %d attempts", apperrors.ErrDuplicateToken, createSessionRetries)
}

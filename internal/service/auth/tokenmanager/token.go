package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nexanest/authsvc/internal/apperrors"
	"github.com/nexanest/authsvc/internal/models"
)

// Token types
// An access token must never be accepted where a refresh token is required
// and vice versa, so every token carries its type as a claim
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

const (
	defaultAccessTokenTTL  = 30 * time.Minute
	defaultSigningMethod   = "HS256"
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set then defaults are used
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenManager issues and verifies signed expiring tokens.
// It is the only component that touches the signing key; it holds no state
// beyond the config, so issue and parse are safe to call concurrently.
type TokenManager struct {
	// Secret key to sign token payloads
	key string

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Access and refresh token lifetimes
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	return &TokenManager{
		key:        cfg.SecretKey,
		alg:        jwt.GetSigningMethod(cfg.Alg),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}, nil
}

// Issue signs a token of the given type for the user.
// The jti claim is a fresh uuid, so two tokens of the same user never collide.
func (m *TokenManager) Issue(userID uuid.UUID, tokenType string) (models.IssuedToken, error) {
	var ttl time.Duration
	switch tokenType {
	case TypeAccess:
		ttl = m.accessTTL
	case TypeRefresh:
		ttl = m.refreshTTL
	default:
		return models.IssuedToken{}, fmt.Errorf("unknown token type: %q", tokenType)
	}

	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   userID.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID:    userID,
			TokenType: tokenType,
		},
	)

	value, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// Parse verifies signature, expiry and the type tag.
// Returns apperrors.ErrTokenExpired for expired tokens and
// apperrors.ErrInvalidToken for everything else that fails verification.
func (m *TokenManager) Parse(value string, wantType string) (Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, fmt.Errorf("%w: %v", apperrors.ErrTokenExpired, err)
	default:
		return Claims{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	if claims.TokenType != wantType {
		return Claims{}, fmt.Errorf("%w: token type %q where %q required", apperrors.ErrInvalidToken, claims.TokenType, wantType)
	}

	return *claims, nil
}

// AccessTTL reports the configured access token lifetime
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL reports the configured refresh token lifetime
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

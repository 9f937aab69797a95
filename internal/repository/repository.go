package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nexanest/authsvc/internal/models"
)

type CreateUserParams struct {
	Email          string
	Username       string
	FullName       string
	HashedPassword string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Session repository interface
type SessionRepo interface {
	// Create session
	// If session with the same refresh token exists must return apperrors.ErrDuplicateToken
	Create(ctx context.Context, session models.Session) (models.Session, error)

	// Return the session whatever state it is in
	// If nothing matches must return apperrors.ErrSessionNotFound
	GetByRefreshToken(ctx context.Context, refreshToken string) (models.Session, error)

	// Atomically revoke the live session with the given refresh token and return it.
	// Exactly one of concurrent calls with the same token may succeed; all others,
	// and calls with unknown, revoked or expired tokens, must return
	// apperrors.ErrSessionNotFound
	Claim(ctx context.Context, refreshToken string, now time.Time) (models.Session, error)

	// Revoke every live session of the user. Revoking none is not an error
	RevokeUser(ctx context.Context, userID uuid.UUID) (revoked int64, err error)

	// Delete sessions whose refresh token expired before the given moment
	DeleteExpired(ctx context.Context, olderThan time.Time) (deleted int64, err error)
}

type Storage interface {
	User() UserRepo
	Session() SessionRepo

	// Run fn within a database transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nexanest/authsvc/internal/apperrors"
	"github.com/nexanest/authsvc/internal/models"
)

type SessionRepo struct {
	DB DBTX
}

const createSession = `-- name: CreateSession
INSERT INTO sessions (id, user_id, refresh_token, issued_at, access_expires_at, refresh_expires_at, ip_address, user_agent, revoked)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, user_id, refresh_token, issued_at, access_expires_at, refresh_expires_at, ip_address, user_agent, revoked
`

func (r *SessionRepo) Create(ctx context.Context, session models.Session) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, createSession,
		session.ID,
		session.UserID,
		session.RefreshToken,
		session.IssuedAt,
		session.AccessExpiresAt,
		session.RefreshExpiresAt,
		session.IPAddress,
		session.UserAgent,
		session.Revoked,
	)
	created, err := pgx.CollectOneRow(rows, rowToSession)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return created, apperrors.ErrDuplicateToken
		}

		return created, storeErr(err)
	}

	return created, nil
}

const getSessionByRefreshToken = `-- name: GetSessionByRefreshToken
SELECT id, user_id, refresh_token, issued_at, access_expires_at, refresh_expires_at, ip_address, user_agent, revoked
FROM sessions
WHERE refresh_token = $1
`

// Get session by refresh token value
// Returns the session even if it is revoked or expired already
func (r *SessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, getSessionByRefreshToken, refreshToken)
	session, err := pgx.CollectOneRow(rows, rowToSession)

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, pgx.ErrNoRows):
		return session, apperrors.ErrSessionNotFound
	default:
		return session, storeErr(err)
	}
}

const claimSession = `-- name: ClaimSession
UPDATE sessions
SET revoked = TRUE
WHERE refresh_token = $1 AND NOT revoked AND refresh_expires_at > $2
RETURNING id, user_id, refresh_token, issued_at, access_expires_at, refresh_expires_at, ip_address, user_agent, revoked
`

// Claim revokes the live session with the given refresh token and returns it.
// The single UPDATE makes the read-then-revoke step atomic: of two concurrent
// claims for the same token, the second re-evaluates the WHERE clause after
// the first commits, matches nothing and gets ErrSessionNotFound.
func (r *SessionRepo) Claim(ctx context.Context, refreshToken string, now time.Time) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, claimSession, refreshToken, now)
	session, err := pgx.CollectOneRow(rows, rowToSession)

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, pgx.ErrNoRows):
		return session, apperrors.ErrSessionNotFound
	default:
		return session, storeErr(err)
	}
}

const revokeUserSessions = `-- name: RevokeUserSessions
UPDATE sessions
SET revoked = TRUE
WHERE user_id = $1 AND NOT revoked
`

// Revoke all live sessions of the user
// Idempotent: revoking nothing is ok
func (r *SessionRepo) RevokeUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.DB.Exec(ctx, revokeUserSessions, userID)
	if err != nil {
		return 0, storeErr(err)
	}

	return tag.RowsAffected(), nil
}

const deleteExpiredSessions = `-- name: DeleteExpiredSessions
DELETE FROM sessions
WHERE refresh_expires_at <= $1
`

func (r *SessionRepo) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpiredSessions, olderThan)
	if err != nil {
		return 0, storeErr(err)
	}

	return tag.RowsAffected(), nil
}

func rowToSession(row pgx.CollectableRow) (models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.RefreshToken,
		&s.IssuedAt,
		&s.AccessExpiresAt,
		&s.RefreshExpiresAt,
		&s.IPAddress,
		&s.UserAgent,
		&s.Revoked,
	)
	return s, err
}

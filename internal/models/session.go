package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one authenticated login of a user.
// A session is live while it is not revoked and its refresh token not expired.
// Refresh rotates the session: the old row is revoked and a successor created.
type Session struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	RefreshToken     string
	IssuedAt         time.Time
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	IPAddress        string
	UserAgent        string
	Revoked          bool
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Email          string
	Username       string
	FullName       string
	HashedPassword string
	Role           string
	IsActive       bool
	IsVerified     bool
	MFAEnabled     bool
}

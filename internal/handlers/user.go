package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nexanest/authsvc/internal/handlers/render"
	"github.com/nexanest/authsvc/internal/handlers/userctx"
)

func handleUserMe() http.Handler {
	type response struct {
		ID         uuid.UUID `json:"id"`
		Email      string    `json:"email"`
		Username   string    `json:"username"`
		FullName   string    `json:"full_name"`
		Role       string    `json:"role"`
		IsActive   bool      `json:"is_active"`
		IsVerified bool      `json:"is_verified"`
		MFAEnabled bool      `json:"mfa_enabled"`
		CreatedAt  string    `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Unauthorized(w, "Unauthorized")
			return
		}

		render.JSON(w, response{
			ID:         u.ID,
			Email:      u.Email,
			Username:   u.Username,
			FullName:   u.FullName,
			Role:       u.Role,
			IsActive:   u.IsActive,
			IsVerified: u.IsVerified,
			MFAEnabled: u.MFAEnabled,
			CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		})
	})
}

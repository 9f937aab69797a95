package middleware

import (
	"context"
	"net/http"

	"github.com/nexanest/authsvc/internal/handlers/render"
	"github.com/nexanest/authsvc/internal/handlers/userctx"
	"github.com/nexanest/authsvc/internal/models"
)

type authService interface {
	// Authenticate request and return its user
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

// AuthMiddleware rejects requests without a valid bearer access token and
// stores the authenticated user in the request context.
// Every failure renders the same generic 401 so callers learn nothing about
// why exactly a token was rejected.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.Auth(r.Context(), r)
			if err != nil {
				render.Unauthorized(w, "Unauthorized")
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/nexanest/authsvc/internal/apperrors"
	"github.com/nexanest/authsvc/internal/handlers/render"
	"github.com/nexanest/authsvc/internal/handlers/userctx"
	"github.com/nexanest/authsvc/internal/models"
	"github.com/nexanest/authsvc/internal/service/auth"
	"github.com/nexanest/authsvc/internal/service/user"
)

type authService interface {
	// Login with email and password
	// Must collapse unknown email and wrong password into ErrInvalidCredentials
	Login(ctx context.Context, email string, password string, device auth.Device) (models.TokenPair, error)

	// Exchange a live refresh token for a new pair
	// Reused, revoked and unknown tokens fail with ErrSessionNotFound
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)

	// Revoke all live sessions of the user. Idempotent
	Logout(ctx context.Context, userID uuid.UUID) error
}

type registerService interface {
	// Create user. Taken email fails with ErrUserAlreadyExists
	Register(ctx context.Context, arg user.RegisterParams) (models.User, error)
}

// Token pair response in the OAuth2 bearer convention
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func newTokenResponse(pair models.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
		TokenType:    "bearer",
	}
}

type AuthHandler struct {
	auth  authService
	users registerService
}

func NewAuth(auth authService, users registerService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	// Form encoded per the OAuth2 password grant convention;
	// the 'username' field carries the email
	type LoginForm struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := r.ParseForm(); err != nil {
		render.ServiceError(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	form := LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if err := render.Validate(w, form); err != nil {
		return
	}

	pair, err := h.auth.Login(r.Context(), form.Username, form.Password, auth.Device{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.Unauthorized(w, "Incorrect email or password")
		case errors.Is(err, apperrors.ErrInactiveAccount):
			render.ServiceError(w, "Inactive user", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrStoreUnavailable):
			render.ServiceError(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, newTokenResponse(pair))
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshRequest struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	data, err := render.BindAndValidate[RefreshRequest](w, r)
	if err != nil {
		return
	}

	pair, err := h.auth.Refresh(r.Context(), data.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInactiveAccount):
			render.ServiceError(w, "Inactive user", http.StatusForbidden)
		case errors.Is(err, apperrors.ErrStoreUnavailable):
			render.ServiceError(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			// Expired, tampered, reused and unknown tokens all read the same
			render.Unauthorized(w, "Invalid refresh token")
		}
		return
	}

	render.JSON(w, newTokenResponse(pair))
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	type LogoutSuccessResponse struct {
		Message string `json:"message"`
	}

	// Set by the auth middleware, always present on this route
	u, ok := userctx.FromContext(r.Context())
	if !ok {
		render.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.auth.Logout(r.Context(), u.ID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrStoreUnavailable):
			render.ServiceError(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, LogoutSuccessResponse{Message: "Successfully logged out"})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Username string `json:"username" validate:"omitempty,min=2,max=50"`
		FullName string `json:"full_name" validate:"omitempty,max=100"`
	}
	type RegisterSuccessResponse struct {
		Message string `json:"message"`
		UserID  string `json:"user_id"`
		Email   string `json:"email"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.users.Register(r.Context(), user.RegisterParams{
		Email:    data.Email,
		Password: data.Password,
		Username: data.Username,
		FullName: data.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Email already registered", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrStoreUnavailable):
			render.ServiceError(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		default:
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, RegisterSuccessResponse{
		Message: "User created successfully",
		UserID:  created.ID.String(),
		Email:   created.Email,
	})
}

// clientIP returns the peer address without the port
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

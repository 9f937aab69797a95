package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nexanest/authsvc/internal/models"
)

const (
	accessHeaderName = "Authorization"
	accessAuthScheme = "Bearer"
)

var errNoBearerToken = errors.New("no bearer token in request")

// ReadBearerToken extracts the access token from the Authorization header
func ReadBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(accessHeaderName)

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, accessAuthScheme) || token == "" {
		return "", errNoBearerToken
	}

	return token, nil
}

// Auth authenticates the request by its bearer access token and
// returns the user it belongs to
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	token, err := ReadBearerToken(r)
	if err != nil {
		return models.User{}, err
	}

	userID, err := s.Validate(ctx, token)
	if err != nil {
		return models.User{}, err
	}

	return s.storage.User().GetUserByID(ctx, userID)
}

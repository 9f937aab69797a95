package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nexanest/authsvc/internal/models"
	"github.com/nexanest/authsvc/internal/repository"
	"github.com/nexanest/authsvc/internal/service/auth"
)

type RegisterParams struct {
	Email    string
	Password string

	// Optional; defaulted from the email local part when empty
	Username string
	FullName string
}

type UserService struct {
	hasher  auth.PasswordHasher
	storage repository.Storage
}

func NewService(hasher auth.PasswordHasher, storage repository.Storage) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
	}
}

// Register creates a new user
// Returns apperrors.ErrUserAlreadyExists if the email is taken
func (s *UserService) Register(ctx context.Context, arg RegisterParams) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	username := arg.Username
	if username == "" {
		username, _, _ = strings.Cut(arg.Email, "@")
	}

	user, err = s.storage.User().CreateUser(ctx, repository.CreateUserParams{
		Email:          arg.Email,
		Username:       username,
		FullName:       arg.FullName,
		HashedPassword: hash,
	})
	if err != nil {
		return user, err
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.storage.User().GetUserByID(ctx, userID)
}

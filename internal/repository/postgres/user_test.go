package postgres

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nexanest/authsvc/internal/apperrors"
	"github.com/nexanest/authsvc/internal/models"
	"github.com/nexanest/authsvc/internal/repository"
	"github.com/nexanest/authsvc/internal/testutil"
)

// mustCreateUser inserts a user with sensible defaults for session tests
func mustCreateUser(t *testing.T, db DBTX, email string) models.User {
	t.Helper()

	repo := UserRepo{DB: db}
	user, err := repo.CreateUser(t.Context(), repository.CreateUserParams{
		Email:          email,
		Username:       "tester",
		HashedPassword: "hashed-password",
	})
	require.NoError(t, err, "user should be created without errors")
	return user
}

func Test_UserRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("create user ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			user, err := repo.CreateUser(t.Context(), repository.CreateUserParams{
				Email:          "nk@example.com",
				Username:       "nk",
				FullName:       "N K",
				HashedPassword: "hashed-password",
			})

			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, user.ID, "id should be generated")
			require.Equal(t, "nk@example.com", user.Email)
			require.Equal(t, "nk", user.Username)
			require.Equal(t, "N K", user.FullName)
			require.Equal(t, "hashed-password", user.HashedPassword)
			require.Equal(t, "user", user.Role, "role should default to user")
			require.True(t, user.IsActive, "new accounts should be active")
			require.False(t, user.IsVerified, "new accounts should not be verified")
			require.False(t, user.MFAEnabled)
			require.False(t, user.CreatedAt.IsZero(), "created_at should be set by the db")
		})
	})

	t.Run("create duplicate email fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}
			arg := repository.CreateUserParams{Email: "dup@example.com", Username: "dup", HashedPassword: "h"}

			_, err := repo.CreateUser(t.Context(), arg)
			require.NoError(t, err)

			_, err = repo.CreateUser(t.Context(), arg)
			require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("get by id and email", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}
			created := mustCreateUser(t, tx, "get@example.com")

			byID, err := repo.GetUserByID(t.Context(), created.ID)
			require.NoError(t, err)
			require.Equal(t, created.ID, byID.ID)

			byEmail, err := repo.GetUserByEmail(t.Context(), "get@example.com")
			require.NoError(t, err)
			require.Equal(t, created.ID, byEmail.ID)
		})
	})

	t.Run("get unknown user fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			_, err := repo.GetUserByID(t.Context(), uuid.New())
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)

			_, err = repo.GetUserByEmail(t.Context(), fmt.Sprintf("%s@example.com", uuid.NewString()))
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}

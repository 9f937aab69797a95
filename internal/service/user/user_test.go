package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexanest/authsvc/internal/apperrors"
	"github.com/nexanest/authsvc/internal/repository/postgres"
	"github.com/nexanest/authsvc/internal/service/auth"
	"github.com/nexanest/authsvc/internal/testutil"
)

func Test_UserService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("register", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewService(nil, postgres.NewStorage(tx))

			user, err := s.Register(t.Context(), RegisterParams{
				Email:    "newcomer@example.com",
				Password: "StrongEnoughPassword",
				Username: "newcomer42",
				FullName: "New Comer",
			})

			require.NoError(t, err)
			assert.Equal(t, "newcomer@example.com", user.Email)
			assert.Equal(t, "newcomer42", user.Username)
			assert.Equal(t, "New Comer", user.FullName)
			assert.True(t, user.IsActive)

			// The stored hash verifies against the original password
			require.NoError(t, auth.DefaultHasher.Compare(user.HashedPassword, "StrongEnoughPassword"))
		})
	})

	t.Run("register defaults username from email", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewService(nil, postgres.NewStorage(tx))

			user, err := s.Register(t.Context(), RegisterParams{
				Email:    "lazy.typist@example.com",
				Password: "StrongEnoughPassword",
			})

			require.NoError(t, err)
			assert.Equal(t, "lazy.typist", user.Username)
		})
	})

	t.Run("register duplicate email fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewService(nil, postgres.NewStorage(tx))

			params := RegisterParams{
				Email:    "taken@example.com",
				Password: "StrongEnoughPassword",
			}

			_, err := s.Register(t.Context(), params)
			require.NoError(t, err)

			_, err = s.Register(t.Context(), params)
			require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
		})
	})

	t.Run("get by id", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewService(nil, postgres.NewStorage(tx))

			created, err := s.Register(t.Context(), RegisterParams{
				Email:    "findme@example.com",
				Password: "StrongEnoughPassword",
			})
			require.NoError(t, err)

			found, err := s.GetByID(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, found)
		})
	})

	t.Run("get by unknown id fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewService(nil, postgres.NewStorage(tx))

			_, err := s.GetByID(t.Context(), uuid.New())
			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}

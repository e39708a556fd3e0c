package test_utils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/moneypro/pkg/user"
	"github.com/stretchr/testify/require"
)

// TestUser returns a user that is not stored anywhere, for stub based tests.
func TestUser(id int) user.User {
	return user.User{
		Id:    id,
		Uid:   uuid.NewString(),
		Email: uuid.NewString() + "@example.com",
		Name:  "Test User",
	}
}

// CreateUser inserts a user row so that rows referencing it can be stored.
func CreateUser(t *testing.T, db *pgxpool.Pool) user.User {
	t.Helper()
	u := TestUser(0)
	u.PasswordHash = "not-a-real-hash"
	id, err := user.NewUserRepo(db).CreateUser(context.Background(), u)
	require.NoError(t, err)
	u.Id = id
	return u
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/dashboard/internal/auth"
	"finboard/dashboard/internal/db"
	"finboard/dashboard/internal/models"
)

func TestUserService_Authenticate(t *testing.T) {
	database := db.SetupTestDB(t, "testdb_user_service_auth", usersCollection)
	svc := NewUserService(database)
	ctx := context.Background()

	hash, err := auth.HashPassword("123456")
	require.NoError(t, err)
	user := models.User{
		Base:         models.NewBase(),
		Name:         "User",
		Email:        "user@nextmail.com",
		PasswordHash: hash,
	}
	_, err = database.Collection(usersCollection).InsertOne(ctx, user)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "user@nextmail.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "user@nextmail.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@nextmail.com", "123456")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

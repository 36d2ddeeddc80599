package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangfeiwest163/toolshub/internal/database"
	"github.com/wangfeiwest163/toolshub/internal/database/memory"
)

func newUserFixture(t *testing.T) *UserService {
	t.Helper()

	store := memory.NewStore()

	return NewUserService(store.Users, store.Tools, []byte("test-secret"), time.Hour)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	svc := newUserFixture(t)

	user, token, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.Equal(t, "light", user.Preferences.Theme)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	t.Run("duplicate account", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice", "other@example.com", "s3cret-pass")

		assert.ErrorIs(t, err, database.ErrUserExists)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	svc := newUserFixture(t)

	registered, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "s3cret-pass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice", "wrong-pass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login by email", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		userID, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, userID)
	})
}

func TestUserService_VerifyToken(t *testing.T) {
	svc := newUserFixture(t)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.VerifyToken("not.a.token")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := newUserFixture(t)
		_, token, err := other.Register(context.Background(), "bob", "bob@example.com", "s3cret-pass")
		require.NoError(t, err)

		wrongKey := NewUserService(nil, nil, []byte("another-secret"), time.Hour)
		_, err = wrongKey.VerifyToken(token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestUserService_Favorites(t *testing.T) {
	ctx := context.Background()
	svc := newUserFixture(t)

	user, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("unknown tool", func(t *testing.T) {
		_, err := svc.AddFavorite(ctx, user.ID, "9999")

		assert.ErrorIs(t, err, database.ErrToolNotFound)
	})

	t.Run("add, duplicate, list, remove", func(t *testing.T) {
		favorites, err := svc.AddFavorite(ctx, user.ID, "1")
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, "1", favorites[0].ToolID)
		assert.False(t, favorites[0].AddedAt.IsZero())

		_, err = svc.AddFavorite(ctx, user.ID, "1")
		assert.ErrorIs(t, err, database.ErrFavoriteExists)

		joined, err := svc.Favorites(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, joined, 1)
		assert.Equal(t, "Password Generator", joined[0].Name)

		favorites, err = svc.RemoveFavorite(ctx, user.ID, "1")
		require.NoError(t, err)
		assert.Empty(t, favorites)
	})
}

func TestUserService_UpdatePreferences(t *testing.T) {
	ctx := context.Background()
	svc := newUserFixture(t)

	user, _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("empty fields keep current values", func(t *testing.T) {
		prefs, err := svc.UpdatePreferences(ctx, user.ID, "dark", "")

		require.NoError(t, err)
		assert.Equal(t, "dark", prefs.Theme)
		assert.Equal(t, "en", prefs.Language)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdatePreferences(ctx, "9999", "dark", "de")

		assert.ErrorIs(t, err, database.ErrUserNotFound)
	})
}

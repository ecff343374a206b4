package inmemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mallasudi/smartschool/core/user"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(Open())

	awe, err := repo.CreateUser(ctx, user.User{Username: "awe", Email: "awe@test.cd", Password: "lol", Role: user.RoleStudent, Status: user.StatusActive})
	require.NoError(t, err)
	require.NotEmpty(t, awe.ID)

	// another user whose email is awe's username
	other, err := repo.CreateUser(ctx, user.User{Username: "other", Email: "awe", Role: user.RoleParent, Status: user.StatusActive})
	require.NoError(t, err)

	t.Run("conflicts", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, user.User{Username: "awe", Role: user.RoleStudent})
		assert.Equal(t, user.ErrConflict, err)
		_, err = repo.CreateUser(ctx, user.User{Username: "new", Email: "awe@test.cd", Role: user.RoleStudent})
		assert.Equal(t, user.ErrConflict, err)
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := repo.GetUser(ctx, user.GetFilter{UsernameOrEmail: "awe"})
		require.NoError(t, err)
		assert.Equal(t, awe.ID, got.ID, "username match must win")

		got, err = repo.GetUser(ctx, user.GetFilter{UsernameOrEmail: "awe@test.cd"})
		require.NoError(t, err)
		assert.Equal(t, awe.ID, got.ID)

		_, err = repo.GetUser(ctx, user.GetFilter{UsernameOrEmail: "AWE"})
		assert.Equal(t, user.ErrNotFound, err, "lookups are case-sensitive")

		got, err = repo.GetUser(ctx, user.GetFilter{ID: other.ID})
		require.NoError(t, err)
		assert.Equal(t, "other", got.Username)

		_, err = repo.GetUser(ctx, user.GetFilter{Email: "awe@test.cd", Role: user.RoleAdmin})
		assert.Equal(t, user.ErrNotFound, err)

		_, err = repo.GetUser(ctx, user.GetFilter{})
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("update password", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, awe.ID, "new"))
		got, err := repo.GetUser(ctx, user.GetFilter{ID: awe.ID})
		require.NoError(t, err)
		assert.Equal(t, "new", got.Password)

		assert.Equal(t, user.ErrNotFound, repo.UpdatePassword(ctx, "lol", "new"))
	})

	t.Run("update user keeps password", func(t *testing.T) {
		awe.Name = "Awesome"
		awe.Password = "ignored"
		updated, err := repo.UpdateUser(ctx, awe)
		require.NoError(t, err)
		assert.Equal(t, "Awesome", updated.Name)
		assert.Equal(t, "new", updated.Password)

		awe.Email = "awe" // other's email
		_, err = repo.UpdateUser(ctx, awe)
		assert.Equal(t, user.ErrConflict, err)
	})

	t.Run("query all", func(t *testing.T) {
		users, err := repo.QueryAllUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.True(t, users[0].ID < users[1].ID)
	})
}

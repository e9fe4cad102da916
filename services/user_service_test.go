package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)
	require.NotEqual(t, "secret-password", hash)

	require.True(t, ComparePassword("secret-password", hash))
	require.False(t, ComparePassword("wrong-password", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	// bcrypt embeds a random salt, so two hashes of one password differ
	require.NotEqual(t, first, second)
}

func TestCreateUserDerivesUsername(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.Create(context.Background(), "jane.roe@example.com", "Jane Roe", "password123")
	require.NoError(t, err)
	require.Equal(t, "jane.roe", user.Username)
	require.Equal(t, "jane.roe@example.com", user.Email)
	require.NotEmpty(t, user.ID)
	require.True(t, ComparePassword("password123", user.Password))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Create(context.Background(), "dup@example.com", "First User", "password123")
	require.NoError(t, err)

	_, err = env.users.Create(context.Background(), "dup@example.com", "Second User", "password456")
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.users.Create(ctx, "auth@example.com", "Auth User", "password123")
	require.NoError(t, err)

	user, err := env.users.Authenticate(ctx, "auth@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	_, err = env.users.Authenticate(ctx, "auth@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.users.Authenticate(ctx, "unknown@example.com", "password123")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestSearchUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	caller, err := env.users.Create(ctx, "searcher@example.com", "The Searcher", "password123")
	require.NoError(t, err)
	_, err = env.users.Create(ctx, "alice.smith@example.com", "Alice Smith", "password123")
	require.NoError(t, err)
	_, err = env.users.Create(ctx, "bob.jones@example.com", "Bob Jones", "password123")
	require.NoError(t, err)

	// case-insensitive match on full name
	results, err := env.users.Search(ctx, caller.ID, "ALICE")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "alice.smith", results[0].Username)

	// match on username
	results, err = env.users.Search(ctx, caller.ID, "bob.j")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Bob Jones", results[0].FullName)

	// the caller never shows up in their own search
	results, err = env.users.Search(ctx, caller.ID, "searcher")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createTestUser(t, env.users)

	updated, err := env.users.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Username: strptr("brand_new"),
		Avatar:   strptr("https://example.com/a.png"),
	})
	require.NoError(t, err)
	require.Equal(t, "brand_new", updated.Username)
	require.NotNil(t, updated.Avatar)
	require.Equal(t, "https://example.com/a.png", *updated.Avatar)
	require.Equal(t, user.FullName, updated.FullName)

	other := createTestUser(t, env.users)
	_, err = env.users.UpdateProfile(ctx, other.ID, ProfileUpdate{Username: strptr("brand_new")})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Create(ctx, "pw@example.com", "Password User", "old-password")
	require.NoError(t, err)

	err = env.users.ChangePassword(ctx, user.ID, "wrong", "new-password")
	require.ErrorIs(t, err, ErrUnauthorized)

	err = env.users.ChangePassword(ctx, user.ID, "old-password", "new-password")
	require.NoError(t, err)

	_, err = env.users.Authenticate(ctx, "pw@example.com", "new-password")
	require.NoError(t, err)
	_, err = env.users.Authenticate(ctx, "pw@example.com", "old-password")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestSetOnline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := createTestUser(t, env.users)
	require.False(t, user.IsOnline)

	require.NoError(t, env.users.SetOnline(ctx, user.ID, true))

	got, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.IsOnline)

	require.NoError(t, env.users.SetOnline(ctx, user.ID, false))
	got, err = env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, got.IsOnline)

	err = env.users.SetOnline(ctx, "no-such-user", true)
	require.ErrorIs(t, err, ErrNotFound)
}

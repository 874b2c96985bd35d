package user

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/database"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func create(t *testing.T, repo *Repository, username string) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return id
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	id := create(t, repo, "alice")

	t.Run("Get", func(t *testing.T) {
		u, err := repo.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("GetByEmail", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, id, u.ID)
	})

	t.Run("GetMissing", func(t *testing.T) {
		u, err := repo.Get(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := repo.Create(ctx, &User{
			Email:        "alice@example.com",
			Username:     "alice2",
			PasswordHash: "x",
		})
		assert.ErrorIs(t, err, ErrExists)
	})
}

func TestFollows(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := create(t, repo, "alice")
	bob := create(t, repo, "bob")
	carol := create(t, repo, "carol")

	t.Run("Follow", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, alice, bob))
		require.NoError(t, repo.Follow(ctx, alice, carol))

		following, err := repo.IsFollowing(ctx, alice, bob)
		require.NoError(t, err)
		assert.True(t, following)

		reverse, err := repo.IsFollowing(ctx, bob, alice)
		require.NoError(t, err)
		assert.False(t, reverse)
	})

	t.Run("FollowTwice", func(t *testing.T) {
		assert.ErrorIs(t, repo.Follow(ctx, alice, bob), ErrAlreadyFollowing)
	})

	t.Run("SelfFollow", func(t *testing.T) {
		assert.ErrorIs(t, repo.Follow(ctx, alice, alice), ErrSelfFollow)
	})

	t.Run("Subscriptions", func(t *testing.T) {
		subs, total, err := repo.Subscriptions(ctx, alice, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, subs, 2)
		// Ordered by username.
		assert.Equal(t, "bob", subs[0].Username)
		assert.Equal(t, "carol", subs[1].Username)
	})

	t.Run("Unfollow", func(t *testing.T) {
		require.NoError(t, repo.Unfollow(ctx, alice, bob))
		assert.ErrorIs(t, repo.Unfollow(ctx, alice, bob), ErrNotFollowing)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

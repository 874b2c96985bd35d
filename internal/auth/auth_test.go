package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("IssueAndVerify", func(t *testing.T) {
		token, err := m.Issue(42)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		userID, err := m.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := m.Issue(42)
		require.NoError(t, err)

		other := NewManager("other-secret", time.Hour)
		_, err = other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		short := NewManager("test-secret", -time.Minute)
		token, err := short.Issue(42)
		require.NoError(t, err)

		_, err = short.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

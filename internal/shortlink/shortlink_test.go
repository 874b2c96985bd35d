package shortlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		id   int64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{9, "9"},
		{10, "a"},
		{35, "z"},
		{36, "A"},
		{61, "Z"},
		{62, "10"},
		{3843, "ZZ"},
		{3844, "100"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Encode(tc.id), "Encode(%d)", tc.id)
	}
}

func TestDecode(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		ids := []int64{0, 1, 61, 62, 63, 999, 123456789, 1<<62 - 1}
		for _, id := range ids {
			got, err := Decode(Encode(id))
			require.NoError(t, err)
			assert.Equal(t, id, got)
		}
	})

	t.Run("NoLeadingZero", func(t *testing.T) {
		for id := int64(1); id < 10000; id++ {
			token := Encode(id)
			assert.NotEqual(t, byte('0'), token[0], "Encode(%d) = %q", id, token)
		}
	})

	t.Run("InvalidCharacters", func(t *testing.T) {
		for _, token := range []string{"", "abc-def", "тест", "a b", "!"} {
			_, err := Decode(token)
			assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
		}
	})
}

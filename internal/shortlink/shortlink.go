// Package shortlink maps numeric recipe IDs to short share tokens.
package shortlink

import (
	"errors"
	"strings"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrInvalidToken is returned when a token cannot be decoded back to an ID.
var ErrInvalidToken = errors.New("shortlink: invalid token")

// Encode converts a non-negative ID into its base62 token.
// Encode(0) returns "0"; larger IDs never start with "0".
func Encode(id int64) string {
	if id == 0 {
		return string(alphabet[0])
	}

	var buf [11]byte // enough for any int64
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = alphabet[id%62]
		id /= 62
	}
	return string(buf[i:])
}

// Decode converts a base62 token back into the ID it was encoded from.
func Decode(token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	var id int64
	for _, c := range token {
		idx := strings.IndexRune(alphabet, c)
		if idx < 0 {
			return 0, ErrInvalidToken
		}
		id = id*62 + int64(idx)
	}
	return id, nil
}

package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("todo-test-key")

// Token mints an HS256 credential whose subject is sub. The client never
// verifies signatures, so the key is irrelevant outside tests.
func Token(sub string) string {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	s, err := tok.SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return s
}

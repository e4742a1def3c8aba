package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// mintToken produces the opaque bearer token stored on the user row. It is a
// signed JWT so it is not guessable, but validation is always the row lookup:
// rotating the stored token is what invalidates old sessions, and the claims
// deliberately carry no exp.
func mintToken(secret []byte, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"jti":      uuid.NewString(),
		"iat":      time.Now().Unix(),
	})
	return token.SignedString(secret)
}

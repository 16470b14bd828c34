// Package auth issues and validates the HS256 session tokens handed out at
// login.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edkeeper/classvault/internal/shared"
)

// Claims extends the registered JWT claims with the account email the
// session belongs to.
type Claims struct {
	jwt.RegisteredClaims
	Email string
}

func GenerateToken(email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GetEmailFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", shared.ErrInvalidToken
	}

	return claims.Email, nil
}

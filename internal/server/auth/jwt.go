// Package auth contains the credential primitives of the server: the signed
// token codec and the password hasher. Neither touches the database.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkalinin/userkeeper/internal/common"
)

// Claims carries the standard registered claims plus the authenticated
// user's numeric ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64
}

// GenerateToken mints an HS256-signed token embedding userID and an
// absolute expiry of now + validityDuration. Validation requires only the
// secret key, no server-side state.
func GenerateToken(userID int64, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// UserIDFromToken checks the signature and expiry of tokenString and
// returns the embedded user ID. An expired token yields
// common.ErrTokenExpired; any other failure (bad signature, tampering,
// malformed input, wrong algorithm) yields common.ErrTokenInvalidSignature.
func UserIDFromToken(tokenString string, secretKey []byte) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrTokenInvalidSignature
	}

	if !token.Valid {
		return 0, common.ErrTokenInvalidSignature
	}

	return claims.UserID, nil
}

package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret is injected from config at boot. Tests set it directly.
var JWTSecret []byte

type CustomClaims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 token for a user. The server does not expose
// an issuance endpoint; this exists for the test suite and operational tools.
func GenerateToken(userID uint, role string) (string, error) {
	claims := &CustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "resoi",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

// ParseToken validates a token carried in a request body and returns its
// claims. Any parse or signature failure maps to an unauthorized error.
func ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, NewAppError(KindUnauthorized, "invalid or expired token")
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, NewAppError(KindUnauthorized, "invalid token claims")
	}
	return claims, nil
}

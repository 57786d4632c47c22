package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"allsers_backend/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")

	jwtSecret []byte
	tokenTTL  time.Duration
)

type Claims struct {
	UserID string          `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Init configures the signing secret and token lifetime. Must be called
// once at startup before any token is issued or parsed.
func Init(secret string, ttlMinutes int) {
	jwtSecret = []byte(secret)
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	tokenTTL = time.Duration(ttlMinutes) * time.Minute
}

func GenerateToken(userID string, role models.UserRole) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

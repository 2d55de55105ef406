package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte("secret")

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

type UserClaims struct {
	UserID    string   `json:"user_id"`
	AccountID string   `json:"account_id,omitempty"`
	TimeZone  string   `json:"time_zone,omitempty"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

func GenerateToken(userID, accountID, timeZone string, roles []string) (string, error) {
	claims := UserClaims{
		UserID:    userID,
		AccountID: accountID,
		TimeZone:  timeZone,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		if claims.UserID == "" {
			return nil, jwt.ErrTokenRequiredClaimMissing
		}
		return claims, nil
	}

	return nil, jwt.ErrTokenSignatureInvalid
}

package utils

import (
	"os"
	"time"

	"bocal_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret résout le secret de signature. Le fallback n'existe que pour le
// dev local et les tests ; JWT_SECRET doit être posé en production.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateJWT émet le token de session : user_id, email, role, 24h.
func GenerateJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret())
}

package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"adaayam_back_end/internal/models"
)

// GenerateJWT signe un token de session de 24 heures pour un utilisateur.
func GenerateJWT(user models.User, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

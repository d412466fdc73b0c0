package middleware

import (
	"fmt"
	"time"

	"quill/internal/config"
	"quill/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "quill-api"
	tokenAudience = "quill-client"
)

// Claims are the identity facts carried by a verified token. The role is a
// snapshot taken at issue time; it is deliberately not re-checked against the
// live user record, so a role change only takes effect on the next login.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

// IssueToken produces a signed token embedding the user's identity and role.
// A zero TokenTTLHours disables the expiry claim.
func IssueToken(cfg *config.Config, user *models.User) (string, error) {
	if cfg.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iss":   tokenIssuer,
		"aud":   tokenAudience,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}
	if cfg.TokenTTLHours > 0 {
		claims["exp"] = now.Add(time.Duration(cfg.TokenTTLHours) * time.Hour).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// VerifyToken validates the signature and structure of a token and extracts
// its claims. Any failure is terminal for the request.
func VerifyToken(cfg *config.Config, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthenticatedError("Invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthenticatedError("Invalid token claims")
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, models.NewUnauthenticatedError("Invalid token structure - missing subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, models.NewUnauthenticatedError("Invalid user ID in token")
	}

	email, _ := mapClaims["email"].(string)

	roleStr, ok := mapClaims["role"].(string)
	if !ok || !models.Role(roleStr).Valid() {
		return nil, models.NewUnauthenticatedError("Invalid role in token")
	}

	return &Claims{
		UserID: userID,
		Email:  email,
		Role:   models.Role(roleStr),
	}, nil
}

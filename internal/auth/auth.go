// Package auth provides password hashing and JWT issuance/verification.
package auth

import (
	"errors"
	"fmt"
	"time"

	"portfolio/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenLifetime is the validity window of issued tokens.
	TokenLifetime = 7 * 24 * time.Hour

	issuer = "portfolio-api"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the decoded payload of a verified token.
type Claims struct {
	UserID    uint
	Username  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Service issues and verifies tokens with a server-side HMAC secret.
type Service struct {
	secret []byte
}

// NewService creates an auth service signing with the given secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword verifies a plaintext password against a bcrypt hash.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// GenerateToken creates a signed JWT asserting the user's id, username and role.
func (s *Service) GenerateToken(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"userId":   user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iss":      issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(TokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken checks signature and expiry and returns the decoded claims.
// Any malformed, expired or mis-signed token yields ErrInvalidToken; this
// function never panics past its boundary.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := mapClaims["userId"].(float64)
	if !ok || userID <= 0 {
		return nil, ErrInvalidToken
	}
	username, ok := mapClaims["username"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		UserID:   uint(userID),
		Username: username,
		Role:     role,
	}
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}

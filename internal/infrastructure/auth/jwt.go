package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iho/walletledger/internal/domain"
)

// Issuer is set on every token this service issues and required on every
// token it accepts.
const Issuer = "walletledger"

// Claims represents the JWT claims
type Claims struct {
	Email string      `json:"email,omitempty"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// User converts the claims into the principal seen by handlers.
func (c *Claims) User() *domain.User {
	return &domain.User{ID: c.Subject, Email: c.Email, Role: c.Role}
}

// JWTManager manages JWT token creation and validation
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Generate issues a token for user valid for the manager's default duration.
func (m *JWTManager) Generate(user *domain.User) (string, error) {
	return m.GenerateWithTTL(user, m.tokenDuration)
}

// GenerateWithTTL issues a token for user valid for ttl.
func (m *JWTManager) GenerateWithTTL(user *domain.User, ttl time.Duration) (string, error) {
	if user == nil || user.ID == "" {
		return "", fmt.Errorf("%w: subject is required", domain.ErrInvalidToken)
	}
	if !user.Role.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q", domain.ErrInvalidToken, user.Role)
	}

	now := m.now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify verifies a JWT token and returns the claims
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || !claims.Role.IsValid() {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

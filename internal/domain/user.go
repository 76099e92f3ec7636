package domain

import (
	"context"
	"errors"
)

// User is the authenticated principal calling the ledger. Users are managed
// by the identity service; the ledger only sees the token claims.
type User struct {
	ID    string
	Email string
	Role  Role
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin can resolve transactions and adjust any wallet
	RoleAdmin Role = "admin"

	// RoleUser can submit requests against their own wallets
	RoleUser Role = "user"
)

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CanResolve checks if the role can approve or decline transactions
func (r Role) CanResolve() bool {
	return r == RoleAdmin
}

// CanViewAll checks if the role can read other owners' records
func (r Role) CanViewAll() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

type userContextKey struct{}

// ContextWithUser stores the authenticated user in ctx.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext extracts the authenticated user from ctx.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*User)
	return u, ok && u != nil
}

package models

import "github.com/google/uuid"

// Principal is the acting identity for a request: either a registered
// user or an anonymous guest session identified by an opaque token.
// Exactly one of the two identifies a cart at any time. It is resolved
// once at the HTTP boundary and passed explicitly into every cart and
// order operation.
type Principal struct {
	UserID     uuid.UUID
	Email      string
	Role       string
	GuestToken string
}

// UserPrincipal returns a principal for an authenticated user.
func UserPrincipal(id uuid.UUID, email, role string) Principal {
	return Principal{UserID: id, Email: email, Role: role}
}

// GuestPrincipal returns a principal for an anonymous guest session.
func GuestPrincipal(token string) Principal {
	return Principal{GuestToken: token}
}

// IsUser reports whether the principal is an authenticated user.
func (p Principal) IsUser() bool {
	return p.UserID != uuid.Nil
}

// IsAdmin reports whether the principal is an administrator.
func (p Principal) IsAdmin() bool {
	return p.IsUser() && p.Role == RoleAdmin
}

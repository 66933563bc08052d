package shared

import "context"

// Identity describes the authenticated principal attached to a request.
// Exactly one of AdminID or UserID is set.
type Identity struct {
	AdminID  int64
	UserID   int64
	Username string
	Role     string
	UserType string
}

// IsAdmin reports whether the identity belongs to an admin account.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.AdminID != 0
}

// IsUser reports whether the identity belongs to a regular user account.
func (id *Identity) IsUser() bool {
	return id != nil && id.UserID != 0
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}

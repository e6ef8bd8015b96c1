package middleware

// ContextKey is a private key type for request-context values, so handler
// lookups cannot collide with keys set by other packages.
type ContextKey string

const (
	// UserIDCtxKey holds the authenticated user's ID, set by JWTAuth.
	UserIDCtxKey = ContextKey("user_id")

	// UserRoleCtxKey holds the authenticated user's role claim, set by JWTAuth.
	UserRoleCtxKey = ContextKey("user_role")
)

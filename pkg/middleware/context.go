package middleware

import "context"

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// WithUserID stores the authenticated user's ID in the context. The auth
// middleware calls this after verifying the bearer token.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the user ID from the request context.
// Returns an empty string when the request is anonymous.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

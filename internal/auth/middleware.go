package auth

import (
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/httputil"
	"github.com/tausif1337/remart/pkg/middleware"
)

// Middleware returns HTTP middleware that verifies the Authorization bearer
// ID token and stores the authenticated user ID in the request context.
// Requests without a valid token are rejected with 401.
func Middleware(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), logger)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("malformed authorization header"), logger)
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.WarnContext(r.Context(), "token verification failed",
					slog.String("error", err.Error()),
				)
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"), logger)
				return
			}

			ctx := middleware.WithUserID(r.Context(), identity.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

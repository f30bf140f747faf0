package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/auth"
)

type ctxKey int

const userKey ctxKey = 0

// UserFrom returns the authenticated user placed by RequireUser.
func UserFrom(ctx context.Context) (*auth.User, bool) {
	u, ok := ctx.Value(userKey).(*auth.User)
	return u, ok
}

// RequireUser verifies the bearer token and injects the resolved user
// into the request context. Missing or invalid credentials get a 401.
func RequireUser(verifier auth.Verifier, logger *zap.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := verifier.Verify(r.Context(), token)
		if err != nil {
			logger.Debug("token verification failed", zap.Error(err))
			writeDetail(w, http.StatusUnauthorized, "Invalid authentication credentials")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

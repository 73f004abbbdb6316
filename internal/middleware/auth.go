package middleware

import (
	"net/http"
	"strings"

	"github.com/critterpost/critterpost/internal/ctxkeys"
	"github.com/critterpost/critterpost/internal/service"
)

// AuthMiddleware resolves a Bearer access token into a user on the request
// context. Requests without a valid token continue unauthenticated; RequireAuth
// decides whether that is acceptable for a route.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.UserFromAccessToken(tokenString)
			if err != nil {
				// Invalid or expired token, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			// Handlers receive the resolved identity; they never re-verify tokens
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with a 401 JSON body.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", "Bearer")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"not authenticated"}`))
			return
		}

		next.ServeHTTP(w, r)
	}
}

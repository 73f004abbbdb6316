package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/critterpost/critterpost/internal/ctxkeys"
)

// RequestID assigns each request a correlation id, honoring one supplied by
// the caller, and echoes it back in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", id)

		ctx := ctxkeys.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

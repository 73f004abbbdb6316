package middleware

import "net/http"

// Chain applies middleware in order (first wraps outermost, executes first).
//
// Example:
//
//	handler := Chain(mux,
//	    RequestID,          // Executes first
//	    RequestLogging,     // Executes second
//	    AuthMiddleware(...),
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	// Apply middleware in reverse order so they execute in the order provided
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

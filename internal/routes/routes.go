package routes

import (
	"net/http"

	"github.com/critterpost/critterpost/internal/app"
	"github.com/critterpost/critterpost/internal/handler"
	"github.com/critterpost/critterpost/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	post := handler.NewPostHandler(app.PostService)
	upload := handler.NewUploadHandler(app.Storage)

	mux := http.NewServeMux()

	// Auth (rate limited: registration and login are abuse magnets)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /token", rateLimiter(auth.Login))
	mux.HandleFunc("GET /confirm/{token}", auth.ConfirmEmail)

	// Posts
	mux.HandleFunc("POST /post", middleware.RequireAuth(post.Create))
	mux.HandleFunc("GET /post", post.List)
	mux.HandleFunc("GET /post/{post_id}", post.Get)
	mux.HandleFunc("GET /post/{post_id}/comment", post.Comments)

	// Comments
	mux.HandleFunc("POST /comment", middleware.RequireAuth(post.CreateComment))

	// Likes
	mux.HandleFunc("POST /like", middleware.RequireAuth(post.Like))
	mux.HandleFunc("GET /like/{post_id}", post.Likes)

	// Media uploads
	mux.HandleFunc("POST /upload", middleware.RequireAuth(upload.Upload))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
	)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/critterpost/critterpost/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{
		authService: authService,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an unconfirmed user and schedules the confirmation email.
func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	_, err = h.authService.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"detail": "User created. Please confirm your email.",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a short-lived access token.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	accessToken, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// ConfirmEmail completes registration via the emailed confirmation link.
func (h *authHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	tokenString := r.PathValue("token")

	err := h.authService.ConfirmEmail(tokenString)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "User confirmed"})
}

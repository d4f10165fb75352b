package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Bidon15/piedpiper/internal/middleware"
	"github.com/Bidon15/piedpiper/internal/pkg/response"
	"github.com/Bidon15/piedpiper/internal/service"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    newValidator(),
		logger:      logger,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.OK(w, user)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	result, err := h.authService.Login(r.Context(), middleware.NewRequestContext(r), req)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.OK(w, result)
}

// Logout handles POST /logout. The token is not verified so expired
// tokens can still be cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.authService.Logout(r.Context(), middleware.BearerToken(r))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.OK(w, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}

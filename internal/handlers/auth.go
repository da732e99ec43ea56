package handlers

import (
	"net/http"

	"Gallerist/internal/config"
	"Gallerist/internal/middleware"
	"Gallerist/internal/model"
	"Gallerist/internal/response"
	"Gallerist/internal/service"

	"go.uber.org/zap"
)

type AuthHandler struct {
	AuthService *service.AuthService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewAuthHandler(authService *service.AuthService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{AuthService: authService, Logger: logger, Config: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	Admin *model.Admin `json:"admin"`
	Token string       `json:"token,omitempty"`
}

// Login выдаёт токен по логину и паролю
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	admin, token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.Logger, !h.Config.IsProduction(), err, "Error logging in")
		return
	}
	h.Logger.Infow("admin logged in", "admin_id", admin.ID)
	response.OK(w, http.StatusOK, "Login successful", authPayload{Admin: admin, Token: token})
}

// Register создаёт администратора (только для первичной настройки)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	admin, token, err := h.AuthService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, !h.Config.IsProduction(), err, "Error registering admin")
		return
	}
	response.OK(w, http.StatusCreated, "Admin registered successfully", authPayload{Admin: admin, Token: token})
}

// Verify возвращает администратора по текущему токену
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.AdminFromContext(r.Context())
	response.OK(w, http.StatusOK, "", authPayload{Admin: admin})
}

// Logout — токен просто забывается клиентом
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	response.OK(w, http.StatusOK, "Logout successful", nil)
}

package admin

import (
	"net/http"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/handler"
)

// AuthHandler authenticates admins and manages their accounts.
type AuthHandler struct {
	admins domain.AdminService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(admins domain.AdminService) *AuthHandler {
	return &AuthHandler{admins: admins}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login. It is the only route here without a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, result)
}

// Verify handles GET /auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.admins.Verify(r.Context(), domain.PrincipalFromContext(r.Context()))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterAdminRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.admins.Register(r.Context(), domain.PrincipalFromContext(r.Context()), req)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ChangePasswordRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if err := h.admins.ChangePassword(r.Context(), domain.PrincipalFromContext(r.Context()), req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

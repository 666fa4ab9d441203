package handlers

import (
	"encoding/json"
	"net/http"

	"catan-tracker/internal/auth"
)

type AuthHandler struct {
	jwtService      *auth.JWTService
	passwordService *auth.PasswordService
	editorHash      string
}

func NewAuthHandler(jwtService *auth.JWTService, passwordService *auth.PasswordService, editorHash string) *AuthHandler {
	return &AuthHandler{
		jwtService:      jwtService,
		passwordService: passwordService,
		editorHash:      editorHash,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

// Login exchanges the shared editor password for an access token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.passwordService.ComparePassword(h.editorHash, req.Password); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtService.GenerateAccessToken("editor")
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresIn: int(h.jwtService.GetAccessTTL().Seconds()),
	})
}

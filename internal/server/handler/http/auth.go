// Package http provides the HTTP handlers and router of the AI Workspace
// backend.
package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/AIWorkspace/internal/models"
	"github.com/atinyakov/AIWorkspace/internal/service"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Signup creates the identity and the employee account.
	Signup(ctx context.Context, in service.SignupInput) (*models.Account, error)
	// Login verifies the credentials and returns the account.
	Login(ctx context.Context, email, password string) (*models.Account, error)
}

// AuthHandler handles signup and login requests.
type AuthHandler struct {
	AuthService AuthService
}

// SignupRequest is the JSON payload of POST /signup.
type SignupRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,maxbytes=72"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
}

// LoginRequest is the JSON payload of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	acc, err := h.AuthService.Signup(r.Context(), service.SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, "user", acc.Public())
}

// Login handles POST /login. The response never carries the credential.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	acc, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, "user", acc.Public())
}

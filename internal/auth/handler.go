package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wolfman30/contact-crm/internal/http/respond"
	"github.com/wolfman30/contact-crm/pkg/logging"
)

// Handler serves POST /login.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on success.
type LoginResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	User    string `json:"user"`
	Token   string `json:"token,omitempty"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, ErrMissingCredentials):
		respond.Error(w, http.StatusBadRequest, "Email and password required")
		return
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case errors.Is(err, ErrCredentialsNotConfigured):
		h.logger.Error("login unavailable", "error", err)
		respond.Error(w, http.StatusInternalServerError, "User config not found")
		return
	default:
		h.logger.Error("login failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	respond.JSON(w, http.StatusOK, LoginResponse{
		Status:  "success",
		Message: "Login successful",
		User:    sess.User,
		Token:   sess.Token,
	})
}

// Package http provides the HTTP handlers of the identity stub:
// owner registration and token introspection.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atinyakov/ownerhub/internal/middleware"
	"github.com/atinyakov/ownerhub/internal/models"
	"github.com/atinyakov/ownerhub/internal/service"
)

// Messages returned to clients. The client shows them verbatim.
const (
	msgInvalidRequest   = "Solicitud inválida"
	msgInvalidEmail     = "El usuario debe ser un e-mail válido"
	msgShortPassword    = "La contraseña debe tener al menos 6 caracteres"
	msgOwnerExists      = "El usuario ya existe"
	msgInternalError    = "internal error"
	msgNotAuthenticated = "not authenticated"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// RegisterOwner registers a new owner and issues a session token.
	RegisterOwner(ctx context.Context, username, password string) (models.Owner, error)
}

// AuthHandler handles owner registration and introspection requests.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log records unexpected failures. Nil discards them.
	Log      *zap.Logger
	validate *validator.Validate
}

// NewAuthHandler returns a handler over svc.
func NewAuthHandler(svc AuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{AuthService: svc, Log: log, validate: validator.New()}
}

// Register handles owner registration requests.
// It expects a JSON body {"username", "password"}; the username must be
// an e-mail and the password at least six characters long. Client
// errors are answered with 400 (invalid input) or 409 (username taken)
// and a plain text message. On success it responds with the owner and
// its session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, msgInvalidRequest, http.StatusBadRequest)
		return
	}
	if msg := h.validationMessage(req); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	owner, err := h.AuthService.RegisterOwner(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrOwnerExists) {
		http.Error(w, msgOwnerExists, http.StatusConflict)
		return
	}
	if err != nil {
		h.logger().Error("failed to register owner", zap.String("username", req.Username), zap.Error(err))
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(owner)
}

// Me responds with the owner authenticated by middleware.TokenAuth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	owner, ok := middleware.GetOwnerFromContext(r.Context())
	if !ok {
		http.Error(w, msgNotAuthenticated, http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(owner)
}

func (h *AuthHandler) validationMessage(req models.RegisterRequest) string {
	v := h.validate
	if v == nil {
		v = validator.New()
	}
	err := v.Struct(req)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgInvalidRequest
	}
	switch verrs[0].Field() {
	case "Username":
		return msgInvalidEmail
	case "Password":
		return msgShortPassword
	}
	return msgInvalidRequest
}

func (h *AuthHandler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}

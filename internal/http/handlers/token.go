package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ecollinet/chasse-backend/internal/auth"
	"github.com/ecollinet/chasse-backend/internal/http/respond"
	"github.com/ecollinet/chasse-backend/internal/models/dto"
)

// TokenHandler exchanges the shared admin token for a short-lived JWT. The
// route itself sits behind the admin guard, so reaching the handler means
// the caller already presented a valid credential.
type TokenHandler struct {
	tokens *auth.TokenManager
	log    *slog.Logger
}

// NewTokenHandler constructs the handler.
func NewTokenHandler(tokens *auth.TokenManager, log *slog.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, log: log}
}

// Register wires the token route, wrapped with the given guard.
func (h *TokenHandler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.Handle("POST /api/auth/token", guard(http.HandlerFunc(h.handleExchange)))
}

func (h *TokenHandler) handleExchange(w http.ResponseWriter, _ *http.Request) {
	token, err := h.tokens.Generate()
	if err != nil {
		h.log.Error("generate admin token", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
	})
}

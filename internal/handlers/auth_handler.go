package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/donteatkebab/backend/internal/models"
	"github.com/donteatkebab/backend/internal/services"
)

type AuthHandler struct {
	identity services.IdentityProvider
	log      zerolog.Logger
}

func NewAuthHandler(identity services.IdentityProvider, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	ident, err := h.identity.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		h.log.Warn().Err(err).Msg("registration failed")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.RegisterResponse{
		Message: "Registration successful",
		User:    *ident,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	session, err := h.identity.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, session)
}

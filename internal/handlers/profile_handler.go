package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/donteatkebab/backend/internal/middleware"
	"github.com/donteatkebab/backend/internal/models"
	"github.com/donteatkebab/backend/internal/services"
)

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

type ProfileHandler struct {
	profiles       services.ProfileStore
	avatars        services.AvatarStore
	maxUploadBytes int64
	log            zerolog.Logger
}

func NewProfileHandler(profiles services.ProfileStore, avatars services.AvatarStore, maxUploadBytes int64, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:       profiles,
		avatars:        avatars,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// GetProfile returns the caller's profile, creating it on first access.
// The email field always reflects the identity provider, not the stored row.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID != ident.ID {
		writeError(w, http.StatusForbidden, "Not authorized to view this profile")
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	prof, err := h.profiles.GetOrCreate(ctx, userID, ident.Email)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("load profile")
		if errors.Is(err, services.ErrProfileCreateFailed) {
			writeError(w, http.StatusNotFound, "Failed to create profile")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	prof.Email = ident.Email
	writeJSON(w, http.StatusOK, prof)
}

// UpdateProfile upserts the editable profile fields and stamps updated_at.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID != ident.ID {
		writeError(w, http.StatusForbidden, "Not authorized to update this profile")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	prof, err := h.profiles.Upsert(ctx, userID, &req)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("update profile")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

// UploadAvatar stores the avatar object under {user_id}.{ext} and points the
// profile row at its public URL.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID != ident.ID {
		writeError(w, http.StatusForbidden, "Not authorized to update this profile")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		writeError(w, http.StatusBadRequest,
			"File type "+contentType+" not allowed. Allowed types: "+strings.Join(allowedTypeList(), ", "))
		return
	}

	if header.Size == 0 {
		writeError(w, http.StatusBadRequest, "File is empty")
		return
	}
	if header.Size > h.maxUploadBytes {
		writeError(w, http.StatusBadRequest, "File too large. Maximum size is 5MB")
		return
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	key := userID + ext
	url, err := h.avatars.Upload(ctx, key, contentType, file)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("avatar upload")
		writeError(w, http.StatusInternalServerError, "Storage operation failed: "+err.Error())
		return
	}

	if err := h.profiles.SetAvatarURL(ctx, userID, url); err != nil {
		// Remove the orphaned object so the bucket and the profile row
		// cannot reference different avatars after a failed request.
		if delErr := h.avatars.Delete(ctx, key); delErr != nil {
			h.log.Warn().Err(delErr).Str("key", key).Msg("orphaned avatar cleanup failed")
		}
		h.log.Error().Err(err).Str("user", userID).Msg("avatar profile update")
		writeError(w, http.StatusInternalServerError, "Failed to update profile with avatar URL")
		return
	}

	writeJSON(w, http.StatusOK, models.AvatarResponse{AvatarURL: url})
}

func allowedTypeList() []string {
	return []string{"image/jpeg", "image/png", "image/jpg"}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/donteatkebab/backend/internal/middleware"
	"github.com/donteatkebab/backend/internal/models"
	"github.com/donteatkebab/backend/internal/services"
)

type WeightHandler struct {
	weights services.WeightStore
	log     zerolog.Logger
}

func NewWeightHandler(weights services.WeightStore, log zerolog.Logger) *WeightHandler {
	return &WeightHandler{weights: weights, log: log}
}

// LogWeight upserts a weight entry for the caller. The log date defaults to
// today; resubmission for the same day overwrites.
func (h *WeightHandler) LogWeight(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req models.LogWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Weight must be between 0 and 1000 kg")
		return
	}

	logDate := models.Today()
	if req.LogDate != nil {
		logDate = *req.LogDate
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	row, err := h.weights.Upsert(ctx, ident.ID, logDate, req.Weight)
	if err != nil {
		h.log.Error().Err(err).Str("user", ident.ID).Msg("log weight")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// ListWeights returns a user's entries newest-first, optionally bounded by
// inclusive start_date/end_date query params.
func (h *WeightHandler) ListWeights(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var start, end *models.Date
	if s := r.URL.Query().Get("start_date"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		start = &d
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		end = &d
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	logs, err := h.weights.ListByUser(ctx, userID, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("list weights")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/donteatkebab/backend/internal/models"
	"github.com/donteatkebab/backend/internal/services"
)

type UsersHandler struct {
	profiles services.ProfileStore
	weights  services.WeightStore
	log      zerolog.Logger
}

func NewUsersHandler(profiles services.ProfileStore, weights services.WeightStore, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{profiles: profiles, weights: weights, log: log}
}

// ListUsers returns every profile with at most one weight entry attached
// for the requested date (default today), joined in memory.
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	target := models.Today()
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		target = d
	}

	ctx, cancel := contextWithTimeout(r.Context())
	defer cancel()

	profiles, err := h.profiles.ListAll(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("list profiles")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logs, err := h.weights.ListByDate(ctx, target)
	if err != nil {
		h.log.Error().Err(err).Msg("list weights by date")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	weightByUser := make(map[string]float64, len(logs))
	for _, l := range logs {
		weightByUser[l.UserID] = l.Weight
	}

	users := make([]models.UserWithWeight, 0, len(profiles))
	for _, p := range profiles {
		u := models.UserWithWeight{Profile: p}
		if weight, ok := weightByUser[p.ID]; ok {
			u.WeightLogs = []models.WeightSnapshot{{Weight: weight, LogDate: target}}
		}
		users = append(users, u)
	}

	writeJSON(w, http.StatusOK, users)
}

package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/beach-cup/export"
	"github.com/Dosada05/beach-cup/services"
)

type SeasonHandler struct {
	seasonService services.SeasonService
}

func NewSeasonHandler(s services.SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonService: s}
}

// LeaderboardHandler handles GET /api/season-leaderboard
func (h *SeasonHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.seasonService.Leaderboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportHandler handles GET /api/season-leaderboard/export.xlsx
func (h *SeasonHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.seasonService.ExportLeaderboard(r.Context(), &buf); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.LeaderboardFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HistoryHandler handles GET /api/tournament-history?limit=N
func (h *SeasonHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := readLimit(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.seasonService.History(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlayerHistoryHandler handles GET /api/players/{name}/history
func (h *SeasonHandler) PlayerHistoryHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	history, err := h.seasonService.PlayerHistory(r.Context(), name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"player_name": name, "history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DashboardHandler handles GET /api/dashboard
func (h *SeasonHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := readLimit(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	dash, err := h.seasonService.Dashboard(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, dash, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetSequenceHandler handles POST /api/admin/reset-sequence
func (h *SeasonHandler) ResetSequenceHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.seasonService.ResetSequence(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "tournament id sequence reset"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// readLimit returns 0 when the limit query parameter is absent.
func readLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.New("invalid limit query parameter")
	}
	return limit, nil
}

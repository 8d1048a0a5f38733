package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/beach-cup/models"
	"github.com/Dosada05/beach-cup/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

type startTournamentInput struct {
	PlayerNames []string `json:"player_names"`
}

type updateSetInput struct {
	Team  models.Team `json:"team"`
	Score scoreValue  `json:"score"`
}

// scoreValue accepts a score sent as a JSON number or a string.
type scoreValue string

func (s *scoreValue) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = scoreValue(str)
		return nil
	}
	if string(data) == "null" {
		*s = ""
		return nil
	}
	*s = scoreValue(data)
	return nil
}

type gameSetsInput struct {
	Sets []models.SetResult `json:"sets"`
}

type scoreTournamentInput struct {
	PlayerNames []string        `json:"player_names"`
	Games       []gameSetsInput `json:"games"`
}

// CreateHandler handles POST /api/tournaments
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input startTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.tournamentService.StartTournament(r.Context(), input.PlayerNames)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetHandler handles GET /api/tournaments/{sessionID}
func (h *TournamentHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.tournamentService.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddSetHandler handles POST /api/tournaments/{sessionID}/games/{game}/sets
func (h *TournamentHandler) AddSetHandler(w http.ResponseWriter, r *http.Request) {
	game, err := getPositiveIntParam(r, "game")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.tournamentService.AddSet(r.Context(), chi.URLParam(r, "sessionID"), game)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateSetHandler handles PUT /api/tournaments/{sessionID}/games/{game}/sets/{set}.
// Sets are numbered from 1 in the path.
func (h *TournamentHandler) UpdateSetHandler(w http.ResponseWriter, r *http.Request) {
	game, err := getPositiveIntParam(r, "game")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	set, err := getPositiveIntParam(r, "set")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updateSetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !input.Team.Valid() {
		badRequestResponse(w, r, errors.New("team must be 1 or 2"))
		return
	}

	session, err := h.tournamentService.UpdateSetScore(r.Context(), chi.URLParam(r, "sessionID"), game, set-1, input.Team, string(input.Score))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveSetHandler handles DELETE /api/tournaments/{sessionID}/games/{game}/sets/{set}
func (h *TournamentHandler) RemoveSetHandler(w http.ResponseWriter, r *http.Request) {
	game, err := getPositiveIntParam(r, "game")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	set, err := getPositiveIntParam(r, "set")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.tournamentService.RemoveSet(r.Context(), chi.URLParam(r, "sessionID"), game, set-1)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler handles GET /api/tournaments/{sessionID}/standings
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := h.tournamentService.Standings(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitHandler handles POST /api/tournaments/{sessionID}/submit
func (h *TournamentHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	submitted, err := h.tournamentService.Submit(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	env := jsonResponse{
		"tournament_id": submitted.Result.ID,
		"result":        submitted.Result,
		"standings":     submitted.Standings,
	}
	if err := writeJSON(w, http.StatusCreated, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ScoreAndSaveHandler handles POST /api/tournament-results. Only names and sets are
// accepted; standings are always recomputed from the sets.
func (h *TournamentHandler) ScoreAndSaveHandler(w http.ResponseWriter, r *http.Request) {
	var input scoreTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sets := make([][]models.SetResult, len(input.Games))
	for i, g := range input.Games {
		sets[i] = g.Sets
	}

	submitted, err := h.tournamentService.ScoreAndSave(r.Context(), input.PlayerNames, sets)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	env := jsonResponse{
		"tournament_id": submitted.Result.ID,
		"result":        submitted.Result,
		"standings":     submitted.Standings,
	}
	if err := writeJSON(w, http.StatusCreated, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

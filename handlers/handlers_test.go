package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/beach-cup/models"
	"github.com/Dosada05/beach-cup/scoring"
	"github.com/Dosada05/beach-cup/services"
)

func newTestRouter(ts services.TournamentService, ss services.SeasonService, db Pinger) *chi.Mux {
	th := NewTournamentHandler(ts)
	sh := NewSeasonHandler(ss)
	hh := NewHealthHandler(db)

	r := chi.NewRouter()
	r.Get("/healthz", hh.Healthz)
	r.Post("/api/tournaments", th.CreateHandler)
	r.Get("/api/tournaments/{sessionID}", th.GetHandler)
	r.Get("/api/tournaments/{sessionID}/standings", th.StandingsHandler)
	r.Post("/api/tournaments/{sessionID}/submit", th.SubmitHandler)
	r.Post("/api/tournaments/{sessionID}/games/{game}/sets", th.AddSetHandler)
	r.Put("/api/tournaments/{sessionID}/games/{game}/sets/{set}", th.UpdateSetHandler)
	r.Delete("/api/tournaments/{sessionID}/games/{game}/sets/{set}", th.RemoveSetHandler)
	r.Post("/api/tournament-results", th.ScoreAndSaveHandler)
	r.Get("/api/season-leaderboard", sh.LeaderboardHandler)
	r.Get("/api/season-leaderboard/export.xlsx", sh.ExportHandler)
	r.Get("/api/tournament-history", sh.HistoryHandler)
	r.Get("/api/players/{name}/history", sh.PlayerHistoryHandler)
	r.Get("/api/dashboard", sh.DashboardHandler)
	r.Post("/api/admin/reset-sequence", sh.ResetSequenceHandler)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateHandler(t *testing.T) {
	var gotNames []string
	ts := &FakeTournamentService{
		StartTournamentFunc: func(ctx context.Context, names []string) (*models.TournamentSession, error) {
			gotNames = names
			return &models.TournamentSession{ID: "s-1", PlayerNames: names}, nil
		},
	}
	router := newTestRouter(ts, &FakeSeasonService{}, &FakePinger{})

	rec := do(t, router, http.MethodPost, "/api/tournaments", `{"player_names":["A","B","C","D"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"A", "B", "C", "D"}, gotNames)
	session := decode(t, rec)["session"].(map[string]interface{})
	assert.Equal(t, "s-1", session["id"])
}

func TestCreateHandler_BadRequests(t *testing.T) {
	ts := &FakeTournamentService{
		StartTournamentFunc: func(ctx context.Context, names []string) (*models.TournamentSession, error) {
			return nil, fmt.Errorf("%w: need exactly 4 player names", scoring.ErrInvalidInput)
		},
	}
	router := newTestRouter(ts, &FakeSeasonService{}, &FakePinger{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"player_names":`},
		{"unknown key", `{"names":["A"]}`},
		{"empty body", ``},
		{"service rejects names", `{"player_names":["A","B","C"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/tournaments", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode(t, rec), "error")
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", fmt.Errorf("%w: bad", scoring.ErrInvalidInput), http.StatusBadRequest},
		{"not scoreable", scoring.ErrNotScoreable, http.StatusUnprocessableEntity},
		{"session missing", services.ErrSessionNotFound, http.StatusNotFound},
		{"persistence", fmt.Errorf("%w: db down", services.ErrPersistenceFailure), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := &FakeTournamentService{
				StandingsFunc: func(ctx context.Context, id string) ([]models.PlayerStats, error) { return nil, tt.err },
			}
			rec := do(t, newTestRouter(ts, &FakeSeasonService{}, &FakePinger{}), http.MethodGet, "/api/tournaments/s-1/standings", "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestServerErrorHidesDetails(t *testing.T) {
	ss := &FakeSeasonService{
		LeaderboardFunc: func(ctx context.Context) ([]*models.LeaderboardRow, error) {
			return nil, fmt.Errorf("%w: pq: password authentication failed", services.ErrPersistenceFailure)
		},
	}
	rec := do(t, newTestRouter(&FakeTournamentService{}, ss, &FakePinger{}), http.MethodGet, "/api/season-leaderboard", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUpdateSetHandler(t *testing.T) {
	type call struct {
		id        string
		game, set int
		team      models.Team
		rawScore  string
	}
	var calls []call
	ts := &FakeTournamentService{
		UpdateSetScoreFunc: func(ctx context.Context, id string, game, set int, team models.Team, raw string) (*models.TournamentSession, error) {
			calls = append(calls, call{id, game, set, team, raw})
			return &models.TournamentSession{ID: id}, nil
		},
	}
	router := newTestRouter(ts, &FakeSeasonService{}, &FakePinger{})

	rec := do(t, router, http.MethodPut, "/api/tournaments/s-1/games/2/sets/1", `{"team":1,"score":21}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodPut, "/api/tournaments/s-1/games/2/sets/3", `{"team":2,"score":"19"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodPut, "/api/tournaments/s-1/games/2/sets/3", `{"team":2,"score":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []call{
		{"s-1", 2, 0, models.Team1, "21"},
		{"s-1", 2, 2, models.Team2, "19"},
		{"s-1", 2, 2, models.Team2, "abc"},
	}, calls)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/tournaments/s-1/games/2/sets/0", `{"team":1,"score":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/tournaments/s-1/games/x/sets/1", `{"team":1,"score":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/tournaments/s-1/games/1/sets/1", `{"team":0,"score":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/tournaments/s-1/games/1/sets/1", `{"team":3,"score":1}`).Code)
	assert.Len(t, calls, 3)
}

func TestAddAndRemoveSetHandlers(t *testing.T) {
	var added, removed []int
	ts := &FakeTournamentService{
		AddSetFunc: func(ctx context.Context, id string, game int) (*models.TournamentSession, error) {
			added = append(added, game)
			return &models.TournamentSession{ID: id}, nil
		},
		RemoveSetFunc: func(ctx context.Context, id string, game, set int) (*models.TournamentSession, error) {
			removed = append(removed, game, set)
			return nil, services.ErrSessionNotFound
		},
	}
	router := newTestRouter(ts, &FakeSeasonService{}, &FakePinger{})

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/tournaments/s-1/games/3/sets", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/tournaments/s-1/games/1/sets/2", "").Code)
	assert.Equal(t, []int{3}, added)
	assert.Equal(t, []int{1, 1}, removed)
}

func TestSubmitHandler(t *testing.T) {
	ts := &FakeTournamentService{
		SubmitFunc: func(ctx context.Context, id string) (*services.SubmittedTournament, error) {
			return &services.SubmittedTournament{
				Result:    &models.TournamentResult{ID: 17},
				Standings: []models.PlayerStats{{Name: "A", Position: 1}},
			}, nil
		},
	}
	rec := do(t, newTestRouter(ts, &FakeSeasonService{}, &FakePinger{}), http.MethodPost, "/api/tournaments/s-1/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(17), body["tournament_id"])
	assert.Len(t, body["standings"], 1)
}

func TestSubmitHandler_InProgress(t *testing.T) {
	ts := &FakeTournamentService{
		SubmitFunc: func(ctx context.Context, id string) (*services.SubmittedTournament, error) {
			return nil, services.ErrSubmissionInProgress
		},
	}
	rec := do(t, newTestRouter(ts, &FakeSeasonService{}, &FakePinger{}), http.MethodPost, "/api/tournaments/s-1/submit", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestScoreAndSaveHandler(t *testing.T) {
	var gotSets [][]models.SetResult
	ts := &FakeTournamentService{
		ScoreAndSaveFunc: func(ctx context.Context, names []string, sets [][]models.SetResult) (*services.SubmittedTournament, error) {
			gotSets = sets
			return &services.SubmittedTournament{Result: &models.TournamentResult{ID: 3}}, nil
		},
	}
	router := newTestRouter(ts, &FakeSeasonService{}, &FakePinger{})

	body := `{"player_names":["A","B","C","D"],"games":[
		{"sets":[{"team1_score":21,"team2_score":15}]},
		{"sets":[{"team1_score":10,"team2_score":21}]},
		{"sets":[{"team1_score":21,"team2_score":19}]}]}`
	rec := do(t, router, http.MethodPost, "/api/tournament-results", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, gotSets, 3)
	assert.Equal(t, models.SetResult{Team1Score: 10, Team2Score: 21}, gotSets[1][0])

	forged := `{"player_names":["A","B","C","D"],"games":[],"standings":[{"name":"A","position":1}]}`
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/tournament-results", forged).Code)
}

func TestHistoryHandler_Limit(t *testing.T) {
	var limits []int
	ss := &FakeSeasonService{
		HistoryFunc: func(ctx context.Context, limit int) ([]*models.TournamentResult, error) {
			limits = append(limits, limit)
			return []*models.TournamentResult{}, nil
		},
	}
	router := newTestRouter(&FakeTournamentService{}, ss, &FakePinger{})

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/tournament-history", "").Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/tournament-history?limit=25", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/tournament-history?limit=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, "/api/tournament-history?limit=-1", "").Code)
	assert.Equal(t, []int{0, 25}, limits)
}

func TestPlayerHistoryHandler(t *testing.T) {
	ss := &FakeSeasonService{
		PlayerHistoryFunc: func(ctx context.Context, name string) ([]*models.TournamentPlayerPoints, error) {
			return []*models.TournamentPlayerPoints{{PlayerName: name, Placement: 2, PlayerPoints: 3}}, nil
		},
	}
	rec := do(t, newTestRouter(&FakeTournamentService{}, ss, &FakePinger{}), http.MethodGet, "/api/players/Anna/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Anna", body["player_name"])
	assert.Len(t, body["history"], 1)
}

func TestExportHandler(t *testing.T) {
	ss := &FakeSeasonService{
		ExportLeaderboardFunc: func(ctx context.Context, w io.Writer) error {
			_, err := w.Write([]byte("PK-xlsx"))
			return err
		},
	}
	rec := do(t, newTestRouter(&FakeTournamentService{}, ss, &FakePinger{}), http.MethodGet, "/api/season-leaderboard/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "season-leaderboard.xlsx")
	assert.Equal(t, "PK-xlsx", rec.Body.String())
}

func TestDashboardHandler(t *testing.T) {
	ss := &FakeSeasonService{
		DashboardFunc: func(ctx context.Context, limit int) (*models.Dashboard, error) {
			return &models.Dashboard{
				Leaderboard:       []*models.LeaderboardRow{{PlayerName: "A"}},
				RecentTournaments: []*models.TournamentResult{},
			}, nil
		},
	}
	rec := do(t, newTestRouter(&FakeTournamentService{}, ss, &FakePinger{}), http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["leaderboard"], 1)
	assert.Contains(t, body, "recent_tournaments")
}

func TestResetSequenceHandler(t *testing.T) {
	ss := &FakeSeasonService{
		ResetSequenceFunc: func(ctx context.Context) error { return services.ErrSequenceResetRefused },
	}
	rec := do(t, newTestRouter(&FakeTournamentService{}, ss, &FakePinger{}), http.MethodPost, "/api/admin/reset-sequence", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, newTestRouter(&FakeTournamentService{}, &FakeSeasonService{}, &FakePinger{}), http.MethodPost, "/api/admin/reset-sequence", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	ok := do(t, newTestRouter(&FakeTournamentService{}, &FakeSeasonService{}, &FakePinger{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, ok.Code)

	down := do(t, newTestRouter(&FakeTournamentService{}, &FakeSeasonService{}, &FakePinger{Err: errors.New("no db")}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, down.Code)
}

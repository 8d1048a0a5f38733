package handlers

import (
	"context"
	"io"

	"github.com/Dosada05/beach-cup/models"
	"github.com/Dosada05/beach-cup/services"
)

// ------------------------
// Fake Tournament Service
// ------------------------

type FakeTournamentService struct {
	StartTournamentFunc func(ctx context.Context, playerNames []string) (*models.TournamentSession, error)
	GetSessionFunc      func(ctx context.Context, sessionID string) (*models.TournamentSession, error)
	AddSetFunc          func(ctx context.Context, sessionID string, gameNumber int) (*models.TournamentSession, error)
	UpdateSetScoreFunc  func(ctx context.Context, sessionID string, gameNumber, setIndex int, team models.Team, rawScore string) (*models.TournamentSession, error)
	RemoveSetFunc       func(ctx context.Context, sessionID string, gameNumber, setIndex int) (*models.TournamentSession, error)
	StandingsFunc       func(ctx context.Context, sessionID string) ([]models.PlayerStats, error)
	SubmitFunc          func(ctx context.Context, sessionID string) (*services.SubmittedTournament, error)
	ScoreAndSaveFunc    func(ctx context.Context, playerNames []string, sets [][]models.SetResult) (*services.SubmittedTournament, error)
}

func (f *FakeTournamentService) StartTournament(ctx context.Context, playerNames []string) (*models.TournamentSession, error) {
	if f.StartTournamentFunc != nil {
		return f.StartTournamentFunc(ctx, playerNames)
	}
	return &models.TournamentSession{}, nil
}

func (f *FakeTournamentService) GetSession(ctx context.Context, sessionID string) (*models.TournamentSession, error) {
	if f.GetSessionFunc != nil {
		return f.GetSessionFunc(ctx, sessionID)
	}
	return &models.TournamentSession{ID: sessionID}, nil
}

func (f *FakeTournamentService) AddSet(ctx context.Context, sessionID string, gameNumber int) (*models.TournamentSession, error) {
	if f.AddSetFunc != nil {
		return f.AddSetFunc(ctx, sessionID, gameNumber)
	}
	return &models.TournamentSession{ID: sessionID}, nil
}

func (f *FakeTournamentService) UpdateSetScore(ctx context.Context, sessionID string, gameNumber, setIndex int, team models.Team, rawScore string) (*models.TournamentSession, error) {
	if f.UpdateSetScoreFunc != nil {
		return f.UpdateSetScoreFunc(ctx, sessionID, gameNumber, setIndex, team, rawScore)
	}
	return &models.TournamentSession{ID: sessionID}, nil
}

func (f *FakeTournamentService) RemoveSet(ctx context.Context, sessionID string, gameNumber, setIndex int) (*models.TournamentSession, error) {
	if f.RemoveSetFunc != nil {
		return f.RemoveSetFunc(ctx, sessionID, gameNumber, setIndex)
	}
	return &models.TournamentSession{ID: sessionID}, nil
}

func (f *FakeTournamentService) Standings(ctx context.Context, sessionID string) ([]models.PlayerStats, error) {
	if f.StandingsFunc != nil {
		return f.StandingsFunc(ctx, sessionID)
	}
	return []models.PlayerStats{}, nil
}

func (f *FakeTournamentService) Submit(ctx context.Context, sessionID string) (*services.SubmittedTournament, error) {
	if f.SubmitFunc != nil {
		return f.SubmitFunc(ctx, sessionID)
	}
	return &services.SubmittedTournament{Result: &models.TournamentResult{}}, nil
}

func (f *FakeTournamentService) ScoreAndSave(ctx context.Context, playerNames []string, sets [][]models.SetResult) (*services.SubmittedTournament, error) {
	if f.ScoreAndSaveFunc != nil {
		return f.ScoreAndSaveFunc(ctx, playerNames, sets)
	}
	return &services.SubmittedTournament{Result: &models.TournamentResult{}}, nil
}

// ------------------------
// Fake Season Service
// ------------------------

type FakeSeasonService struct {
	RecordTournamentFunc  func(ctx context.Context, playerNames []string, standings []models.PlayerStats) (*models.TournamentResult, error)
	LeaderboardFunc       func(ctx context.Context) ([]*models.LeaderboardRow, error)
	HistoryFunc           func(ctx context.Context, limit int) ([]*models.TournamentResult, error)
	PlayerHistoryFunc     func(ctx context.Context, playerName string) ([]*models.TournamentPlayerPoints, error)
	DashboardFunc         func(ctx context.Context, limit int) (*models.Dashboard, error)
	ResetSequenceFunc     func(ctx context.Context) error
	ExportLeaderboardFunc func(ctx context.Context, w io.Writer) error
}

func (f *FakeSeasonService) RecordTournament(ctx context.Context, playerNames []string, standings []models.PlayerStats) (*models.TournamentResult, error) {
	if f.RecordTournamentFunc != nil {
		return f.RecordTournamentFunc(ctx, playerNames, standings)
	}
	return &models.TournamentResult{}, nil
}

func (f *FakeSeasonService) Leaderboard(ctx context.Context) ([]*models.LeaderboardRow, error) {
	if f.LeaderboardFunc != nil {
		return f.LeaderboardFunc(ctx)
	}
	return []*models.LeaderboardRow{}, nil
}

func (f *FakeSeasonService) History(ctx context.Context, limit int) ([]*models.TournamentResult, error) {
	if f.HistoryFunc != nil {
		return f.HistoryFunc(ctx, limit)
	}
	return []*models.TournamentResult{}, nil
}

func (f *FakeSeasonService) PlayerHistory(ctx context.Context, playerName string) ([]*models.TournamentPlayerPoints, error) {
	if f.PlayerHistoryFunc != nil {
		return f.PlayerHistoryFunc(ctx, playerName)
	}
	return []*models.TournamentPlayerPoints{}, nil
}

func (f *FakeSeasonService) Dashboard(ctx context.Context, limit int) (*models.Dashboard, error) {
	if f.DashboardFunc != nil {
		return f.DashboardFunc(ctx, limit)
	}
	return &models.Dashboard{}, nil
}

func (f *FakeSeasonService) ResetSequence(ctx context.Context) error {
	if f.ResetSequenceFunc != nil {
		return f.ResetSequenceFunc(ctx)
	}
	return nil
}

func (f *FakeSeasonService) ExportLeaderboard(ctx context.Context, w io.Writer) error {
	if f.ExportLeaderboardFunc != nil {
		return f.ExportLeaderboardFunc(ctx, w)
	}
	return nil
}

// ------------------------
// Fake Pinger
// ------------------------

type FakePinger struct {
	Err error
}

func (f *FakePinger) PingContext(ctx context.Context) error {
	return f.Err
}

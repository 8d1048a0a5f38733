package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/beach-cup/export"
	"github.com/Dosada05/beach-cup/live"
	"github.com/Dosada05/beach-cup/metrics"
	"github.com/Dosada05/beach-cup/models"
	"github.com/Dosada05/beach-cup/repositories"
	"github.com/Dosada05/beach-cup/scoring"
	"github.com/Dosada05/beach-cup/storage"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100

	archiveTimeout = 10 * time.Second
)

// Broadcaster pushes live updates to websocket rooms.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// ResultArchiver keeps a copy of every recorded tournament outside the database.
type ResultArchiver interface {
	Archive(ctx context.Context, result *models.TournamentResult, points []*models.TournamentPlayerPoints) (*storage.UploadResult, error)
}

type SeasonService interface {
	// RecordTournament stores the result, the per-player points and the updated
	// leaderboard rows in one transaction.
	RecordTournament(ctx context.Context, playerNames []string, standings []models.PlayerStats) (*models.TournamentResult, error)
	Leaderboard(ctx context.Context) ([]*models.LeaderboardRow, error)
	History(ctx context.Context, limit int) ([]*models.TournamentResult, error)
	PlayerHistory(ctx context.Context, playerName string) ([]*models.TournamentPlayerPoints, error)
	Dashboard(ctx context.Context, limit int) (*models.Dashboard, error)
	ResetSequence(ctx context.Context) error
	ExportLeaderboard(ctx context.Context, w io.Writer) error
}

// SeasonServiceDeps are the collaborators of the season service. Archive,
// Broadcaster and Metrics are optional.
type SeasonServiceDeps struct {
	Tx           repositories.TxRunner
	Results      repositories.TournamentResultRepository
	PlayerPoints repositories.PlayerPointsRepository
	Leaderboard  repositories.LeaderboardRepository
	Archive      ResultArchiver
	Broadcaster  Broadcaster
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	Now          func() time.Time
}

type seasonService struct {
	tx          repositories.TxRunner
	results     repositories.TournamentResultRepository
	points      repositories.PlayerPointsRepository
	leaderboard repositories.LeaderboardRepository
	archive     ResultArchiver
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

func NewSeasonService(deps SeasonServiceDeps) SeasonService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &seasonService{
		tx:          deps.Tx,
		results:     deps.Results,
		points:      deps.PlayerPoints,
		leaderboard: deps.Leaderboard,
		archive:     deps.Archive,
		broadcaster: deps.Broadcaster,
		metrics:     deps.Metrics,
		logger:      deps.Logger.With().Str("service", "season").Logger(),
		now:         now,
	}
}

func (s *seasonService) RecordTournament(ctx context.Context, playerNames []string, standings []models.PlayerStats) (*models.TournamentResult, error) {
	// Zero dates let the database stamp CURRENT_DATE.
	result, err := scoring.BuildTournamentResult(playerNames, standings, time.Time{})
	if err != nil {
		s.metrics.RecordFailed("invalid_input")
		return nil, err
	}
	points, err := scoring.BuildPlayerPoints(standings, time.Time{})
	if err != nil {
		s.metrics.RecordFailed("invalid_input")
		return nil, err
	}
	now := s.now().UTC()

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.results.Create(ctx, exec, result); err != nil {
			return err
		}
		for _, p := range points {
			p.TournamentResultID = result.ID
			p.Date = result.Date
		}
		if err := s.points.BatchCreate(ctx, exec, points); err != nil {
			return err
		}

		// Locks are taken in name order so two submissions sharing players cannot deadlock.
		ordered := append([]*models.TournamentPlayerPoints(nil), points...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].PlayerName < ordered[j].PlayerName })

		for _, p := range ordered {
			if err := s.accrue(ctx, exec, p, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordFailed("persistence")
		s.logger.Error().Err(err).Strs("players", playerNames).Msg("failed to record tournament")
		return nil, fmt.Errorf("%w: record tournament: %w", ErrPersistenceFailure, err)
	}

	s.metrics.TournamentRecorded()
	s.logger.Info().Int("tournament_id", result.ID).Str("winner", result.Placements[0].PlayerName).Msg("tournament recorded")

	s.archiveResult(ctx, result, points)
	s.broadcastLeaderboard(ctx)
	return result, nil
}

func (s *seasonService) accrue(ctx context.Context, exec repositories.SQLExecutor, p *models.TournamentPlayerPoints, now time.Time) error {
	if err := s.leaderboard.LockPlayer(ctx, exec, p.PlayerName); err != nil {
		return err
	}

	current, err := s.leaderboard.GetByPlayerName(ctx, exec, p.PlayerName, true)
	if err != nil {
		if !errors.Is(err, repositories.ErrLeaderboardRowNotFound) {
			return fmt.Errorf("failed to load leaderboard row for %q: %w", p.PlayerName, err)
		}
		current = nil
	}

	next, err := scoring.Accrue(current, p.PlayerName, p.Placement, now)
	if err != nil {
		return err
	}
	return s.leaderboard.Upsert(ctx, exec, next)
}

func (s *seasonService) archiveResult(ctx context.Context, result *models.TournamentResult, points []*models.TournamentPlayerPoints) {
	if s.archive == nil {
		return
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	uploaded, err := s.archive.Archive(actx, result, points)
	if err != nil {
		s.logger.Warn().Err(err).Int("tournament_id", result.ID).Msg("failed to archive tournament result")
		return
	}
	s.logger.Debug().Int("tournament_id", result.ID).Str("key", uploaded.Key).Msg("tournament result archived")
}

func (s *seasonService) broadcastLeaderboard(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	rows, err := s.leaderboard.List(ctx, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load leaderboard for broadcast")
		return
	}
	s.broadcaster.BroadcastToRoom(live.SeasonRoom, live.Message{
		Type:    live.MessageLeaderboardUpdated,
		Payload: rows,
		RoomID:  live.SeasonRoom,
	})
}

func (s *seasonService) Leaderboard(ctx context.Context) ([]*models.LeaderboardRow, error) {
	rows, err := s.leaderboard.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: list leaderboard: %w", ErrPersistenceFailure, err)
	}
	return rows, nil
}

// ClampHistoryLimit maps a requested page size to 1..MaxHistoryLimit, defaulting when unset.
func ClampHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}

func (s *seasonService) History(ctx context.Context, limit int) ([]*models.TournamentResult, error) {
	results, err := s.results.List(ctx, nil, ClampHistoryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: list tournament history: %w", ErrPersistenceFailure, err)
	}
	return results, nil
}

func (s *seasonService) PlayerHistory(ctx context.Context, playerName string) ([]*models.TournamentPlayerPoints, error) {
	if playerName == "" {
		return nil, fmt.Errorf("%w: player name is required", scoring.ErrInvalidInput)
	}
	rows, err := s.points.ListByPlayer(ctx, nil, playerName)
	if err != nil {
		return nil, fmt.Errorf("%w: list points of %q: %w", ErrPersistenceFailure, playerName, err)
	}
	return rows, nil
}

func (s *seasonService) Dashboard(ctx context.Context, limit int) (*models.Dashboard, error) {
	var dash models.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.leaderboard.List(gctx, nil)
		if err != nil {
			return fmt.Errorf("list leaderboard: %w", err)
		}
		dash.Leaderboard = rows
		return nil
	})
	g.Go(func() error {
		results, err := s.results.List(gctx, nil, ClampHistoryLimit(limit))
		if err != nil {
			return fmt.Errorf("list tournament history: %w", err)
		}
		dash.RecentTournaments = results
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: dashboard: %w", ErrPersistenceFailure, err)
	}
	return &dash, nil
}

func (s *seasonService) ResetSequence(ctx context.Context) error {
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.results.ResetIDSequence(ctx, exec)
	})
	if errors.Is(err, repositories.ErrTournamentResultsExist) {
		return fmt.Errorf("%w: %w", ErrSequenceResetRefused, err)
	}
	if err != nil {
		return fmt.Errorf("%w: reset id sequence: %w", ErrPersistenceFailure, err)
	}
	s.logger.Info().Msg("tournament id sequence reset")
	return nil
}

func (s *seasonService) ExportLeaderboard(ctx context.Context, w io.Writer) error {
	rows, err := s.Leaderboard(ctx)
	if err != nil {
		return err
	}
	return export.WriteLeaderboard(w, rows)
}

package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Dosada05/beach-cup/live"
	"github.com/Dosada05/beach-cup/metrics"
	"github.com/Dosada05/beach-cup/models"
	"github.com/Dosada05/beach-cup/scoring"
)

// SubmittedTournament is what a finished tournament produced.
type SubmittedTournament struct {
	Result    *models.TournamentResult `json:"result"`
	Standings []models.PlayerStats     `json:"standings"`
}

type TournamentService interface {
	StartTournament(ctx context.Context, playerNames []string) (*models.TournamentSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.TournamentSession, error)
	AddSet(ctx context.Context, sessionID string, gameNumber int) (*models.TournamentSession, error)
	// UpdateSetScore writes one team's score. rawScore is parsed leniently; junk becomes 0.
	UpdateSetScore(ctx context.Context, sessionID string, gameNumber, setIndex int, team models.Team, rawScore string) (*models.TournamentSession, error)
	RemoveSet(ctx context.Context, sessionID string, gameNumber, setIndex int) (*models.TournamentSession, error)
	Standings(ctx context.Context, sessionID string) ([]models.PlayerStats, error)
	// Submit records a finished session in the season and drops it from the store.
	Submit(ctx context.Context, sessionID string) (*SubmittedTournament, error)
	// ScoreAndSave scores games played elsewhere. playerNames[i] held slot i+1 and
	// sets[g] are the sets of game g+1.
	ScoreAndSave(ctx context.Context, playerNames []string, sets [][]models.SetResult) (*SubmittedTournament, error)
}

type tournamentService struct {
	store       SessionStore
	season      SeasonService
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	rng         *rand.Rand
	now         func() time.Time
}

// NewTournamentService builds the service. A nil rng draws slots from the global source.
func NewTournamentService(
	store SessionStore,
	season SeasonService,
	broadcaster Broadcaster,
	m *metrics.Metrics,
	logger zerolog.Logger,
	rng *rand.Rand,
) TournamentService {
	return &tournamentService{
		store:       store,
		season:      season,
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger.With().Str("service", "tournament").Logger(),
		rng:         rng,
		now:         time.Now,
	}
}

func (s *tournamentService) StartTournament(ctx context.Context, playerNames []string) (*models.TournamentSession, error) {
	assignments, err := scoring.AssignSlots(playerNames, s.rng)
	if err != nil {
		return nil, err
	}
	games, err := scoring.NewSchedule(assignments)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(assignments))
	for i, a := range assignments {
		names[i] = a.Name
	}
	now := s.now().UTC()
	session := &models.TournamentSession{
		ID:          uuid.NewString(),
		PlayerNames: names,
		Assignments: assignments,
		Games:       games,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.store.Put(session)
	s.metrics.SetActiveSessions(s.store.Len())

	s.logger.Info().Str("session_id", session.ID).Strs("players", names).Msg("tournament started")
	return session, nil
}

func (s *tournamentService) GetSession(ctx context.Context, sessionID string) (*models.TournamentSession, error) {
	return s.store.Get(sessionID)
}

func (s *tournamentService) AddSet(ctx context.Context, sessionID string, gameNumber int) (*models.TournamentSession, error) {
	return s.updateGame(sessionID, gameNumber, func(m models.MatchResult) (models.MatchResult, error) {
		return scoring.AddSet(m), nil
	})
}

func (s *tournamentService) UpdateSetScore(ctx context.Context, sessionID string, gameNumber, setIndex int, team models.Team, rawScore string) (*models.TournamentSession, error) {
	score := scoring.ParseScore(rawScore)
	return s.updateGame(sessionID, gameNumber, func(m models.MatchResult) (models.MatchResult, error) {
		return scoring.SetScore(m, setIndex, team, score)
	})
}

func (s *tournamentService) RemoveSet(ctx context.Context, sessionID string, gameNumber, setIndex int) (*models.TournamentSession, error) {
	return s.updateGame(sessionID, gameNumber, func(m models.MatchResult) (models.MatchResult, error) {
		return scoring.RemoveSet(m, setIndex), nil
	})
}

func (s *tournamentService) updateGame(sessionID string, gameNumber int, edit func(models.MatchResult) (models.MatchResult, error)) (*models.TournamentSession, error) {
	if gameNumber < 1 || gameNumber > scoring.GameCount {
		return nil, fmt.Errorf("%w: game number %d out of range 1..%d", scoring.ErrInvalidInput, gameNumber, scoring.GameCount)
	}

	session, err := s.store.Update(sessionID, func(session *models.TournamentSession) error {
		if session.Submitting {
			return ErrSubmissionInProgress
		}
		game := &session.Games[gameNumber-1]
		result, err := edit(game.Result)
		if err != nil {
			return err
		}
		game.Result = result
		session.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(live.TournamentRoom(sessionID), live.MessageMatchUpdated, session)
	return session, nil
}

func (s *tournamentService) Standings(ctx context.Context, sessionID string) ([]models.PlayerStats, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return scoring.ComputeStandings(session.Assignments, session.Games)
}

// Submit records the session's standings and drops the session. The session is
// claimed first, so a second submit or an edit racing with it fails with
// ErrSubmissionInProgress; a failed record releases the claim.
func (s *tournamentService) Submit(ctx context.Context, sessionID string) (*SubmittedTournament, error) {
	var standings []models.PlayerStats
	session, err := s.store.Update(sessionID, func(session *models.TournamentSession) error {
		if session.Submitting {
			return ErrSubmissionInProgress
		}
		computed, err := scoring.ComputeStandings(session.Assignments, session.Games)
		if err != nil {
			return err
		}
		standings = computed
		session.Submitting = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := s.season.RecordTournament(ctx, session.PlayerNames, standings)
	if err != nil {
		s.release(sessionID)
		return nil, err
	}

	s.store.Delete(sessionID)
	s.metrics.SetActiveSessions(s.store.Len())

	submitted := &SubmittedTournament{Result: result, Standings: standings}
	s.broadcast(live.TournamentRoom(sessionID), live.MessageTournamentSubmitted, submitted)
	return submitted, nil
}

func (s *tournamentService) release(sessionID string) {
	_, err := s.store.Update(sessionID, func(session *models.TournamentSession) error {
		session.Submitting = false
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to release tournament session after failed submit")
	}
}

func (s *tournamentService) ScoreAndSave(ctx context.Context, playerNames []string, sets [][]models.SetResult) (*SubmittedTournament, error) {
	assignments, err := scoring.SequentialSlots(playerNames)
	if err != nil {
		return nil, err
	}
	games, err := scoring.NewSchedule(assignments)
	if err != nil {
		return nil, err
	}
	if len(sets) != scoring.GameCount {
		return nil, fmt.Errorf("%w: need results for %d games, got %d", scoring.ErrInvalidInput, scoring.GameCount, len(sets))
	}

	for i := range games {
		if len(sets[i]) > scoring.MaxSets {
			return nil, fmt.Errorf("%w: game %d has %d sets, at most %d allowed", scoring.ErrInvalidInput, i+1, len(sets[i]), scoring.MaxSets)
		}
		cleaned := make([]models.SetResult, len(sets[i]))
		for j, set := range sets[i] {
			cleaned[j] = models.SetResult{Team1Score: max(set.Team1Score, 0), Team2Score: max(set.Team2Score, 0)}
		}
		games[i].Result = scoring.ScoreMatch(cleaned)
	}

	standings, err := scoring.ComputeStandings(assignments, games)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(assignments))
	for i, a := range assignments {
		names[i] = a.Name
	}
	result, err := s.season.RecordTournament(ctx, names, standings)
	if err != nil {
		return nil, err
	}
	return &SubmittedTournament{Result: result, Standings: standings}, nil
}

func (s *tournamentService) broadcast(room, messageType string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRoom(room, live.Message{Type: messageType, Payload: payload, RoomID: room})
}

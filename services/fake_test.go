package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Dosada05/beach-cup/models"
	"github.com/Dosada05/beach-cup/repositories"
	"github.com/Dosada05/beach-cup/storage"
)

// ------------------------
// Fake TxRunner
// ------------------------

type FakeTxRunner struct {
	Commits   int
	Rollbacks int
}

func (f *FakeTxRunner) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if err := fn(nil); err != nil {
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}

// ------------------------
// Fake Leaderboard Repository
// ------------------------

// FakeLeaderboardRepo keeps rows in memory unless a Func override is set.
type FakeLeaderboardRepo struct {
	mu    sync.Mutex
	trace []string
	rows  map[string]*models.LeaderboardRow

	GetByPlayerNameFunc func(ctx context.Context, playerName string) (*models.LeaderboardRow, error)
	UpsertFunc          func(ctx context.Context, row *models.LeaderboardRow) error
	ListFunc            func(ctx context.Context) ([]*models.LeaderboardRow, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{rows: make(map[string]*models.LeaderboardRow)}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeLeaderboardRepo) GetByPlayerName(ctx context.Context, exec repositories.SQLExecutor, playerName string, forUpdate bool) (*models.LeaderboardRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByPlayerName:" + playerName)
	if f.GetByPlayerNameFunc != nil {
		return f.GetByPlayerNameFunc(ctx, playerName)
	}
	row, ok := f.rows[playerName]
	if !ok {
		return nil, repositories.ErrLeaderboardRowNotFound
	}
	c := *row
	return &c, nil
}

func (f *FakeLeaderboardRepo) LockPlayer(ctx context.Context, exec repositories.SQLExecutor, playerName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("LockPlayer:" + playerName)
	return nil
}

func (f *FakeLeaderboardRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, row *models.LeaderboardRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Upsert:" + row.PlayerName)
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, row)
	}
	c := *row
	f.rows[row.PlayerName] = &c
	return nil
}

func (f *FakeLeaderboardRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.LeaderboardRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	out := make([]*models.LeaderboardRow, 0, len(f.rows))
	for _, r := range f.rows {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPlayerPoints != out[j].TotalPlayerPoints {
			return out[i].TotalPlayerPoints > out[j].TotalPlayerPoints
		}
		if out[i].TournamentsPlayed != out[j].TournamentsPlayed {
			return out[i].TournamentsPlayed < out[j].TournamentsPlayed
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out, nil
}

// ------------------------
// Fake Tournament Result Repository
// ------------------------

type FakeTournamentResultRepo struct {
	mu      sync.Mutex
	nextID  int
	Created []*models.TournamentResult

	CreateFunc          func(ctx context.Context, result *models.TournamentResult) error
	ListFunc            func(ctx context.Context, limit int) ([]*models.TournamentResult, error)
	ResetIDSequenceFunc func(ctx context.Context) error
}

func (f *FakeTournamentResultRepo) Create(ctx context.Context, exec repositories.SQLExecutor, result *models.TournamentResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, result)
	}
	f.nextID++
	result.ID = f.nextID
	f.Created = append(f.Created, result)
	return nil
}

func (f *FakeTournamentResultRepo) List(ctx context.Context, exec repositories.SQLExecutor, limit int) ([]*models.TournamentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListFunc != nil {
		return f.ListFunc(ctx, limit)
	}
	out := make([]*models.TournamentResult, 0, limit)
	for i := len(f.Created) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.Created[i])
	}
	return out, nil
}

func (f *FakeTournamentResultRepo) Count(ctx context.Context, exec repositories.SQLExecutor) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Created), nil
}

func (f *FakeTournamentResultRepo) ResetIDSequence(ctx context.Context, exec repositories.SQLExecutor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ResetIDSequenceFunc != nil {
		return f.ResetIDSequenceFunc(ctx)
	}
	if len(f.Created) > 0 {
		return repositories.ErrTournamentResultsExist
	}
	f.nextID = 0
	return nil
}

// ------------------------
// Fake Player Points Repository
// ------------------------

type FakePlayerPointsRepo struct {
	mu   sync.Mutex
	Rows []*models.TournamentPlayerPoints

	BatchCreateFunc func(ctx context.Context, rows []*models.TournamentPlayerPoints) error
}

func (f *FakePlayerPointsRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, rows []*models.TournamentPlayerPoints) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.BatchCreateFunc != nil {
		return f.BatchCreateFunc(ctx, rows)
	}
	f.Rows = append(f.Rows, rows...)
	return nil
}

func (f *FakePlayerPointsRepo) ListByPlayer(ctx context.Context, exec repositories.SQLExecutor, playerName string) ([]*models.TournamentPlayerPoints, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.TournamentPlayerPoints, 0)
	for i := len(f.Rows) - 1; i >= 0; i-- {
		if f.Rows[i].PlayerName == playerName {
			out = append(out, f.Rows[i])
		}
	}
	return out, nil
}

// ------------------------
// Fake Broadcaster and Archiver
// ------------------------

type sentMessage struct {
	Room    string
	Message interface{}
}

type FakeBroadcaster struct {
	mu   sync.Mutex
	Sent []sentMessage
}

func (f *FakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, sentMessage{Room: roomID, Message: message})
}

func (f *FakeBroadcaster) Rooms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := make([]string, len(f.Sent))
	for i, s := range f.Sent {
		rooms[i] = s.Room
	}
	return rooms
}

type FakeArchiver struct {
	Archived []int
	Err      error
}

func (f *FakeArchiver) Archive(ctx context.Context, result *models.TournamentResult, points []*models.TournamentPlayerPoints) (*storage.UploadResult, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.Archived = append(f.Archived, result.ID)
	return &storage.UploadResult{Key: storage.ArchiveKey(result.ID)}, nil
}

var errBoom = errors.New("boom")

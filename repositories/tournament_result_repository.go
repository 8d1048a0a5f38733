package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/beach-cup/models"
)

var ErrTournamentResultsExist = errors.New("tournament results exist")

type TournamentResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.TournamentResult) error
	// List returns the newest results first, by date and then creation time.
	List(ctx context.Context, exec SQLExecutor, limit int) ([]*models.TournamentResult, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
	// ResetIDSequence restarts ids at 1. It refuses with ErrTournamentResultsExist while any row exists.
	ResetIDSequence(ctx context.Context, exec SQLExecutor) error
}

type postgresTournamentResultRepository struct {
	db *sql.DB
}

func NewPostgresTournamentResultRepository(db *sql.DB) TournamentResultRepository {
	return &postgresTournamentResultRepository{db: db}
}

func (r *postgresTournamentResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentResultColumns = `id, date, created_at,
	player1_name, player2_name, player3_name, player4_name,
	first_place_player_name, first_place_player_games_won, first_place_player_sets_won, first_place_player_ratio,
	second_place_player_name, second_place_player_games_won, second_place_player_sets_won, second_place_player_ratio,
	third_place_player_name, third_place_player_games_won, third_place_player_sets_won, third_place_player_ratio,
	fourth_place_player_name, fourth_place_player_games_won, fourth_place_player_sets_won, fourth_place_player_ratio`

func (r *postgresTournamentResultRepository) scanResult(s rowScanner) (*models.TournamentResult, error) {
	var t models.TournamentResult
	dest := []interface{}{&t.ID, &t.Date, &t.CreatedAt}
	for i := range t.PlayerNames {
		dest = append(dest, &t.PlayerNames[i])
	}
	for i := range t.Placements {
		p := &t.Placements[i]
		dest = append(dest, &p.PlayerName, &p.GamesWon, &p.SetsWon, &p.Ratio)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresTournamentResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.TournamentResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_results (
			date,
			player1_name, player2_name, player3_name, player4_name,
			first_place_player_name, first_place_player_games_won, first_place_player_sets_won, first_place_player_ratio,
			second_place_player_name, second_place_player_games_won, second_place_player_sets_won, second_place_player_ratio,
			third_place_player_name, third_place_player_games_won, third_place_player_sets_won, third_place_player_ratio,
			fourth_place_player_name, fourth_place_player_games_won, fourth_place_player_sets_won, fourth_place_player_ratio
		) VALUES (
			COALESCE($1::date, CURRENT_DATE),
			$2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19, $20, $21
		)
		RETURNING id, date, created_at`

	args := []interface{}{nullableDate(result.Date)}
	for _, name := range result.PlayerNames {
		args = append(args, name)
	}
	for _, p := range result.Placements {
		args = append(args, p.PlayerName, p.GamesWon, p.SetsWon, p.Ratio)
	}

	err := executor.QueryRowContext(ctx, query, args...).Scan(&result.ID, &result.Date, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert tournament result: %w", err)
	}
	return nil
}

func (r *postgresTournamentResultRepository) List(ctx context.Context, exec SQLExecutor, limit int) ([]*models.TournamentResult, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + tournamentResultColumns + ` FROM tournament_results
		ORDER BY date DESC, created_at DESC
		LIMIT $1`

	rows, err := executor.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.TournamentResult, 0)
	for rows.Next() {
		t, errScan := r.scanResult(rows)
		if errScan != nil {
			return nil, errScan
		}
		results = append(results, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *postgresTournamentResultRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	executor := r.getExecutor(exec)
	var n int
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_results`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresTournamentResultRepository) ResetIDSequence(ctx context.Context, exec SQLExecutor) error {
	executor := r.getExecutor(exec)

	// Blocks concurrent inserts between the count and the restart; needs a transaction to hold.
	if _, err := executor.ExecContext(ctx, `LOCK TABLE tournament_results IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock tournament_results: %w", err)
	}
	n, err := r.Count(ctx, executor)
	if err != nil {
		return fmt.Errorf("failed to count tournament results: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: table has %d records", ErrTournamentResultsExist, n)
	}
	if _, err := executor.ExecContext(ctx, `ALTER SEQUENCE tournament_results_id_seq RESTART WITH 1`); err != nil {
		return fmt.Errorf("failed to restart tournament_results_id_seq: %w", err)
	}
	return nil
}

func nullableDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

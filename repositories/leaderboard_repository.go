package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/beach-cup/models"
)

var ErrLeaderboardRowNotFound = errors.New("leaderboard row not found")

type LeaderboardRepository interface {
	// GetByPlayerName looks the row up by exact name. forUpdate locks the row until the transaction ends.
	GetByPlayerName(ctx context.Context, exec SQLExecutor, playerName string, forUpdate bool) (*models.LeaderboardRow, error)
	// LockPlayer serializes writers for one player name, including names without a row yet.
	LockPlayer(ctx context.Context, exec SQLExecutor, playerName string) error
	Upsert(ctx context.Context, exec SQLExecutor, row *models.LeaderboardRow) error
	List(ctx context.Context, exec SQLExecutor) ([]*models.LeaderboardRow, error)
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

func (r *postgresLeaderboardRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const leaderboardColumns = `id, player_name, total_player_points, tournaments_played,
	first_places, second_places, third_places, fourth_places, created_at, updated_at`

func (r *postgresLeaderboardRepository) scanRow(s rowScanner) (*models.LeaderboardRow, error) {
	var row models.LeaderboardRow
	err := s.Scan(
		&row.ID, &row.PlayerName, &row.TotalPlayerPoints, &row.TournamentsPlayed,
		&row.FirstPlaces, &row.SecondPlaces, &row.ThirdPlaces, &row.FourthPlaces,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeaderboardRowNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *postgresLeaderboardRepository) GetByPlayerName(ctx context.Context, exec SQLExecutor, playerName string, forUpdate bool) (*models.LeaderboardRow, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + leaderboardColumns + ` FROM season_leaderboard WHERE player_name = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	return r.scanRow(executor.QueryRowContext(ctx, query, playerName))
}

func (r *postgresLeaderboardRepository) LockPlayer(ctx context.Context, exec SQLExecutor, playerName string) error {
	executor := r.getExecutor(exec)
	// Transaction-scoped: released on commit or rollback.
	if _, err := executor.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, playerName); err != nil {
		return fmt.Errorf("failed to lock leaderboard row for %q: %w", playerName, err)
	}
	return nil
}

func (r *postgresLeaderboardRepository) Upsert(ctx context.Context, exec SQLExecutor, row *models.LeaderboardRow) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO season_leaderboard
		    (player_name, total_player_points, tournaments_played,
		     first_places, second_places, third_places, fourth_places, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_name) DO UPDATE SET
			total_player_points = EXCLUDED.total_player_points,
			tournaments_played = EXCLUDED.tournaments_played,
			first_places = EXCLUDED.first_places,
			second_places = EXCLUDED.second_places,
			third_places = EXCLUDED.third_places,
			fourth_places = EXCLUDED.fourth_places,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		row.PlayerName, row.TotalPlayerPoints, row.TournamentsPlayed,
		row.FirstPlaces, row.SecondPlaces, row.ThirdPlaces, row.FourthPlaces,
		row.CreatedAt, row.UpdatedAt,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard row for %q: %w", row.PlayerName, err)
	}
	return nil
}

func (r *postgresLeaderboardRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.LeaderboardRow, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + leaderboardColumns + ` FROM season_leaderboard
		ORDER BY total_player_points DESC, tournaments_played ASC, player_name ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.LeaderboardRow, 0)
	for rows.Next() {
		row, errScan := r.scanRow(rows)
		if errScan != nil {
			return nil, errScan
		}
		out = append(out, row)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/beach-cup/models"
	"github.com/lib/pq"
)

var ErrPlayerPointsConflict = errors.New("player already has points for this tournament")

type PlayerPointsRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, rows []*models.TournamentPlayerPoints) error
	ListByPlayer(ctx context.Context, exec SQLExecutor, playerName string) ([]*models.TournamentPlayerPoints, error)
}

type postgresPlayerPointsRepository struct {
	db *sql.DB
}

func NewPostgresPlayerPointsRepository(db *sql.DB) PlayerPointsRepository {
	return &postgresPlayerPointsRepository{db: db}
}

func (r *postgresPlayerPointsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// BatchCreate expects exec to be a transaction when the rows must land together.
func (r *postgresPlayerPointsRepository) BatchCreate(ctx context.Context, exec SQLExecutor, rows []*models.TournamentPlayerPoints) error {
	if len(rows) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	stmt, err := executor.PrepareContext(ctx, `
		INSERT INTO tournament_player_points
		    (tournament_result_id, player_name, placement, player_points, games_won, sets_won, ratio, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8::date, CURRENT_DATE))
		RETURNING id, date, created_at`)
	if err != nil {
		return fmt.Errorf("BatchCreate failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		err = stmt.QueryRowContext(ctx,
			p.TournamentResultID, p.PlayerName, p.Placement, p.PlayerPoints,
			p.GamesWon, p.SetsWon, p.Ratio, nullableDate(p.Date),
		).Scan(&p.ID, &p.Date, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("BatchCreate failed for player %q: %w", p.PlayerName, r.handlePlayerPointsError(err))
		}
	}
	return nil
}

func (r *postgresPlayerPointsRepository) ListByPlayer(ctx context.Context, exec SQLExecutor, playerName string) ([]*models.TournamentPlayerPoints, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_result_id, player_name, placement, player_points,
		       games_won, sets_won, ratio, date, created_at
		FROM tournament_player_points
		WHERE player_name = $1
		ORDER BY date DESC, created_at DESC`

	rows, err := executor.QueryContext(ctx, query, playerName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.TournamentPlayerPoints, 0)
	for rows.Next() {
		var p models.TournamentPlayerPoints
		if scanErr := rows.Scan(
			&p.ID, &p.TournamentResultID, &p.PlayerName, &p.Placement, &p.PlayerPoints,
			&p.GamesWon, &p.SetsWon, &p.Ratio, &p.Date, &p.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresPlayerPointsRepository) handlePlayerPointsError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %w", ErrPlayerPointsConflict, err)
	}
	return err
}

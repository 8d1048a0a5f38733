package models

import "time"

// Placement is the snapshot of one final position in a tournament.
type Placement struct {
	PlayerName string  `json:"player_name" db:"player_name"`
	GamesWon   int     `json:"games_won" db:"games_won"`
	SetsWon    int     `json:"sets_won" db:"sets_won"`
	Ratio      float64 `json:"ratio" db:"ratio"`
}

// TournamentResult is written once per finished tournament and never updated.
type TournamentResult struct {
	ID          int          `json:"id" db:"id"`
	Date        time.Time    `json:"date" db:"date"`
	PlayerNames [4]string    `json:"player_names" db:"-"`
	Placements  [4]Placement `json:"placements" db:"-"` // index 0 is first place
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// TournamentPlayerPoints records what a single tournament awarded one player.
type TournamentPlayerPoints struct {
	ID                 int       `json:"id" db:"id"`
	TournamentResultID int       `json:"tournament_result_id" db:"tournament_result_id"`
	PlayerName         string    `json:"player_name" db:"player_name"`
	Placement          int       `json:"placement" db:"placement"`
	PlayerPoints       int       `json:"player_points" db:"player_points"`
	GamesWon           int       `json:"games_won" db:"games_won"`
	SetsWon            int       `json:"sets_won" db:"sets_won"`
	Ratio              float64   `json:"ratio" db:"ratio"`
	Date               time.Time `json:"date" db:"date"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

package models

// PlayerStats is recomputed from the games every time it is requested.
type PlayerStats struct {
	Name       string  `json:"name"`
	GamesWon   int     `json:"games_won"`
	SetsWon    int     `json:"sets_won"`
	PointsWon  int     `json:"points_won"`
	PointsLost int     `json:"points_lost"`
	Ratio      float64 `json:"ratio"`
	Position   int     `json:"position"`
}

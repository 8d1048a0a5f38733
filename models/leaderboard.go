package models

import "time"

// LeaderboardRow is one player's cumulative season standing.
type LeaderboardRow struct {
	ID                int       `json:"id" db:"id"`
	PlayerName        string    `json:"player_name" db:"player_name"`
	TotalPlayerPoints int       `json:"total_player_points" db:"total_player_points"`
	TournamentsPlayed int       `json:"tournaments_played" db:"tournaments_played"`
	FirstPlaces       int       `json:"first_places" db:"first_places"`
	SecondPlaces      int       `json:"second_places" db:"second_places"`
	ThirdPlaces       int       `json:"third_places" db:"third_places"`
	FourthPlaces      int       `json:"fourth_places" db:"fourth_places"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// PlacementCounter returns a pointer to the counter for position 1..4, or nil.
func (r *LeaderboardRow) PlacementCounter(position int) *int {
	switch position {
	case 1:
		return &r.FirstPlaces
	case 2:
		return &r.SecondPlaces
	case 3:
		return &r.ThirdPlaces
	case 4:
		return &r.FourthPlaces
	default:
		return nil
	}
}

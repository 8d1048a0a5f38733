package models

// Dashboard is the season overview served on the landing page.
type Dashboard struct {
	Leaderboard       []*LeaderboardRow   `json:"leaderboard"`
	RecentTournaments []*TournamentResult `json:"recent_tournaments"`
}

package models

import (
	"encoding/json"
	"fmt"
)

// Team identifies one side of a game. NoTeam marks an undecided set or match.
type Team int

const (
	NoTeam Team = 0
	Team1  Team = 1
	Team2  Team = 2
)

func (t Team) Valid() bool {
	return t == Team1 || t == Team2
}

// MarshalJSON renders NoTeam as null, the way the scoreboard expects it.
func (t Team) MarshalJSON() ([]byte, error) {
	if t == NoTeam {
		return []byte("null"), nil
	}
	return json.Marshal(int(t))
}

func (t *Team) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = NoTeam
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v != 0 && v != 1 && v != 2 {
		return fmt.Errorf("invalid team %d", v)
	}
	*t = Team(v)
	return nil
}

type SetResult struct {
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

// Winner returns NoTeam for a tied set.
func (s SetResult) Winner() Team {
	switch {
	case s.Team1Score > s.Team2Score:
		return Team1
	case s.Team2Score > s.Team1Score:
		return Team2
	default:
		return NoTeam
	}
}

// MatchResult is derived from Sets; it is never edited field by field.
type MatchResult struct {
	Sets        []SetResult `json:"sets"`
	Team1Wins   int         `json:"team1_wins"`
	Team2Wins   int         `json:"team2_wins"`
	Result      string      `json:"match_result"`
	WinningTeam Team        `json:"winning_team"`
}

func (m MatchResult) Decided() bool {
	return m.WinningTeam != NoTeam
}

type Game struct {
	GameNumber int         `json:"game_number"`
	Team1      [2]string   `json:"team1"`
	Team2      [2]string   `json:"team2"`
	Result     MatchResult `json:"result"`
}

// Players returns the players of the given side.
func (g Game) Players(team Team) [2]string {
	if team == Team2 {
		return g.Team2
	}
	return g.Team1
}

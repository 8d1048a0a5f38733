package models

import "time"

// TournamentSession is a tournament being played: schedule fixed, scores still editable.
type TournamentSession struct {
	ID          string           `json:"id"`
	PlayerNames []string         `json:"player_names"` // input order
	Assignments []SlotAssignment `json:"assignments"`
	Games       []Game           `json:"games"`
	Submitting  bool             `json:"submitting"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Clone returns a deep copy so callers never share set slices with the store.
func (s *TournamentSession) Clone() *TournamentSession {
	if s == nil {
		return nil
	}
	c := *s
	c.PlayerNames = append([]string(nil), s.PlayerNames...)
	c.Assignments = append([]SlotAssignment(nil), s.Assignments...)
	c.Games = make([]Game, len(s.Games))
	for i, g := range s.Games {
		g.Result.Sets = append([]SetResult(nil), g.Result.Sets...)
		c.Games[i] = g
	}
	return &c
}

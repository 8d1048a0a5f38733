package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/beach-cup/models"
)

// MaxSets is the most sets a match can hold; best of three.
const MaxSets = 3

// ScoreMatch counts set wins and derives the match result. Tied sets count for neither side.
func ScoreMatch(sets []models.SetResult) models.MatchResult {
	res := models.MatchResult{Sets: append([]models.SetResult{}, sets...)}
	for _, s := range sets {
		switch s.Winner() {
		case models.Team1:
			res.Team1Wins++
		case models.Team2:
			res.Team2Wins++
		}
	}

	res.Result = fmt.Sprintf("%d:%d", res.Team1Wins, res.Team2Wins)
	switch {
	case res.Team1Wins > res.Team2Wins:
		res.WinningTeam = models.Team1
	case res.Team2Wins > res.Team1Wins:
		res.WinningTeam = models.Team2
	default:
		res.WinningTeam = models.NoTeam
	}
	return res
}

// AddSet appends an empty 0:0 set. A match already holding MaxSets sets is returned unchanged.
func AddSet(m models.MatchResult) models.MatchResult {
	if len(m.Sets) >= MaxSets {
		return ScoreMatch(m.Sets)
	}
	sets := append(append([]models.SetResult{}, m.Sets...), models.SetResult{})
	return ScoreMatch(sets)
}

// SetScore writes one team's score for the set at setIndex, creating empty sets up to it.
// Negative scores are stored as 0.
func SetScore(m models.MatchResult, setIndex int, team models.Team, score int) (models.MatchResult, error) {
	if setIndex < 0 || setIndex >= MaxSets {
		return m, fmt.Errorf("%w: set index %d out of range 0..%d", ErrInvalidInput, setIndex, MaxSets-1)
	}
	if !team.Valid() {
		return m, fmt.Errorf("%w: team must be 1 or 2, got %d", ErrInvalidInput, team)
	}
	if score < 0 {
		score = 0
	}

	sets := append([]models.SetResult{}, m.Sets...)
	for len(sets) <= setIndex {
		sets = append(sets, models.SetResult{})
	}
	if team == models.Team1 {
		sets[setIndex].Team1Score = score
	} else {
		sets[setIndex].Team2Score = score
	}
	return ScoreMatch(sets), nil
}

// RemoveSet drops the set at setIndex; later sets move down one place.
// An out-of-range index leaves the match as it was.
func RemoveSet(m models.MatchResult, setIndex int) models.MatchResult {
	if setIndex < 0 || setIndex >= len(m.Sets) {
		return ScoreMatch(m.Sets)
	}
	sets := make([]models.SetResult, 0, len(m.Sets)-1)
	sets = append(sets, m.Sets[:setIndex]...)
	sets = append(sets, m.Sets[setIndex+1:]...)
	return ScoreMatch(sets)
}

// ParseScore reads a score typed by a scorekeeper. Anything that is not a
// non-negative integer becomes 0.
func ParseScore(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/Dosada05/beach-cup/models"
)

// BuildTournamentResult snapshots ranked standings. playerNames keeps the order the
// names were entered in.
func BuildTournamentResult(playerNames []string, standings []models.PlayerStats, date time.Time) (*models.TournamentResult, error) {
	if len(playerNames) != PlayerCount {
		return nil, fmt.Errorf("%w: need %d player names, got %d", ErrInvalidInput, PlayerCount, len(playerNames))
	}
	ranked, err := byPosition(standings)
	if err != nil {
		return nil, err
	}

	res := &models.TournamentResult{Date: date}
	copy(res.PlayerNames[:], playerNames)
	for i, s := range ranked {
		res.Placements[i] = models.Placement{
			PlayerName: s.Name,
			GamesWon:   s.GamesWon,
			SetsWon:    s.SetsWon,
			Ratio:      s.Ratio,
		}
	}
	return res, nil
}

// BuildPlayerPoints lists the season points each player earned in one tournament, first place first.
func BuildPlayerPoints(standings []models.PlayerStats, date time.Time) ([]*models.TournamentPlayerPoints, error) {
	ranked, err := byPosition(standings)
	if err != nil {
		return nil, err
	}

	out := make([]*models.TournamentPlayerPoints, 0, len(ranked))
	for _, s := range ranked {
		points, err := PlacementPoints(s.Position)
		if err != nil {
			return nil, err
		}
		out = append(out, &models.TournamentPlayerPoints{
			PlayerName:   s.Name,
			Placement:    s.Position,
			PlayerPoints: points,
			GamesWon:     s.GamesWon,
			SetsWon:      s.SetsWon,
			Ratio:        s.Ratio,
			Date:         date,
		})
	}
	return out, nil
}

func byPosition(standings []models.PlayerStats) ([]models.PlayerStats, error) {
	if len(standings) != PlayerCount {
		return nil, fmt.Errorf("%w: need %d ranked players, got %d", ErrInvalidInput, PlayerCount, len(standings))
	}
	ranked := append([]models.PlayerStats(nil), standings...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Position < ranked[j].Position })
	for i, s := range ranked {
		if s.Position != i+1 {
			return nil, fmt.Errorf("%w: positions must be exactly 1..%d", ErrInvalidInput, PlayerCount)
		}
	}
	return ranked, nil
}

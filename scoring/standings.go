package scoring

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/Dosada05/beach-cup/models"
)

// IsScoreable reports whether all three games have a winner, judged from their sets.
func IsScoreable(games []models.Game) bool {
	if len(games) != GameCount {
		return false
	}
	for _, g := range games {
		if !ScoreMatch(g.Result.Sets).Decided() {
			return false
		}
	}
	return true
}

// Ratio is points won over points lost rounded to two decimals, or points won when nothing was lost.
// Rounding works on the exact value of the float64 quotient, halves going up, so a quotient
// such as 3/40 that is stored just below 0.075 becomes 0.07.
func Ratio(pointsWon, pointsLost int) float64 {
	if pointsLost <= 0 {
		return float64(pointsWon)
	}
	return roundHundredths(float64(pointsWon) / float64(pointsLost))
}

func roundHundredths(x float64) float64 {
	neg := x < 0
	if neg {
		x = -x
	}
	v := new(big.Float).SetPrec(256).SetFloat64(x)
	v.Mul(v, big.NewFloat(100))
	v.Add(v, big.NewFloat(0.5))
	n, _ := v.Int(nil)
	out := float64(n.Int64()) / 100
	if neg {
		return -out
	}
	return out
}

// ComputeStandings folds the games into per-player statistics and ranks them by
// games won, then sets won, then ratio, all descending. Players still level after
// that keep the order of assignments. Positions are 1..4 with no shared places.
func ComputeStandings(assignments []models.SlotAssignment, games []models.Game) ([]models.PlayerStats, error) {
	if !IsScoreable(games) {
		return nil, ErrNotScoreable
	}
	if _, err := playersBySlot(assignments); err != nil {
		return nil, err
	}

	stats := make([]models.PlayerStats, len(assignments))
	index := make(map[string]int, len(assignments))
	for i, a := range assignments {
		stats[i] = models.PlayerStats{Name: a.Name}
		index[a.Name] = i
	}

	for _, g := range games {
		team1, err := lookupTeam(index, g.Team1, g.GameNumber)
		if err != nil {
			return nil, err
		}
		team2, err := lookupTeam(index, g.Team2, g.GameNumber)
		if err != nil {
			return nil, err
		}
		if err := checkDistinct(team1, team2, g.GameNumber); err != nil {
			return nil, err
		}
		result := ScoreMatch(g.Result.Sets)

		for _, set := range result.Sets {
			for _, p := range team1 {
				stats[p].PointsWon += set.Team1Score
				stats[p].PointsLost += set.Team2Score
			}
			for _, p := range team2 {
				stats[p].PointsWon += set.Team2Score
				stats[p].PointsLost += set.Team1Score
			}

			switch set.Winner() {
			case models.Team1:
				for _, p := range team1 {
					stats[p].SetsWon++
				}
			case models.Team2:
				for _, p := range team2 {
					stats[p].SetsWon++
				}
			}
		}

		winners := team1
		if result.WinningTeam == models.Team2 {
			winners = team2
		}
		for _, p := range winners {
			stats[p].GamesWon++
		}
	}

	for i := range stats {
		stats[i].Ratio = Ratio(stats[i].PointsWon, stats[i].PointsLost)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.GamesWon != b.GamesWon {
			return a.GamesWon > b.GamesWon
		}
		if a.SetsWon != b.SetsWon {
			return a.SetsWon > b.SetsWon
		}
		return a.Ratio > b.Ratio
	})
	for i := range stats {
		stats[i].Position = i + 1
	}
	return stats, nil
}

func lookupTeam(index map[string]int, team [2]string, gameNumber int) ([2]int, error) {
	var out [2]int
	for i, name := range team {
		p, ok := index[name]
		if !ok {
			return out, fmt.Errorf("%w: game %d lists unknown player %q", ErrInvalidInput, gameNumber, name)
		}
		out[i] = p
	}
	return out, nil
}

func checkDistinct(team1, team2 [2]int, gameNumber int) error {
	seen := make(map[int]struct{}, 4)
	for _, p := range append(team1[:], team2[:]...) {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: game %d lists a player more than once", ErrInvalidInput, gameNumber)
		}
		seen[p] = struct{}{}
	}
	return nil
}

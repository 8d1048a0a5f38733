package scoring

import (
	"fmt"
	"time"

	"github.com/Dosada05/beach-cup/models"
)

// placementPoints[i] is awarded for position i+1.
var placementPoints = [PlayerCount]int{4, 3, 2, 1}

// PlacementPoints returns the season points for a final position.
func PlacementPoints(position int) (int, error) {
	if position < 1 || position > PlayerCount {
		return 0, fmt.Errorf("%w: position %d out of range 1..%d", ErrInvalidInput, position, PlayerCount)
	}
	return placementPoints[position-1], nil
}

// Accrue returns the leaderboard row after one more tournament finished in position.
// current is the stored row or nil for a first tournament; it is not modified.
func Accrue(current *models.LeaderboardRow, playerName string, position int, now time.Time) (*models.LeaderboardRow, error) {
	points, err := PlacementPoints(position)
	if err != nil {
		return nil, err
	}

	var next models.LeaderboardRow
	if current == nil {
		next = models.LeaderboardRow{
			PlayerName: playerName,
			CreatedAt:  now,
		}
	} else {
		if current.PlayerName != playerName {
			return nil, fmt.Errorf("%w: row for %q cannot accrue points of %q", ErrInvalidInput, current.PlayerName, playerName)
		}
		next = *current
	}

	next.TotalPlayerPoints += points
	next.TournamentsPlayed++
	*next.PlacementCounter(position)++
	next.UpdatedAt = now
	return &next, nil
}
